package repository

import (
	"context"
	"fmt"

	conflictserrors "fleetbook/internal/conflicts/errors"
	"fleetbook/pkg/config"
	"fleetbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	BookingsCollection  = "Bookings"
	BlackoutsCollection = "Blackout_windows"
	ResourcesCollection = "Resources"
)

type mongoStore struct {
	cfg       *config.Config
	client    *mongo.Client
	bookings  *mongo.Collection
	blackouts *mongo.Collection
	resources *mongo.Collection
}

func NewMongoStore(cfg *config.Config) Store {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoStore{
		cfg:       cfg,
		client:    cfg.Client.Mongo,
		bookings:  db.Collection(BookingsCollection),
		blackouts: db.Collection(BlackoutsCollection),
		resources: db.Collection(ResourcesCollection),
	}
}

func (r *mongoStore) FindBlackoutWindows(ctx context.Context, boatIDs []int64, from, to string) ([]*model.BlackoutWindow, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"boat_id":    bson.M{"$in": boatIDs},
		"is_active":  true,
		"start_date": bson.M{"$lte": to},
		"end_date":   bson.M{"$gte": from},
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.blackouts.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeErr("find blackout windows", err)
	}
	defer cursor.Close(ctx)

	var windows []*model.BlackoutWindow
	if err = cursor.All(ctx, &windows); err != nil {
		return nil, storeErr("decode blackout windows", err)
	}
	return windows, nil
}

func (r *mongoStore) FindBoatBookings(ctx context.Context, boatIDs []int64, from, to string) ([]*model.Booking, error) {
	return r.findBookings(ctx, "boat_id", boatIDs, from, to)
}

func (r *mongoStore) FindCoachBookings(ctx context.Context, coachIDs []int64, from, to string) ([]*model.Booking, error) {
	return r.findBookings(ctx, "coach_ids", coachIDs, from, to)
}

func (r *mongoStore) FindDriverBookings(ctx context.Context, driverIDs []int64, from, to string) ([]*model.Booking, error) {
	return r.findBookings(ctx, "driver_ids", driverIDs, from, to)
}

// findBookings matches field against ids. For the array fields coach_ids
// and driver_ids, $in matches when any element is in ids.
func (r *mongoStore) findBookings(ctx context.Context, field string, ids []int64, from, to string) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		field:  bson.M{"$in": ids},
		"date": bson.M{"$gte": from, "$lte": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.bookings.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeErr(fmt.Sprintf("find bookings by %s", field), err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, storeErr("decode bookings", err)
	}
	return bookings, nil
}

func (r *mongoStore) FindResources(ctx context.Context, kind model.ResourceKind, ids []int64) ([]*model.Resource, error) {
	if !validKind(kind) {
		return nil, fmt.Errorf("%w: %s", conflictserrors.ErrUnknownKind, kind)
	}
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"kind": kind, "_id": bson.M{"$in": ids}}
	cursor, err := r.resources.Find(ctx, filter)
	if err != nil {
		return nil, storeErr("find resources", err)
	}
	defer cursor.Close(ctx)

	var resources []*model.Resource
	if err = cursor.All(ctx, &resources); err != nil {
		return nil, storeErr("decode resources", err)
	}
	return resources, nil
}

func (r *mongoStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}

func validKind(kind model.ResourceKind) bool {
	switch kind {
	case model.KindBoat, model.KindCoach, model.KindDriver:
		return true
	}
	return false
}
