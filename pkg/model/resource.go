package model

type ResourceKind string

const (
	KindBoat   ResourceKind = "boat"
	KindCoach  ResourceKind = "coach"
	KindDriver ResourceKind = "driver"
)

type Resource struct {
	ID       int64        `json:"id" bson:"_id"`
	Kind     ResourceKind `json:"kind" bson:"kind"`
	Name     string       `json:"name" bson:"name"`
	Facility bool         `json:"facility,omitempty" bson:"facility,omitempty"`
}

// NameLookup builds an id->name map for the given resources.
func NameLookup(resources []*Resource) map[int64]string {
	names := make(map[int64]string, len(resources))
	for _, r := range resources {
		names[r.ID] = r.Name
	}
	return names
}
