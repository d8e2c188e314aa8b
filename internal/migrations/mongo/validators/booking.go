package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"date",
			"start_time",
			"duration_min",
			"boat_id",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "long",
				"minimum":  1,
			},

			"date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"start_time": bson.M{
				"bsonType": "string",
				"pattern":  `^([01]\d|2[0-3]):[0-5]\d$`,
			},

			"duration_min": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
				"maximum":  1440,
			},

			"cleanup_min": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"boat_id": bson.M{
				"bsonType": "long",
				"minimum":  1,
			},

			"coach_ids": bson.M{
				"bsonType": "array",
				"items":    bson.M{"bsonType": "long"},
			},

			"driver_ids": bson.M{
				"bsonType": "array",
				"items":    bson.M{"bsonType": "long"},
			},

			"display_name": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},
		},
	},
}
