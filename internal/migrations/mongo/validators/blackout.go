package validators

import "go.mongodb.org/mongo-driver/bson"

var BlackoutWindowValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "boat_id", "start_date", "end_date", "is_active"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "long"},
			"boat_id":    bson.M{"bsonType": "long", "minimum": 1},
			"start_date": bson.M{"bsonType": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
			"end_date":   bson.M{"bsonType": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
			"start_time": bson.M{"bsonType": []string{"string", "null"}},
			"end_time":   bson.M{"bsonType": []string{"string", "null"}},
			"reason":     bson.M{"bsonType": "string", "maxLength": 500},
			"is_active":  bson.M{"bsonType": "bool"},
		},
	},
}
