package validators

import "go.mongodb.org/mongo-driver/bson"

var ResourceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "kind", "name"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":      bson.M{"bsonType": "long"},
			"kind":     bson.M{"enum": []string{"boat", "coach", "driver"}},
			"name":     bson.M{"bsonType": "string", "minLength": 1, "maxLength": 200},
			"facility": bson.M{"bsonType": "bool"},
		},
	},
}
