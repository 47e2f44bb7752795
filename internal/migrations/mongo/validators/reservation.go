package validators

import "go.mongodb.org/mongo-driver/bson"

var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"resource_id",
			"resource_kind",
			"team_id",
			"amount",
			"starts_at",
			"ends_at",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"resource_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"resource_kind": bson.M{
				"bsonType": "string",
				"enum": []string{
					"zone",
					"material",
				},
			},

			"team_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"amount": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},

			"starts_at": bson.M{
				"bsonType": "date",
			},

			"ends_at": bson.M{
				"bsonType": "date",
			},

			"meeting_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			// Null means active; a date marks the soft delete.
			"cancelled_at": bson.M{
				"bsonType": []string{"date", "null"},
			},
		},
	},
}
