package validators

import "go.mongodb.org/mongo-driver/bson"

var AuditValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"tenant_id",
			"booking_id",
			"action",
			"performed_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 36,
				"maxLength": 36,
			},

			"tenant_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"booking_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"action": bson.M{
				"bsonType": "string",
				"enum": []string{
					"created",
					"updated",
					"cancelled",
					"confirmed",
				},
			},

			"old_values": bson.M{
				"bsonType": "object",
			},

			"new_values": bson.M{
				"bsonType": "object",
			},

			"performed_by": bson.M{
				"bsonType": "string",
			},

			"performed_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
