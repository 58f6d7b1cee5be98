package validators

import "go.mongodb.org/mongo-driver/bson"

var TenantValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"api_key",
			"is_active",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"domain": bson.M{
				"bsonType": "string",
			},

			"api_key": bson.M{
				"bsonType":  "string",
				"minLength": 16,
			},

			"settings": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"business_hours": bson.M{
						"bsonType": "object",
						"properties": bson.M{
							"start_hour": bson.M{
								"bsonType": "int",
								"minimum":  0,
								"maximum":  23,
							},
							"end_hour": bson.M{
								"bsonType": "int",
								"minimum":  1,
								"maximum":  24,
							},
						},
					},
				},
			},

			"is_active": bson.M{
				"bsonType": "bool",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
