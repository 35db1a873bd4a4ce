package validators

import "go.mongodb.org/mongo-driver/bson"

var DoctorValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"full_name", "email", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"full_name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},
			"email": bson.M{
				"bsonType": "string",
			},
			"age": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  18,
				"maximum":  100,
			},
			"created_at": bson.M{"bsonType": "date"},
			"updated_at": bson.M{"bsonType": "date"},
		},
	},
}

var BlogValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"title", "author", "content", "publish_date"},
		"additionalProperties": true,
		"properties": bson.M{
			"title": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},
			"author": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},
			"content": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},
			"publish_date": bson.M{"bsonType": "date"},
		},
	},
}

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"email", "password_hash", "role", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"email":         bson.M{"bsonType": "string"},
			"password_hash": bson.M{"bsonType": "string", "minLength": 1},
			"role": bson.M{
				"bsonType": "string",
				"enum":     []string{"user", "admin"},
			},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
