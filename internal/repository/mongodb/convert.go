package mongodb

import (
	"userledger/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// toDocument converts a decoded BSON document into the JSON-facing shape:
// ObjectIDs become hex strings and nested documents/arrays become plain
// maps and slices.
func toDocument(raw bson.M) models.Document {
	doc := make(models.Document, len(raw))
	for k, v := range raw {
		doc[k] = toJSONValue(v)
	}
	return doc
}

func toJSONValue(v interface{}) interface{} {
	switch val := v.(type) {
	case primitive.ObjectID:
		return val.Hex()
	case bson.M:
		return map[string]interface{}(toDocument(val))
	case bson.D:
		out := make(map[string]interface{}, len(val))
		for _, e := range val {
			out[e.Key] = toJSONValue(e.Value)
		}
		return out
	case primitive.A:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = toJSONValue(item)
		}
		return out
	case primitive.DateTime:
		return val.Time().UTC()
	default:
		return v
	}
}
