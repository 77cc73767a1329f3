package models

// IDField is the identifier key injected into every stored document.
const IDField = "_id"

// Document is a free-form JSON object as stored in a collection.
// When read back from a repository it carries IDField as a 24-hex-char string.
type Document map[string]interface{}

// ID returns the document identifier, or "" if the document has none
func (d Document) ID() string {
	id, _ := d[IDField].(string)
	return id
}

// WithoutID returns a shallow copy of the document with IDField removed
func (d Document) WithoutID() Document {
	out := make(Document, len(d))
	for k, v := range d {
		if k == IDField {
			continue
		}
		out[k] = v
	}
	return out
}

// InsertResult acknowledges a single-document insert
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// UpdateResult acknowledges a single-document $set update.
// A missing target is not an error: MatchedCount is simply zero.
type UpdateResult struct {
	Acknowledged  bool    `json:"acknowledged"`
	MatchedCount  int64   `json:"matchedCount"`
	ModifiedCount int64   `json:"modifiedCount"`
	UpsertedCount int64   `json:"upsertedCount"`
	UpsertedID    *string `json:"upsertedId"`
}

// DeleteResult acknowledges a single-document delete
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}
