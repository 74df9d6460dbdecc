package models

// Identity carries the id of a record as served by the storefront API, which
// may label it "id" or "_id" depending on the collection.
type Identity struct {
	ID      string `json:"id,omitempty" schema:"-"`
	MongoID string `json:"_id,omitempty" schema:"-"`
}

// Key returns the record id, preferring "id" over "_id".
func (i Identity) Key() string {
	if i.ID != "" {
		return i.ID
	}
	return i.MongoID
}
