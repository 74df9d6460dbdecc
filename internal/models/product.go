package models

import (
	"bytes"
	"encoding/json"
)

// Product represents a catalogue entry served by /products.
type Product struct {
	Identity
	Name         string      `json:"name" schema:"name" validate:"required"`
	Description  string      `json:"description" schema:"description" validate:"required"`
	Price        float64     `json:"price" schema:"price" validate:"gt=0"`
	Category     CategoryRef `json:"category" schema:"category"`
	CountInStock int         `json:"countInStock" schema:"countInStock" validate:"gte=0"`
	Image        string      `json:"image,omitempty" schema:"image"`
}

// CategoryRef points a product at its category. The API has served it both as
// a bare id and as an embedded {id, name} object; it is always written back as
// the bare id.
type CategoryRef struct {
	ID   string `validate:"required"`
	Name string
}

func (c *CategoryRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = CategoryRef{}
		return nil
	}

	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*c = CategoryRef{ID: id}
		return nil
	}

	var embedded struct {
		Identity
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &embedded); err != nil {
		return err
	}
	*c = CategoryRef{ID: embedded.Key(), Name: embedded.Name}
	return nil
}

func (c CategoryRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ID)
}
