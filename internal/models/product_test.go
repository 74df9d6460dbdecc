package models

import (
	"encoding/json"
	"testing"
)

func TestCategoryRef_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected CategoryRef
	}{
		{name: "bare id", input: `{"category":"c1"}`, expected: CategoryRef{ID: "c1"}},
		{name: "embedded object", input: `{"category":{"id":"c2","name":"Shoes"}}`, expected: CategoryRef{ID: "c2", Name: "Shoes"}},
		{name: "embedded mongo id", input: `{"category":{"_id":"c3","name":"Hats"}}`, expected: CategoryRef{ID: "c3", Name: "Hats"}},
		{name: "null", input: `{"category":null}`, expected: CategoryRef{}},
		{name: "missing", input: `{}`, expected: CategoryRef{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Product
			if err := json.Unmarshal([]byte(tt.input), &p); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Category != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, p.Category)
			}
		})
	}
}

func TestProduct_MarshalWritesBareCategoryID(t *testing.T) {
	p := Product{Name: "Laptop", Price: 10, Category: CategoryRef{ID: "c1", Name: "Computers"}}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw["category"] != "c1" {
		t.Errorf("expected category to be written as bare id, got %v", raw["category"])
	}
}

func TestIdentity_Key(t *testing.T) {
	if got := (Identity{ID: "a", MongoID: "b"}).Key(); got != "a" {
		t.Errorf("expected id to win, got %q", got)
	}
	if got := (Identity{MongoID: "b"}).Key(); got != "b" {
		t.Errorf("expected _id fallback, got %q", got)
	}
}

func TestUser_Address(t *testing.T) {
	u := User{Street: "1 Main St", Apartment: "2B", City: "Springfield", Country: "US"}
	if got := u.Address(); got != "1 Main St, 2B, Springfield, US" {
		t.Errorf("unexpected address %q", got)
	}
}
