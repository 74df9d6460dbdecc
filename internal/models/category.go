package models

// Category groups products in the storefront.
type Category struct {
	Identity
	Name        string `json:"name" schema:"name" validate:"required"`
	Icon        string `json:"icon" schema:"icon"`
	Color       string `json:"color" schema:"color"`
	Description string `json:"description" schema:"description"`
	Image       string `json:"image,omitempty" schema:"image"`
}
