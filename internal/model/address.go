package model

// Address is a saved shipping address.
type Address struct {
	ID         string `json:"id"`
	FullName   string `json:"fullName" validate:"required"`
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode" validate:"required,alphanum,min=3,max=10"`
	Country    string `json:"country" validate:"required"`
	Phone      string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	IsDefault  bool   `json:"isDefault"`
}

// Key returns the collection identity of the address.
func (a Address) Key() string {
	return a.ID
}
