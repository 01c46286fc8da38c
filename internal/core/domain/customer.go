package domain

import "strings"

// Customer is a flat contact record managed through the customers API.
// IDs are assigned by the store in creation order.
type Customer struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Validate reports the first blank field as a *ValidationError.
func (c Customer) Validate() error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return &ValidationError{Field: "name", Reason: "is required"}
	case strings.TrimSpace(c.Phone) == "":
		return &ValidationError{Field: "phone", Reason: "is required"}
	case strings.TrimSpace(c.Address) == "":
		return &ValidationError{Field: "address", Reason: "is required"}
	}
	return nil
}
