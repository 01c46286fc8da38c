package handler

import (
	"strconv"

	"github.com/custrec/customer-service/internal/core/domain"
	"github.com/custrec/customer-service/internal/core/ports"
)

// --- Request → Service input ---

func toCustomerInput(req customerRequest) ports.CustomerInput {
	return ports.CustomerInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}
}

// parseCustomerID accepts only positive base-10 integers.
func parseCustomerID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Field: "id", Reason: "must be a positive integer"}
	}
	return id, nil
}

// queryInt parses an optional integer query value; anything unparsable is
// treated as absent so the service applies its default.
func queryInt(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

// --- Domain → Response ---

func toCustomerResponse(c domain.Customer) customerResponse {
	return customerResponse{
		ID:      c.ID,
		Name:    c.Name,
		Phone:   c.Phone,
		Address: c.Address,
	}
}

func toListResponse(res *ports.ListCustomersResult) listCustomersResponse {
	items := make([]customerResponse, 0, len(res.Items))
	for _, c := range res.Items {
		items = append(items, toCustomerResponse(c))
	}
	return listCustomersResponse{
		Customers: items,
		Total:     res.Total,
		Page:      res.Page,
		LastPage:  res.LastPage,
	}
}
