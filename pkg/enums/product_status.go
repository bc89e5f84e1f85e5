package enums

import (
	"fmt"
	"strings"
)

// ProductStatus is an open enum: rows may carry values this build does not know,
// but new products must use one of the known statuses.
type ProductStatus string

const (
	ProductStatusActive     ProductStatus = "ACTIVE"
	ProductStatusCrossedOff ProductStatus = "CROSSED_OFF"
	ProductStatusArchived   ProductStatus = "ARCHIVED"
)

// DefaultProductStatus applies when a product is created without a status.
const DefaultProductStatus = ProductStatusActive

var validProductStatuses = []ProductStatus{
	ProductStatusActive,
	ProductStatusCrossedOff,
	ProductStatusArchived,
}

// String implements fmt.Stringer.
func (s ProductStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductStatus.
func (s ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProductStatus converts raw input into a ProductStatus. Empty input yields
// the default status; matching is case-insensitive.
func ParseProductStatus(value string) (ProductStatus, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultProductStatus, nil
	}
	for _, candidate := range validProductStatuses {
		if strings.EqualFold(string(candidate), value) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product status %q", value)
}
