// Package catalog assembles everything a user sees on the home screen: their
// tracked stores, their products, and the links between the two.
package catalog

import (
	"github.com/angelmondragon/shopper-backend/pkg/enums"
	"github.com/google/uuid"
)

type Catalog struct {
	Stores   StoreIndex   `json:"stores"`
	Products ProductIndex `json:"products"`
}

// StoreIndex keeps ids in display order next to a lookup map.
type StoreIndex struct {
	IDs  []uuid.UUID              `json:"ids"`
	Data map[uuid.UUID]StoreEntry `json:"data"`
}

type StoreEntry struct {
	ID       uuid.UUID   `json:"id"`
	Name     string      `json:"name"`
	Lat      float64     `json:"lat"`
	Lng      float64     `json:"lng"`
	Products []uuid.UUID `json:"products"`
}

type ProductIndex struct {
	IDs  []uuid.UUID                `json:"ids"`
	Data map[uuid.UUID]ProductEntry `json:"data"`
}

type ProductEntry struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Status      enums.ProductStatus `json:"status"`
	Sponsored   bool                `json:"sponsored"`
	Stores      []uuid.UUID         `json:"stores"`
}

func empty() *Catalog {
	return &Catalog{
		Stores:   StoreIndex{IDs: []uuid.UUID{}, Data: map[uuid.UUID]StoreEntry{}},
		Products: ProductIndex{IDs: []uuid.UUID{}, Data: map[uuid.UUID]ProductEntry{}},
	}
}
