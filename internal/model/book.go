package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices and totals go over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Book models a row of the `books` table.  Reference is supplied by the
// caller and acts as the primary key.  Stock is never negative; the
// repository enforces this with conditional updates.
//
// Fields:
//  Reference   – caller supplied primary key.
//  Title       – display title, searched case-insensitively.
//  Author      – author name.
//  Editor      – publisher name.
//  Year        – publication year.
//  Price       – current unit price.
//  Description – free text summary.
//  Cover       – path of the cover image, served under /images.
//  Stock       – units available.
//  CreatedAt   – creation timestamp (UTC).
//  UpdatedAt   – last update timestamp (UTC).
type Book struct {
	Reference   uint64          `json:"reference"`
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	Editor      string          `json:"editor"`
	Year        int             `json:"year"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Cover       string          `json:"cover"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
