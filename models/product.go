package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int             `json:"id"`
	ProductName string          `json:"product_name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ID may be supplied by the caller; when omitted the database assigns one.
type CreateProductRequest struct {
	ID          *int            `json:"id" validate:"omitempty,gt=0"`
	ProductName string          `json:"product_name" validate:"required,max=120"`
	Description *string         `json:"description" validate:"omitempty,max=1000"`
	Price       decimal.Decimal `json:"price" validate:"required"`
}
