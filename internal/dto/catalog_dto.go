package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type UpsertManualCategoryRequest struct {
	ProductName string `json:"product_name" validate:"required,min=1"`
	Category    string `json:"category"     validate:"required,min=1"`
}

type UpsertGenericProductRequest struct {
	ProductName string `json:"product_name" validate:"required,min=1"`
	GenericName string `json:"generic_name" validate:"required,min=1"`
}

type UpsertPackageUnitRequest struct {
	ProductName string          `json:"product_name" validate:"required,min=1"`
	Units       decimal.Decimal `json:"units"        validate:"required,gt=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ManualCategoryResponse struct {
	ProductName string `json:"product_name"`
	Category    string `json:"category"`
}

type GenericProductResponse struct {
	ProductName string `json:"product_name"`
	GenericName string `json:"generic_name"`
}

type PackageUnitResponse struct {
	ProductName string          `json:"product_name"`
	Units       decimal.Decimal `json:"units"`
}

type ClassifyResponse struct {
	ProductName string `json:"product_name"`
	Category    string `json:"category"`
	Manual      bool   `json:"manual"`
}

type PromoteResponse struct {
	Promoted int `json:"promoted"`
}
