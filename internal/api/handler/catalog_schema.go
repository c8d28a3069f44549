package handler

import "time"

type createProductRequest struct {
	Name                string `json:"name"                  validate:"required"`
	Description         string `json:"description"`
	Code                string `json:"code"                  validate:"required"`
	TypeID              string `json:"type_id"`
	PurchasePrice       string `json:"purchase_price"        validate:"required"`
	SellingPrice        string `json:"selling_price"         validate:"required"`
	SpecialSellingPrice string `json:"special_selling_price" validate:"required"`
	ClubID              string `json:"club_id"               validate:"required"`
	ParentID            string `json:"parent_id"`
}

type productResponse struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Description         string `json:"description,omitempty"`
	Code                string `json:"code"`
	TypeID              string `json:"type_id,omitempty"`
	PurchasePrice       string `json:"purchase_price"`
	SellingPrice        string `json:"selling_price"`
	SpecialSellingPrice string `json:"special_selling_price"`
	ClubID              string `json:"club_id"`
	ParentID            string `json:"parent_id,omitempty"`
	Archived            bool   `json:"archived"`
}

type createProductTypeRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type createCounterRequest struct {
	Name       string   `json:"name"    validate:"required"`
	ClubID     string   `json:"club_id" validate:"required"`
	Kind       string   `json:"kind"    validate:"required,oneof=bar office"`
	ProductIDs []string `json:"product_ids"`
}

type counterResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ClubID     string    `json:"club_id"`
	Kind       string    `json:"kind"`
	ProductIDs []string  `json:"product_ids"`
	CreatedAt  time.Time `json:"created_at"`
}
