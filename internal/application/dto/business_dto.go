package dto

import "time"

// CreateBusinessRequest entrada para crear una empresa.
type CreateBusinessRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
}

// BusinessResponse salida de una empresa.
type BusinessResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BusinessListResponse lista paginada de empresas.
type BusinessListResponse struct {
	Items []BusinessResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
