package dto

type CreateSupplierRequest struct {
	Name  string  `json:"name"  validate:"required,min=2,max=120"`
	CNPJ  string  `json:"cnpj"  validate:"required,min=14,max=18"`
	Phone *string `json:"phone"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type UpdateSupplierRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=2,max=120"`
	Phone *string `json:"phone"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type SupplierResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	CNPJ   string  `json:"cnpj"`
	Phone  *string `json:"phone"`
	Email  *string `json:"email"`
	Active bool    `json:"active"`
}
