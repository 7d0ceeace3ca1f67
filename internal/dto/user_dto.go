package dto

type CreateUserRequest struct {
	Name     string  `json:"name"     validate:"required,min=2,max=120"`
	Email    string  `json:"email"    validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role"     validate:"required,oneof=ADMIN VENDEDOR MOTOBOY USER"`
}

type UpdateUserRequest struct {
	Name     string  `json:"name"     validate:"omitempty,min=2,max=120"`
	Email    string  `json:"email"    validate:"omitempty,email"`
	Password string  `json:"password" validate:"omitempty,min=6"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role"     validate:"omitempty,oneof=ADMIN VENDEDOR MOTOBOY USER"`
}

type UserResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone"`
	Role       string  `json:"role"`
	Address    *string `json:"address"`
	Complement *string `json:"complement"`
	Active     bool    `json:"active"`
}
