package dto

type CrearUsuarioRequest struct {
	Email    string  `json:"email"     validate:"required,email"`
	Username string  `json:"username"  validate:"required,min=1,max=100"`
	Password string  `json:"password"  validate:"required,min=8"`
	FullName *string `json:"full_name" validate:"omitempty,max=200"`
	RoleID   uint    `json:"role_id"   validate:"required"`
}

type ActualizarUsuarioRequest struct {
	Email    *string `json:"email"     validate:"omitempty,email"`
	Username *string `json:"username"  validate:"omitempty,min=1,max=100"`
	Password *string `json:"password"  validate:"omitempty,min=8"`
	FullName *string `json:"full_name" validate:"omitempty,max=200"`
	RoleID   *uint   `json:"role_id"`
	IsActive *bool   `json:"is_active"`
}

type UserList struct {
	Items []UserResponse `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
	Pages int            `json:"pages"`
}

type RoleResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}
