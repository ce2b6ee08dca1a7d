package domain

type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	EmployeeID   *int64 `json:"employee_id,omitempty"`
	PasswordHash string `json:"-"`
}

type RegisterRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	EmployeeID *int64 `json:"employee_id"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
