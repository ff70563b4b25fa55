package request

type LoginRequest struct {
	Username  string `form:"username" validate:"required,max=50"`
	Password  string `form:"password" validate:"required,min=6"`
	UserAgent string `form:"-"`
	IPAddress string `form:"-"`
}

// CreateUserRequest backs the `user create` command
type CreateUserRequest struct {
	Username string `form:"username" validate:"required,min=3,max=50"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}
