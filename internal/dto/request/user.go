package request

type UpdateProfileRequest struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Password  *string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=150"`
}

// CreateUserRequest is used by the admin CLI, which can grant the admin flag.
type CreateUserRequest struct {
	Username string `validate:"required,max=150"`
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,min=8,max=72"`
	IsAdmin  bool
}
