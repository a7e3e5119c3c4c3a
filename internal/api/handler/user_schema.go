package handler

// errorResponse documents the standard error envelope for swagger; the
// actual rendering happens in the API error handler.
type errorResponse struct {
	Error      string            `json:"error"`
	Violations map[string]string `json:"violations,omitempty"`
}

type userRequest struct {
	Username string   `json:"username" validate:"required"`
	Email    string   `json:"email"    validate:"required,email"`
	Password string   `json:"password" validate:"required,password"`
	Roles    []string `json:"roles"    validate:"required,min=1,dive,oneof=ADMIN USER MODERATOR"`
}

type updateMeRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type jwtResponse struct {
	Token string `json:"token"`
}

type userResponse struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}
