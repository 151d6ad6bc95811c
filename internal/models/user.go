package models

// SignInRequest is the body of POST /auth/signin.
type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignUpRequest is the body of POST /auth/signup.
type SignUpRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	ProductID       string `json:"product_id"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
}

// AuthResponse is what the backend returns on a successful sign in.
type AuthResponse struct {
	Username  string `json:"username"`
	ProductID string `json:"product_id"`
}

// AuthSession describes who is currently signed in.
type AuthSession struct {
	Username        string `json:"username,omitempty"`
	ProductID       string `json:"product_id,omitempty"`
	IsAuthenticated bool   `json:"is_authenticated"`
}
