package dto

// LoginRequestBody defines the request body for the combined RegisterLogin service.
type LoginRequestBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequestBody defines the request body for RefreshSession service.
type RefreshRequestBody struct {
	RefreshToken string `json:"refresh_token"`
}

// ForgotPasswordRequestBody defines the request body for ForgotPassword service.
type ForgotPasswordRequestBody struct {
	Email string `json:"email"`
}
