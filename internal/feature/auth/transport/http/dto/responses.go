package dto

// SignInRes is returned after a successful sign-in.
type SignInRes struct {
	Success     bool   `json:"success"`
	RedirectURL string `json:"redirectUrl"`
}

// ErrorRes is the error envelope shared by the JSON endpoints.
type ErrorRes struct {
	Error string `json:"error"`
}
