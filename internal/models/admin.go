package models

// AdminLoginRequest is the body of POST /api/adminLogin
type AdminLoginRequest struct {
	Password string `json:"password"`
}

// AdminLoginResponse is returned by POST /api/adminLogin. Token is a bearer
// credential accepted by admin endpoints alongside the shared password.
type AdminLoginResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token,omitempty"`
	ExpiresIn int64  `json:"expires_in,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}
