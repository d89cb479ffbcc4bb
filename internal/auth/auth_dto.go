package auth

type EmployeeLoginRequest struct {
	Company string `json:"company" binding:"required,max=150"`
	Name    string `json:"name" binding:"required,max=150"`
}

type AdminLoginRequest struct {
	Company  string `json:"company" binding:"required,max=150"`
	Password string `json:"password" binding:"required,max=72"`
}

type RegisterRequest struct {
	Company string `json:"company" binding:"required,max=150"`
	Name    string `json:"name" binding:"required,max=150"`
	Email   string `json:"email" binding:"omitempty,max=255"`
}

type AuthResponse struct {
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name,omitempty"`
	EmployeeID  string `json:"employee_id,omitempty"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role"`
}

// Identity is what a signed-in caller carries in its token.
type Identity struct {
	Subject    string
	CompanyID  string
	EmployeeID string
	Role       string
	Name       string
}

type LoginResult struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   string       `json:"expires_at"`
	User        AuthResponse `json:"user"`
}
