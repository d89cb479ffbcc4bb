package domain

const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"
)

type EnforceRequest struct {
	Subject   string `json:"subject"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
	Resource  string `json:"resource" binding:"required"`
	Action    string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

type PermissionResponse struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}
