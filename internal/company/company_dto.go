package company

type CreateCompanyRequest struct {
	Name          string `json:"name" binding:"required,max=150"`
	AdminPassword string `json:"admin_password" binding:"required,min=8,max=72"`
}

type CompanyResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}
