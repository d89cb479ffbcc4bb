package employee

type AddEmployeeRequest struct {
	Name    string `json:"name" binding:"required,max=150"`
	Email   string `json:"email" binding:"omitempty,max=255"`
	Manager string `json:"manager" binding:"omitempty,max=150"`
}

type EmployeeResponse struct {
	ID           string  `json:"id"`
	CompanyID    string  `json:"company_id"`
	Name         string  `json:"name"`
	Email        *string `json:"email,omitempty"`
	Manager      *string `json:"manager,omitempty"`
	CompanyLabel *string `json:"company_label,omitempty"`
	Location     *string `json:"location,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

type OptionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Rejection struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type ImportReport struct {
	Added    []EmployeeResponse `json:"added"`
	Rejected []Rejection        `json:"rejected"`
}
