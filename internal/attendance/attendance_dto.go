package attendance

type ClockInRequest struct {
	Location string `json:"location" binding:"required"`
}

type ClockOutRequest struct {
	SessionID string `json:"session_id" binding:"omitempty,uuid"`
}

type ElapsedResponse struct {
	Hours        int64  `json:"hours"`
	Minutes      int64  `json:"minutes"`
	TotalMinutes int64  `json:"total_minutes"`
	Label        string `json:"label"`
}

type SessionResponse struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"company_id"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  string          `json:"employee_name,omitempty"`
	Location      string          `json:"location"`
	LocationLabel string          `json:"location_label"`
	ClockIn       string          `json:"clock_in"`
	ClockOut      *string         `json:"clock_out,omitempty"`
	Open          bool            `json:"open"`
	Stale         bool            `json:"stale"`
	Elapsed       ElapsedResponse `json:"elapsed"`
	IPAddress     *string         `json:"ip_address,omitempty"`
	City          *string         `json:"city,omitempty"`
	Country       *string         `json:"country,omitempty"`
	Timezone      *string         `json:"timezone,omitempty"`
}
