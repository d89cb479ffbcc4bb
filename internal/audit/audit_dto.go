package audit

type ListQuery struct {
	Date   string `form:"date"`
	From   string `form:"from"`
	To     string `form:"to"`
	Action string `form:"action"`
}

type EventResponse struct {
	ID          string         `json:"id"`
	Action      string         `json:"action"`
	ActionLabel string         `json:"action_label"`
	EmployeeID  *string        `json:"employee_id,omitempty"`
	ActorName   *string        `json:"actor_name,omitempty"`
	ActorEmail  *string        `json:"actor_email,omitempty"`
	IPAddress   *string        `json:"ip_address,omitempty"`
	City        *string        `json:"city,omitempty"`
	Country     *string        `json:"country,omitempty"`
	Timezone    *string        `json:"timezone,omitempty"`
	Location    string         `json:"location,omitempty"`
	Details     map[string]any `json:"details"`
	CreatedAt   string         `json:"created_at"`
}
