package attendanceday

import "time"

type DayResponse struct {
	ID               string   `json:"id"`
	CompanyID        string   `json:"company_id"`
	EmployeeID       string   `json:"employee_id"`
	WorkDate         string   `json:"work_date"`
	FirstIn          *string  `json:"first_in,omitempty"`
	LastOut          *string  `json:"last_out,omitempty"`
	TotalWorkHours   float64  `json:"total_work_hours"`
	Status           string   `json:"status"`
	PayoutMultiplier float64  `json:"payout_multiplier"`
	LogIDs           []string `json:"log_ids"`
}

type SummaryResponse struct {
	FromDate    string  `json:"from_date"`
	ToDate      string  `json:"to_date"`
	Days        int     `json:"days"`
	TotalHours  float64 `json:"total_hours"`
	PresentDays int     `json:"present_days"`
	AbsentDays  int     `json:"absent_days"`
}

func MapToResponse(d Day) DayResponse {
	resp := DayResponse{
		ID:               d.ID.String(),
		CompanyID:        d.CompanyID.String(),
		EmployeeID:       d.EmployeeID.String(),
		WorkDate:         d.WorkDate,
		TotalWorkHours:   d.TotalWorkHours,
		Status:           d.Status,
		PayoutMultiplier: d.PayoutMultiplier,
		LogIDs:           d.LogIDs,
	}
	if d.FirstIn != nil {
		v := d.FirstIn.Format(time.RFC3339)
		resp.FirstIn = &v
	}
	if d.LastOut != nil {
		v := d.LastOut.Format(time.RFC3339)
		resp.LastOut = &v
	}
	return resp
}

func MapToListResponse(days []Day) []DayResponse {
	resp := make([]DayResponse, len(days))
	for i, d := range days {
		resp[i] = MapToResponse(d)
	}
	return resp
}
