package attendancelog

import "time"

type LogResponse struct {
	ID               string  `json:"id"`
	CompanyID        string  `json:"company_id"`
	BranchID         *string `json:"branch_id,omitempty"`
	EmployeeID       *string `json:"employee_id,omitempty"`
	Source           string  `json:"source"`
	Type             string  `json:"type"`
	Timestamp        string  `json:"timestamp"`
	ServerTimestamp  string  `json:"server_timestamp"`
	ProcessingStatus string  `json:"processing_status"`
	IsVerified       bool    `json:"is_verified"`
	DeviceUserID     *string `json:"device_user_id,omitempty"`
	CorrectedByLog   *string `json:"corrected_by_log,omitempty"`
	RegularizationID *string `json:"regularization_id,omitempty"`
}

func MapToResponse(l Log) LogResponse {
	resp := LogResponse{
		ID:               l.ID.String(),
		CompanyID:        l.CompanyID.String(),
		Source:           l.Source,
		Type:             l.Type,
		Timestamp:        l.Timestamp.Format(time.RFC3339),
		ServerTimestamp:  l.ServerTimestamp.Format(time.RFC3339),
		ProcessingStatus: l.ProcessingStatus,
		IsVerified:       l.IsVerified,
		DeviceUserID:     l.DeviceUserID,
	}
	if l.BranchID != nil {
		v := l.BranchID.String()
		resp.BranchID = &v
	}
	if l.EmployeeID != nil {
		v := l.EmployeeID.String()
		resp.EmployeeID = &v
	}
	if l.CorrectedByLog != nil {
		v := l.CorrectedByLog.String()
		resp.CorrectedByLog = &v
	}
	if l.RegularizationID != nil {
		v := l.RegularizationID.String()
		resp.RegularizationID = &v
	}
	return resp
}

func MapToListResponse(logs []Log) []LogResponse {
	resp := make([]LogResponse, len(logs))
	for i, l := range logs {
		resp[i] = MapToResponse(l)
	}
	return resp
}
