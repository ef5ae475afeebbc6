package regularization

import "time"

type SubmitRequest struct {
	TargetDate string  `json:"target_date" binding:"required"`
	Type       string  `json:"type" binding:"required,oneof=MISSED_PUNCH ON_DUTY WORK_FROM_HOME LEAVE_REVERSAL"`
	Reason     string  `json:"reason" binding:"required"`
	NewFirstIn *string `json:"new_first_in"`
	NewLastOut *string `json:"new_last_out"`
}

type DecideRequest struct {
	Status          string  `json:"status" binding:"required,oneof=approved rejected"`
	Comments        *string `json:"comments"`
	RejectionReason *string `json:"rejection_reason"`
}

type ApproverResponse struct {
	ApproverID      string  `json:"approver_id"`
	Sequence        int     `json:"sequence"`
	Status          string  `json:"status"`
	Comments        *string `json:"comments,omitempty"`
	ActedAt         *string `json:"acted_at,omitempty"`
	IsAdminOverride bool    `json:"is_admin_override,omitempty"`
}

type HistoryResponse struct {
	ActorID    string  `json:"actor_id"`
	Action     string  `json:"action"`
	FromStatus string  `json:"from_status"`
	ToStatus   string  `json:"to_status"`
	Comments   *string `json:"comments,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

type RequestResponse struct {
	ID               string             `json:"id"`
	CompanyID        string             `json:"company_id"`
	EmployeeID       string             `json:"employee_id"`
	TargetDate       string             `json:"target_date"`
	Type             string             `json:"type"`
	Reason           string             `json:"reason"`
	NewFirstIn       *string            `json:"new_first_in,omitempty"`
	NewLastOut       *string            `json:"new_last_out,omitempty"`
	Status           string             `json:"status"`
	ApprovalRequired int                `json:"approval_required"`
	RejectionReason  *string            `json:"rejection_reason,omitempty"`
	Approvers        []ApproverResponse `json:"approvers"`
	History          []HistoryResponse  `json:"history,omitempty"`
}

func mapToResponse(r Request) RequestResponse {
	resp := RequestResponse{
		ID:               r.ID.String(),
		CompanyID:        r.CompanyID.String(),
		EmployeeID:       r.EmployeeID.String(),
		TargetDate:       r.TargetDate.Format("2006-01-02"),
		Type:             r.Type,
		Reason:           r.Reason,
		Status:           r.Status,
		ApprovalRequired: r.ApprovalRequired,
		RejectionReason:  r.RejectionReason,
		Approvers:        make([]ApproverResponse, 0, len(r.Approvers)),
	}
	if r.NewFirstIn != nil {
		v := r.NewFirstIn.Format(time.RFC3339)
		resp.NewFirstIn = &v
	}
	if r.NewLastOut != nil {
		v := r.NewLastOut.Format(time.RFC3339)
		resp.NewLastOut = &v
	}
	for _, a := range r.Approvers {
		ar := ApproverResponse{
			ApproverID:      a.ApproverID.String(),
			Sequence:        a.Sequence,
			Status:          a.Status,
			Comments:        a.Comments,
			IsAdminOverride: a.IsAdminOverride,
		}
		if a.ActedAt != nil {
			v := a.ActedAt.Format(time.RFC3339)
			ar.ActedAt = &v
		}
		resp.Approvers = append(resp.Approvers, ar)
	}
	for _, h := range r.History {
		resp.History = append(resp.History, HistoryResponse{
			ActorID:    h.ActorID.String(),
			Action:     h.Action,
			FromStatus: h.FromStatus,
			ToStatus:   h.ToStatus,
			Comments:   h.Comments,
			CreatedAt:  h.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp
}

func mapToListResponse(requests []Request) []RequestResponse {
	resp := make([]RequestResponse, len(requests))
	for i, r := range requests {
		resp[i] = mapToResponse(r)
	}
	return resp
}
