package machine

import (
	"encoding/json"
	"time"
)

type RegisterRequest struct {
	Name        string            `json:"name" binding:"required,max=100"`
	Location    string            `json:"location" binding:"max=200"`
	Vendor      string            `json:"vendor" binding:"max=100"`
	BranchID    *string           `json:"branch_id"`
	StatusCodes map[string]string `json:"status_codes"`
}

// RegisterResponse carries the plaintext API key. It is returned exactly once
// at registration and cannot be recovered afterwards.
type RegisterResponse struct {
	Machine MachineResponse `json:"machine"`
	APIKey  string          `json:"api_key"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE INACTIVE MAINTENANCE"`
}

// SyncEntry is one normalized punch from a device batch. Raw keeps the
// original payload object untouched for forensic storage.
type SyncEntry struct {
	UserID    string `json:"user_id"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
	Sequence  string `json:"sequence"`

	Raw json.RawMessage `json:"-"`
}

type SyncResponse struct {
	Status     string `json:"status"`
	Synced     int    `json:"synced"`
	Orphans    int    `json:"orphans"`
	Duplicates int    `json:"duplicates"`
}

type MachineResponse struct {
	ID          string            `json:"id"`
	CompanyID   string            `json:"company_id"`
	BranchID    *string           `json:"branch_id,omitempty"`
	Name        string            `json:"name"`
	Location    string            `json:"location,omitempty"`
	Vendor      string            `json:"vendor,omitempty"`
	Status      string            `json:"status"`
	StatusCodes map[string]string `json:"status_codes,omitempty"`
	LastSyncAt  *string           `json:"last_sync_at,omitempty"`
	CreatedAt   string            `json:"created_at"`
}

type AssignOrphanRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
}

func mapToResponse(m Machine) MachineResponse {
	resp := MachineResponse{
		ID:          m.ID.String(),
		CompanyID:   m.CompanyID.String(),
		Name:        m.Name,
		Location:    m.Location,
		Vendor:      m.Vendor,
		Status:      m.Status,
		StatusCodes: m.StatusCodes,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
	if m.BranchID != nil {
		v := m.BranchID.String()
		resp.BranchID = &v
	}
	if m.LastSyncAt != nil {
		v := m.LastSyncAt.Format(time.RFC3339)
		resp.LastSyncAt = &v
	}
	return resp
}

func mapToListResponse(machines []Machine) []MachineResponse {
	resp := make([]MachineResponse, len(machines))
	for i, m := range machines {
		resp[i] = mapToResponse(m)
	}
	return resp
}
