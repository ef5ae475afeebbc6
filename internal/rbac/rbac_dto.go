package rbac

type EnforceRequest struct {
	EmployeeID string `json:"employee_id"`
	CompanyID  string `json:"company_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

type RoleResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type PermissionResponse struct {
	ID       string `json:"id"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Label    string `json:"label,omitempty"`
	Category string `json:"category,omitempty"`
}

type UpdateRolePermissionsRequest struct {
	PermissionIDs []string `json:"permission_ids" binding:"required"`
}
