package tenant

import "gorm.io/gorm"

// Scope restricts a query to one tenant. Every repository query that touches
// tenant-owned rows must apply it.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}

// BranchScope additionally restricts to one branch when branchID is set.
func BranchScope(branchID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if branchID == "" {
			return db
		}
		return db.Where("branch_id = ?", branchID)
	}
}
