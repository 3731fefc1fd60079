package employee

// Widths mirror the varchar(255) columns of the employees table.
type CreateEmployeeRequest struct {
	FirstName string `json:"firstName" binding:"max=255"`
	LastName  string `json:"lastName" binding:"max=255"`
	Email     string `json:"email" binding:"max=255"`
}

type UpdateEmployeeRequest struct {
	FirstName string `json:"firstName" binding:"max=255"`
	LastName  string `json:"lastName" binding:"max=255"`
	Email     string `json:"email" binding:"max=255"`
}

// SearchEmployeeRequest selects one employee either by email or by the full
// first+last name pair. Email wins when both are given.
type SearchEmployeeRequest struct {
	Email     string `form:"email"`
	FirstName string `form:"firstName"`
	LastName  string `form:"lastName"`
}

type EmployeeResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}
