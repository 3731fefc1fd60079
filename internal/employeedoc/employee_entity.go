package employeedoc

// Employee is stored as one JSON document per hash field, keyed by ID.
type Employee struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}
