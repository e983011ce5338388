package seedmodels

// SeedUser is one account in the QA seed file.
type SeedUser struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	Password   string `json:"password"`
}

// SeedFile groups seed accounts by role.
type SeedFile struct {
	Managers  []SeedUser `json:"managers"`
	Employees []SeedUser `json:"employees"`
}
