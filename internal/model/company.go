package model

// Company is a row of the companies table.
type Company struct {
	Handle       string  `json:"handle" db:"handle"`
	Name         string  `json:"name" db:"name"`
	Description  string  `json:"description" db:"description"`
	NumEmployees *int    `json:"numEmployees" db:"num_employees"`
	LogoURL      *string `json:"logoUrl" db:"logo_url"`
}

// CompanyDetail is a company together with the jobs it posted.
type CompanyDetail struct {
	Company
	Jobs []JobSummary `json:"jobs"`
}

// NewCompany carries the fields needed to create a company.
type NewCompany struct {
	Handle       string
	Name         string
	Description  string
	NumEmployees *int
	LogoURL      *string
}
