package model

import "github.com/shopspring/decimal"

// Job is a row of the jobs table.
//
// Equity is a NUMERIC column; it is kept as a decimal so values like "0.5"
// survive the round trip exactly (and serialize as JSON strings).
type Job struct {
	ID            int                 `json:"id" db:"id"`
	Title         string              `json:"title" db:"title"`
	Salary        *int                `json:"salary" db:"salary"`
	Equity        decimal.NullDecimal `json:"equity" db:"equity"`
	CompanyHandle string              `json:"companyHandle" db:"company_handle"`
}

// JobSummary is a job as embedded in its company's detail view.
type JobSummary struct {
	ID     int                 `json:"id"`
	Title  string              `json:"title"`
	Salary *int                `json:"salary"`
	Equity decimal.NullDecimal `json:"equity"`
}

// NewJob carries the fields needed to create a job.
type NewJob struct {
	Title         string
	Salary        *int
	Equity        decimal.NullDecimal
	CompanyHandle string
}
