package domain

import "encoding/json"

// Record is one salary observation from the data API after schema validation.
// Salary is kept as the raw text so aggregation applies its own parse rule.
type Record struct {
	Year   int
	Salary string
	Title  string
	Extra  map[string]json.RawMessage
}

// Reject describes an element of the payload that failed the record schema.
type Reject struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

type YearSummary struct {
	Year          int    `json:"year"`
	TotalJobs     int    `json:"totalJobs"`
	AverageSalary string `json:"averageSalary"`
}

type TitleCount struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}
