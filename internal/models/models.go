package models

// CountyRecord is one county's demographics. Records are never modified
// after the store is loaded; subsets share them.
type CountyRecord struct {
	County      string             `json:"county"`
	State       string             `json:"state"`
	Population  map[string]int     `json:"population"`
	Education   map[string]float64 `json:"education"`
	Ethnicities map[string]float64 `json:"ethnicities"`
	Income      map[string]float64 `json:"income"`
	Age         map[string]float64 `json:"age"`
}

// Population2014 is the population used for every derived count.
func (r CountyRecord) Population2014() int {
	return r.Population[LabelPopulation2014]
}

// Values returns the percentage/value map for a category, nil for
// Population and unknown categories.
func (r CountyRecord) Values(c Category) map[string]float64 {
	switch c {
	case CategoryEducation:
		return r.Education
	case CategoryEthnicities:
		return r.Ethnicities
	case CategoryIncome:
		return r.Income
	case CategoryAge:
		return r.Age
	}
	return nil
}

// --- API DTOs ---

type Summary struct {
	Counties   int         `json:"counties"`
	Population int         `json:"population"`
	States     []StateStat `json:"states"`
}

type StateStat struct {
	State            string  `json:"state"`
	Counties         int     `json:"counties"`
	Population       int     `json:"population"`
	PovertyPercent   float64 `json:"poverty_percent"`
	BachelorsPercent float64 `json:"bachelors_percent"`
}

type RunResponse struct {
	RunID        string          `json:"run_id"`
	SyntaxErrors []string        `json:"syntax_errors"`
	Results      []DirectiveItem `json:"results"`
	Remaining    int             `json:"remaining"`
}

type DirectiveItem struct {
	Line    int    `json:"line"`
	Text    string `json:"directive"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Entries int    `json:"entries"`
}
