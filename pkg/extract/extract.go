// Package extract pulls likely answers out of free text with independent regex heuristics.
// It is a convenience for prefilling: nothing it returns is trusted until the step graph
// validates it as a regular answer.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Field keys produced by the heuristics.
const (
	KeyFullName         = "full-name"
	KeySSN              = "ssn"
	KeyDateOfBirth      = "date-of-birth"
	KeyEmail            = "email"
	KeyHouseholdSize    = "household-size"
	KeyDependents       = "dependents"
	KeyMaritalStatus    = "marital-status"
	KeyEmploymentStatus = "employment-status"
	KeyMonthlyIncome    = "monthly-income"
	KeyMonthlyExpenses  = "monthly-expenses"
)

// Keys lists every heuristic in evaluation order.
var Keys = []string{
	KeyFullName, KeySSN, KeyDateOfBirth, KeyEmail, KeyHouseholdSize,
	KeyDependents, KeyMaritalStatus, KeyEmploymentStatus, KeyMonthlyIncome, KeyMonthlyExpenses,
}

type extractor func(text string) (any, bool)

var (
	reFullName   = regexp.MustCompile(`(?i)\b(?:my name is|i am|i'm)\s+([a-z][a-z\s'-]{1,})\b`)
	reSSN        = regexp.MustCompile(`\b(\d{3}-\d{2}-\d{4})\b`)
	reDOB        = regexp.MustCompile(`(?i)\b(?:born on|dob[:\s])\s*(\d{4}-\d{2}-\d{2}|\d{2}[/-]\d{2}[/-]\d{4})\b`)
	reISODate    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reEmail      = regexp.MustCompile(`(?i)[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}`)
	reHousehold  = regexp.MustCompile(`(?i)\b(?:household (?:size|is)|we are|people in (?:my|our) home)\s*(\d{1,2})\b`)
	reDependents = regexp.MustCompile(`(?i)\b(?:dependents?|kids?|children)\s*(\d{1,2})\b`)
	reMarital    = regexp.MustCompile(`(?i)\b(single|married|divorced|widowed|separated)\b`)
	reEmployment = regexp.MustCompile(`(?i)\b(self[-\s]?employed|unemployed|employed|retired|disabled|student)\b`)
	reIncome     = regexp.MustCompile(`(?i)\b(?:income|earn|make)\s*\$?([\d,.]+)`)
	reExpenses   = regexp.MustCompile(`(?i)\b(?:expenses|spend|pay)\s*\$?([\d,.]+)`)
	reSpaces     = regexp.MustCompile(`\s+`)
)

var heuristics = map[string]extractor{
	KeyFullName: func(t string) (any, bool) {
		return group(reFullName, t, strings.TrimSpace)
	},
	KeySSN: func(t string) (any, bool) {
		return group(reSSN, t, nil)
	},
	KeyDateOfBirth: func(t string) (any, bool) {
		m := reDOB.FindStringSubmatch(t)
		if m == nil {
			return nil, false
		}
		v := m[1]
		if reISODate.MatchString(v) {
			return v, true
		}
		parts := strings.FieldsFunc(v, func(r rune) bool { return r == '/' || r == '-' })
		return fmt.Sprintf("%s-%s-%s", parts[2], parts[0], parts[1]), true
	},
	KeyEmail: func(t string) (any, bool) {
		if m := reEmail.FindString(t); m != "" {
			return m, true
		}
		return nil, false
	},
	KeyHouseholdSize: func(t string) (any, bool) {
		return number(reHousehold, t)
	},
	KeyDependents: func(t string) (any, bool) {
		return number(reDependents, t)
	},
	KeyMaritalStatus: func(t string) (any, bool) {
		return group(reMarital, t, strings.ToLower)
	},
	KeyEmploymentStatus: func(t string) (any, bool) {
		return group(reEmployment, t, func(s string) string {
			return reSpaces.ReplaceAllString(strings.ToLower(s), "-")
		})
	},
	KeyMonthlyIncome: func(t string) (any, bool) {
		return amount(reIncome, t)
	},
	KeyMonthlyExpenses: func(t string) (any, bool) {
		return amount(reExpenses, t)
	},
}

func group(re *regexp.Regexp, t string, norm func(string) string) (any, bool) {
	m := re.FindStringSubmatch(t)
	if m == nil {
		return nil, false
	}
	v := m[1]
	if norm != nil {
		v = norm(v)
	}
	return v, v != ""
}

func number(re *regexp.Regexp, t string) (any, bool) {
	m := re.FindStringSubmatch(t)
	if m == nil {
		return nil, false
	}
	n, err := strconv.Atoi(m[1])
	return n, err == nil
}

func amount(re *regexp.Regexp, t string) (any, bool) {
	m := re.FindStringSubmatch(t)
	if m == nil {
		return nil, false
	}
	v, err := strconv.ParseFloat(strings.TrimRight(strings.ReplaceAll(m[1], ",", ""), "."), 64)
	return v, err == nil
}

// Extract runs every heuristic over text and returns the matches keyed by the
// catalog's field ids. A nil catalog keys results by heuristic name.
func Extract(text string, catalog Catalog) map[string]any {
	t := strings.TrimSpace(text)
	out := map[string]any{}
	if t == "" {
		return out
	}
	for _, key := range Keys {
		v, ok := heuristics[key](t)
		if !ok {
			continue
		}
		id, ok := catalog.Resolve(key)
		if !ok {
			continue
		}
		out[id] = v
	}
	return out
}

// Catalog is the set of target field ids an extraction is matched against.
type Catalog []string

// Resolve maps a heuristic key to a field id: exact match first, then the
// first id containing the key in snake_case.
func (c Catalog) Resolve(key string) (string, bool) {
	if c == nil {
		return key, true
	}
	for _, id := range c {
		if id == key {
			return id, true
		}
	}
	snake := strings.ReplaceAll(key, "-", "_")
	for _, id := range c {
		if strings.Contains(strings.ToLower(id), snake) {
			return id, true
		}
	}
	return "", false
}

// Result is the typed view of an uncatalogued extraction.
type Result struct {
	FullName         string   `mapstructure:"full-name" json:"full_name,omitempty"`
	SSN              string   `mapstructure:"ssn" json:"-"`
	DateOfBirth      string   `mapstructure:"date-of-birth" json:"date_of_birth,omitempty"`
	Email            string   `mapstructure:"email" json:"email,omitempty"`
	HouseholdSize    *int     `mapstructure:"household-size" json:"household_size,omitempty"`
	Dependents       *int     `mapstructure:"dependents" json:"dependents,omitempty"`
	MaritalStatus    string   `mapstructure:"marital-status" json:"marital_status,omitempty"`
	EmploymentStatus string   `mapstructure:"employment-status" json:"employment_status,omitempty"`
	MonthlyIncome    *float64 `mapstructure:"monthly-income" json:"monthly_income,omitempty"`
	MonthlyExpenses  *float64 `mapstructure:"monthly-expenses" json:"monthly_expenses,omitempty"`
}

// Decode converts a heuristic-keyed map into a Result.
func Decode(fields map[string]any) (Result, error) {
	var res Result
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &res,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(fields); err != nil {
		return Result{}, fmt.Errorf("failed to decode extraction: %w", err)
	}
	return res, nil
}

// Text extracts and decodes in one go.
func Text(text string) (Result, error) {
	return Decode(Extract(text, nil))
}
