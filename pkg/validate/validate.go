// Package validate holds the per-slot answer checks used by the step graph.
// Every function takes raw user text, trims it, and either returns the value to
// store or an *Error carrying a corrective hint.
package validate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/civicscribe/intake/pkg/domain"
)

// SkipWords is the fixed vocabulary that bypasses validation for a slot.
var SkipWords = []string{"skip", "don't know", "dont know", "later"}

// Frequencies is the accepted frequency vocabulary, in prompt order.
var Frequencies = []domain.Frequency{
	domain.FrequencyHourly,
	domain.FrequencyWeekly,
	domain.FrequencyBiweekly,
	domain.FrequencyMonthly,
	domain.FrequencyYearly,
}

// Utilities is the accepted set of utility categories.
var Utilities = []string{"heating", "cooling", "electricity", "gas", "water", "sewer", "trash", "phone", "internet"}

// Household size bounds.
const (
	MinHouseholdSize = 1
	MaxHouseholdSize = 20
)

// SSNMaskPrefix precedes the last four digits in the stored SSN token.
const SSNMaskPrefix = "-*-"

var (
	reStateCode = regexp.MustCompile(`^[A-Za-z]{2}$`)
	reDate      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reZIP       = regexp.MustCompile(`^\d{5}$`)
	reLast4     = regexp.MustCompile(`^\d{4}$`)
	rePhone     = regexp.MustCompile(`^(?:\+?(\d{1,3})[\s.-]?)?\(?(\d{3})\)?[\s.-]?(\d{3})[\s.-]?(\d{4})$`)
	reNumber    = regexp.MustCompile(`(-?)(\$?)\s*(\d+(?:,\d+)*(?:\.\d+)?|\.\d+)`)
	reGrouped   = regexp.MustCompile(`^(?:\d{1,3}(?:,\d{3})+|\d+)?(?:\.\d+)?$`)
	reFrequency = regexp.MustCompile(`(?:^|[^a-z-])(bi-weekly|hourly|weekly|biweekly|monthly|yearly)(?:[^a-z-]|$)`)
	reSizeInt   = regexp.MustCompile(`^\d+$`)
)

// Clean trims surrounding whitespace.
func Clean(raw string) string {
	return strings.TrimSpace(raw)
}

// IsSkip reports whether raw is exactly one of SkipWords (case-insensitive).
func IsSkip(raw string) bool {
	lower := strings.ToLower(Clean(raw))
	for _, w := range SkipWords {
		if lower == w {
			return true
		}
	}
	return false
}

// IsYes is the sole affirmative test: the lower-cased answer starts with "y".
func IsYes(raw string) bool {
	return strings.HasPrefix(strings.ToLower(Clean(raw)), "y")
}

// Text accepts any non-empty answer.
func Text(raw string) (string, error) {
	s := Clean(raw)
	if s == "" {
		return "", invalid("text", "Please type an answer, or say \"skip\".")
	}
	return s, nil
}

// Language accepts a short language name or code and stores it lower-cased.
func Language(raw string) (string, error) {
	s := strings.ToLower(Clean(raw))
	if s == "" {
		return "", invalid("language", "Please tell me a language, for example \"en\" or \"es\".")
	}
	return s, nil
}

// StateCode accepts exactly two letters and upper-cases them.
func StateCode(raw string) (string, error) {
	s := Clean(raw)
	if !reStateCode.MatchString(s) {
		return "", invalid("state", "Please use the two-letter state code, like TX or CA.")
	}
	return strings.ToUpper(s), nil
}

// Date accepts YYYY-MM-DD. Only the shape is checked; 2024-13-40 passes.
func Date(raw string) (string, error) {
	s := Clean(raw)
	if !reDate.MatchString(s) {
		return "", invalid("date", "Please use the format YYYY-MM-DD, for example 1990-05-21.")
	}
	return s, nil
}

// Email requires an "@" followed somewhere by a ".".
func Email(raw string) (string, error) {
	s := Clean(raw)
	at := strings.Index(s, "@")
	if at <= 0 || !strings.Contains(s[at+1:], ".") || strings.ContainsAny(s, " \t") {
		return "", invalid("email", "That doesn't look like an email address. Try something like name@example.com.")
	}
	return s, nil
}

// Phone accepts an optional country code and 10 digits with common separators.
// The stored form is the 10 digits, prefixed by "+CC " when a country code was given.
func Phone(raw string) (string, error) {
	m := rePhone.FindStringSubmatch(Clean(raw))
	if m == nil {
		return "", invalid("phone", "Please enter a 10-digit phone number, like 512-555-0100.")
	}
	national := m[2] + m[3] + m[4]
	if m[1] != "" {
		return "+" + m[1] + " " + national, nil
	}
	return national, nil
}

// ZIP accepts exactly five digits.
func ZIP(raw string) (string, error) {
	s := Clean(raw)
	if !reZIP.MatchString(s) {
		return "", invalid("zip", "Please enter a 5-digit ZIP code.")
	}
	return s, nil
}

// number is one numeric token found in free text.
type number struct {
	digits   string
	dollar   bool
	negative bool
}

// numbers lists the numeric tokens in s. A minus sign glued to a preceding
// letter or digit is a hyphen ("2024-01-01"), not a sign.
func numbers(s string) []number {
	var out []number
	for _, m := range reNumber.FindAllStringSubmatchIndex(s, -1) {
		n := number{digits: s[m[6]:m[7]], dollar: m[5] > m[4]}
		if m[3] > m[2] {
			n.negative = m[2] == 0 || !isWordByte(s[m[2]-1])
		}
		out = append(out, n)
	}
	return out
}

func isWordByte(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// pickNumber chooses the answer's number: the first "$" amount when there is
// one, otherwise the only number present. Several bare numbers are ambiguous.
func pickNumber(s string) (number, bool) {
	all := numbers(s)
	for _, n := range all {
		if n.dollar {
			return n, true
		}
	}
	if len(all) != 1 {
		return number{}, false
	}
	return all[0], true
}

// parse rejects malformed thousands grouping such as "2,50".
func (n number) parse() (float64, bool) {
	if !reGrouped.MatchString(n.digits) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(n.digits, ",", ""), 64)
	return v, err == nil
}

// Amount extracts a non-negative decimal amount anywhere in the text.
// A "$" amount wins over other numbers; "$.50" is fifty cents.
func Amount(raw string) (float64, error) {
	hint := "Please enter a dollar amount, like $250."
	n, ok := pickNumber(Clean(raw))
	if !ok {
		return 0, invalid("amount", hint)
	}
	if n.negative {
		return 0, invalid("amount", "Amounts can't be negative.")
	}
	v, ok := n.parse()
	if !ok {
		return 0, invalid("amount", hint)
	}
	return v, nil
}

// MoneyFrequency needs both an amount and a frequency token anywhere in the text.
func MoneyFrequency(raw string) (domain.Money, error) {
	hint := "Please include an amount and how often, like \"$600 weekly\" (hourly, weekly, biweekly, monthly, yearly)."
	amount, err := Amount(raw)
	if err != nil {
		return domain.Money{}, invalid("money", hint)
	}
	m := reFrequency.FindStringSubmatch(strings.ToLower(Clean(raw)))
	if m == nil {
		return domain.Money{}, invalid("money", hint)
	}
	freq := domain.Frequency(m[1])
	if m[1] == "bi-weekly" {
		freq = domain.FrequencyBiweekly
	}
	return domain.Money{Amount: amount, Frequency: freq}, nil
}

// SSNLast4 accepts exactly four digits and returns only the masked token.
func SSNLast4(raw string) (string, error) {
	s := Clean(raw)
	if !reLast4.MatchString(s) {
		return "", invalid("ssn_last4", "Please enter only the last 4 digits of the Social Security number.")
	}
	return MaskSSN(s), nil
}

// MaskSSN builds the stored token from the last four digits of any digit string.
// Anything that already carries the mask prefix is re-derived from its trailing digits.
func MaskSSN(value string) string {
	var digits []byte
	for i := 0; i < len(value); i++ {
		if value[i] >= '0' && value[i] <= '9' {
			digits = append(digits, value[i])
		}
	}
	if len(digits) > 4 {
		digits = digits[len(digits)-4:]
	}
	return SSNMaskPrefix + string(digits)
}

// HouseholdSize accepts an integer in [MinHouseholdSize, MaxHouseholdSize].
func HouseholdSize(raw string) (int, error) {
	hint := "Please enter the number of people in your household, from 1 to 20."
	s := Clean(raw)
	if !reSizeInt.MatchString(s) {
		return 0, invalid("household_size", hint)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < MinHouseholdSize || n > MaxHouseholdSize {
		return 0, invalid("household_size", hint)
	}
	return n, nil
}

// Hours finds a number of hours per week between 0 and 168 anywhere in the text.
func Hours(raw string) (float64, error) {
	hint := "Please enter hours per week as a number, like 32."
	n, ok := pickNumber(Clean(raw))
	if !ok || n.negative || n.dollar {
		return 0, invalid("hours", hint)
	}
	v, ok := n.parse()
	if !ok || v < 0 || v > 168 {
		return 0, invalid("hours", hint)
	}
	return v, nil
}

// Citizenship maps common phrasings onto the citizenship enum.
func Citizenship(raw string) (domain.Citizenship, error) {
	s := strings.ToLower(Clean(raw))
	switch {
	case strings.Contains(s, "prefer not") || s == "undisclosed" || s == "decline":
		return domain.CitizenshipUndisclosed, nil
	case s == "lpr" || strings.Contains(s, "permanent") || strings.Contains(s, "green card"):
		return domain.CitizenshipLPR, nil
	case strings.Contains(s, "non-citizen") || strings.Contains(s, "not a citizen") || s == "other":
		return domain.CitizenshipOther, nil
	case strings.Contains(s, "citizen") || s == "us" || s == "u.s." || s == "us_citizen":
		return domain.CitizenshipUS, nil
	}
	return "", invalid("citizenship", "Please answer: US citizen, permanent resident (LPR), other, or prefer not to say.")
}

var incomeAliases = map[string]domain.IncomeType{
	"wages":           domain.IncomeWages,
	"wage":            domain.IncomeWages,
	"job":             domain.IncomeWages,
	"salary":          domain.IncomeWages,
	"self_employment": domain.IncomeSelfEmployment,
	"self-employment": domain.IncomeSelfEmployment,
	"self employment": domain.IncomeSelfEmployment,
	"self-employed":   domain.IncomeSelfEmployment,
	"unemployment":    domain.IncomeUnemployment,
	"social_security": domain.IncomeSocialSecurity,
	"social security": domain.IncomeSocialSecurity,
	"ssi":             domain.IncomeSSI,
	"child_support":   domain.IncomeChildSupport,
	"child support":   domain.IncomeChildSupport,
	"pension":         domain.IncomePension,
	"retirement":      domain.IncomePension,
	"other":           domain.IncomeOther,
}

// IncomeType maps an answer onto the income type enum.
func IncomeType(raw string) (domain.IncomeType, error) {
	if t, ok := incomeAliases[strings.ToLower(Clean(raw))]; ok {
		return t, nil
	}
	return "", invalid("income_type", "Please pick one: wages, self-employment, unemployment, social security, SSI, child support, pension, or other.")
}

// UtilityList parses a comma or space separated list of utility categories.
// "none" yields an empty list.
func UtilityList(raw string) ([]string, error) {
	s := strings.ToLower(Clean(raw))
	if s == "none" || s == "no" {
		return []string{}, nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';' || r == '/'
	})
	seen := make(map[string]bool)
	out := []string{}
	for _, f := range fields {
		if f == "and" || f == "" {
			continue
		}
		if !isUtility(f) {
			return nil, invalid("utilities", "Please list from: heating, cooling, electricity, gas, water, sewer, trash, phone, internet (or \"none\").")
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, invalid("utilities", "Please list the utilities you pay for, or say \"none\".")
	}
	return out, nil
}

func isUtility(s string) bool {
	for _, u := range Utilities {
		if u == s {
			return true
		}
	}
	return false
}
