package assembly

import (
	"strconv"
	"strings"

	"github.com/civicscribe/intake/pkg/domain"
)

const null = "null"

// Summary renders the narrative summary as newline-separated lines.
func Summary(app *domain.Application) string {
	return strings.Join(Lines(app), "\n")
}

// Lines returns the summary lines in their fixed order.
func Lines(app *domain.Application) []string {
	if app == nil {
		app = domain.NewApplication()
	}
	a := app.Applicant
	hh := app.Household
	housing := app.Expenses.Housing
	work := app.WorkActivity

	return []string{
		line("State", str(app.Meta.State)),
		line("Language", orNull(app.Meta.Language)),
		line("Accessibility notes", str(app.Meta.AccessibilityNotes)),
		line("Applicant", applicant(a)),
		line("Phone", str(a.Phone)),
		line("Email", str(a.Email)),
		line("Address", address(a.Address)),
		line("Mailing same as residential", yesNo(a.MailingSame)),
		line("Household size", intStr(hh.Size)),
		line("Household members", members(hh.Members)),
		line("Income items", strconv.Itoa(len(app.Income))),
		line("Housing cost", money(housing.RentOrMortgage)),
		line("Utilities", list(housing.Utilities)),
		line("Care expenses", strconv.Itoa(len(app.Expenses.Care))),
		line("Medical expenses", strconv.Itoa(len(app.Expenses.Medical))),
		line("Assets provided", assetsProvided(app.Assets)),
		line("Work activity", "student="+yesNo(work.Student)+", training="+yesNo(work.Training)+", recent job loss="+yesNo(work.RecentJobLoss)),
	}
}

func line(label, value string) string {
	return "- " + label + ": " + value
}

func str(v *string) string {
	if v == nil {
		return null
	}
	return orNull(*v)
}

func orNull(s string) string {
	if s == "" {
		return null
	}
	return s
}

func intStr(v *int) string {
	if v == nil {
		return null
	}
	return strconv.Itoa(*v)
}

func yesNo(v *bool) string {
	switch {
	case v == nil:
		return null
	case *v:
		return "yes"
	default:
		return "no"
	}
}

func list(items []string) string {
	if len(items) == 0 {
		return null
	}
	return strings.Join(items, ", ")
}

func money(m *domain.Money) string {
	if m == nil {
		return null
	}
	return "$" + strconv.FormatFloat(m.Amount, 'f', 2, 64) + " " + string(m.Frequency)
}

func applicant(a domain.Applicant) string {
	if a.FullName == nil && a.DOB == nil {
		return null
	}
	return str(a.FullName) + " (DOB " + str(a.DOB) + ")"
}

func address(addr domain.Address) string {
	var parts []string
	for _, p := range []*string{addr.Street, addr.Unit, addr.City} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	var tail []string
	for _, p := range []*string{addr.State, addr.Zip} {
		if p != nil && *p != "" {
			tail = append(tail, *p)
		}
	}
	if len(tail) > 0 {
		parts = append(parts, strings.Join(tail, " "))
	}
	if len(parts) == 0 {
		return null
	}
	return strings.Join(parts, ", ")
}

func members(ms []domain.Member) string {
	if len(ms) == 0 {
		return null
	}
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, str(m.FullName)+" ("+str(m.Relationship)+")")
	}
	return strings.Join(out, "; ")
}

func assetsProvided(a domain.Assets) string {
	if a.Cash != nil || a.Checking != nil || a.Savings != nil || len(a.Vehicles) > 0 {
		return "yes"
	}
	return "no"
}
