package extract

import (
	"strconv"

	"github.com/civicscribe/intake/pkg/domain"
)

// AnswerFor renders the extracted value that answers step, as if the user had typed it.
func AnswerFor(step domain.StepID, r Result) (string, bool) {
	switch step {
	case domain.StepFullName:
		return r.FullName, r.FullName != ""
	case domain.StepDOB:
		return r.DateOfBirth, r.DateOfBirth != ""
	case domain.StepEmail:
		return r.Email, r.Email != ""
	case domain.StepHouseholdSize:
		if r.HouseholdSize == nil {
			return "", false
		}
		return strconv.Itoa(*r.HouseholdSize), true
	case domain.StepSSNLast4:
		if len(r.SSN) < 4 {
			return "", false
		}
		return r.SSN[len(r.SSN)-4:], true
	case domain.StepHousingAmountFreq:
		return monthly(r.MonthlyExpenses)
	}
	return "", false
}

func monthly(v *float64) (string, bool) {
	if v == nil {
		return "", false
	}
	return "$" + strconv.FormatFloat(*v, 'f', -1, 64) + " " + string(domain.FrequencyMonthly), true
}
