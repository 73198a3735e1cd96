package domain

// Frequency is the recurrence of a monetary amount.
type Frequency string

const (
	FrequencyHourly   Frequency = "hourly"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
	FrequencyYearly   Frequency = "yearly"
)

// Citizenship is the applicant's declared status.
type Citizenship string

const (
	CitizenshipUS          Citizenship = "us_citizen"
	CitizenshipLPR         Citizenship = "lpr"
	CitizenshipOther       Citizenship = "other"
	CitizenshipUndisclosed Citizenship = "undisclosed"
)

// IncomeType classifies an income item.
type IncomeType string

const (
	IncomeWages          IncomeType = "wages"
	IncomeSelfEmployment IncomeType = "self_employment"
	IncomeUnemployment   IncomeType = "unemployment"
	IncomeSocialSecurity IncomeType = "social_security"
	IncomeSSI            IncomeType = "ssi"
	IncomeChildSupport   IncomeType = "child_support"
	IncomePension        IncomeType = "pension"
	IncomeOther          IncomeType = "other"
)

// DefaultLanguage is used until the applicant states a preference.
const DefaultLanguage = "en"

// Application is the draft being filled across the conversation.
// Nil pointers serialize as null and mean "not provided".
type Application struct {
	Meta         Meta         `json:"meta" yaml:"meta"`
	Applicant    Applicant    `json:"applicant" yaml:"applicant"`
	Household    Household    `json:"household" yaml:"household"`
	Income       []IncomeItem `json:"income" yaml:"income"`
	Expenses     Expenses     `json:"expenses" yaml:"expenses"`
	Assets       Assets       `json:"assets" yaml:"assets"`
	WorkActivity WorkActivity `json:"work_activity" yaml:"work_activity"`
	Declarations Declarations `json:"declarations" yaml:"declarations"`
}

type Meta struct {
	State              *string `json:"state" yaml:"state"`
	Language           string  `json:"language" yaml:"language"`
	AccessibilityNotes *string `json:"accessibility_notes" yaml:"accessibility_notes"`
	CompletedAt        *string `json:"completed_at" yaml:"completed_at"`
}

type Applicant struct {
	FullName       *string      `json:"full_name" yaml:"full_name"`
	DOB            *string      `json:"dob" yaml:"dob"`
	Phone          *string      `json:"phone" yaml:"phone"`
	Email          *string      `json:"email" yaml:"email"`
	Address        Address      `json:"address" yaml:"address"`
	MailingSame    *bool        `json:"mailing_same" yaml:"mailing_same"`
	MailingAddress *Address     `json:"mailing_address" yaml:"mailing_address"`
	SSNLast4       *string      `json:"ssn_last4" yaml:"ssn_last4"`
	Citizenship    *Citizenship `json:"citizenship" yaml:"citizenship"`
	Disability     *bool        `json:"disability" yaml:"disability"`
	Student        *bool        `json:"student" yaml:"student"`
	Veteran        *bool        `json:"veteran" yaml:"veteran"`
}

type Address struct {
	Street *string `json:"street" yaml:"street"`
	Unit   *string `json:"unit" yaml:"unit"`
	City   *string `json:"city" yaml:"city"`
	State  *string `json:"state" yaml:"state"`
	Zip    *string `json:"zip" yaml:"zip"`
}

type Household struct {
	Size    *int     `json:"size" yaml:"size"`
	Members []Member `json:"members" yaml:"members"`
}

type Member struct {
	FullName     *string `json:"full_name" yaml:"full_name"`
	Relationship *string `json:"relationship" yaml:"relationship"`
	DOB          *string `json:"dob" yaml:"dob"`
}

type IncomeItem struct {
	Person           *string     `json:"person" yaml:"person"`
	Type             *IncomeType `json:"type" yaml:"type"`
	EmployerOrSource *string     `json:"employer_or_source" yaml:"employer_or_source"`
	GrossAmount      *float64    `json:"gross_amount" yaml:"gross_amount"`
	Frequency        *Frequency  `json:"frequency" yaml:"frequency"`
	HoursPerWeek     *float64    `json:"hours_per_week,omitempty" yaml:"hours_per_week,omitempty"`
	StartDate        *string     `json:"start_date,omitempty" yaml:"start_date,omitempty"`
}

// Money is an amount paired with the frequency it recurs at.
type Money struct {
	Amount    float64   `json:"amount" yaml:"amount"`
	Frequency Frequency `json:"frequency" yaml:"frequency"`
}

type Expenses struct {
	Housing Housing          `json:"housing" yaml:"housing"`
	Care    []CareExpense    `json:"care" yaml:"care"`
	Medical []MedicalExpense `json:"medical" yaml:"medical"`
}

type Housing struct {
	RentOrMortgage *Money   `json:"rent_or_mortgage" yaml:"rent_or_mortgage"`
	Utilities      []string `json:"utilities" yaml:"utilities"`
}

type CareExpense struct {
	Person    *string    `json:"person" yaml:"person"`
	Amount    *float64   `json:"amount" yaml:"amount"`
	Frequency *Frequency `json:"frequency" yaml:"frequency"`
}

type MedicalExpense struct {
	Person      *string    `json:"person" yaml:"person"`
	Amount      *float64   `json:"amount" yaml:"amount"`
	Frequency   *Frequency `json:"frequency" yaml:"frequency"`
	Description *string    `json:"description" yaml:"description"`
}

type Assets struct {
	Cash     *float64 `json:"cash" yaml:"cash"`
	Checking *float64 `json:"checking" yaml:"checking"`
	Savings  *float64 `json:"savings" yaml:"savings"`
	Vehicles []string `json:"vehicles" yaml:"vehicles"`
}

type WorkActivity struct {
	Student       *bool `json:"student" yaml:"student"`
	Training      *bool `json:"training" yaml:"training"`
	RecentJobLoss *bool `json:"recent_job_loss" yaml:"recent_job_loss"`
}

type Declarations struct {
	ConsentToShare      bool `json:"consent_to_share" yaml:"consent_to_share"`
	AttestationReviewed bool `json:"attestation_reviewed" yaml:"attestation_reviewed"`
}

// NewApplication returns an empty draft with list fields initialized,
// so they render as [] rather than null.
func NewApplication() *Application {
	app := &Application{}
	app.Normalize()
	return app
}

// Normalize fills in defaults a caller-supplied draft may be missing.
func (a *Application) Normalize() {
	if a.Meta.Language == "" {
		a.Meta.Language = DefaultLanguage
	}
	if a.Household.Members == nil {
		a.Household.Members = []Member{}
	}
	if a.Income == nil {
		a.Income = []IncomeItem{}
	}
	if a.Expenses.Housing.Utilities == nil {
		a.Expenses.Housing.Utilities = []string{}
	}
	if a.Expenses.Care == nil {
		a.Expenses.Care = []CareExpense{}
	}
	if a.Expenses.Medical == nil {
		a.Expenses.Medical = []MedicalExpense{}
	}
	if a.Assets.Vehicles == nil {
		a.Assets.Vehicles = []string{}
	}
}

// Ptr returns a pointer to v. Used to populate nullable slots.
func Ptr[T any](v T) *T {
	return &v
}
