package runtime

import (
	"fmt"
	"strings"

	"github.com/civicscribe/intake/pkg/assembly"
	"github.com/civicscribe/intake/pkg/domain"
	"github.com/civicscribe/intake/pkg/validate"
)

// User-facing copy that is not tied to a single step.
const (
	Welcome = "Hi! I'm CivicScribe. I'll help you fill out your benefits application one short question at a time. " +
		"You can say \"skip\" for anything you don't know yet."
	Disclaimer = "I'm not a source of legal or eligibility advice. " +
		"For questions about eligibility, please contact your state's official benefits office."
	SummaryKeyword = "summary"
)

// Sections, in conversation order.
const (
	SectionIntro        = "intro"
	SectionMeta         = "meta"
	SectionApplicant    = "applicant"
	SectionHousehold    = "household"
	SectionIncome       = "income"
	SectionExpenses     = "expenses"
	SectionAssets       = "assets"
	SectionWork         = "work_activity"
	SectionDeclarations = "declarations"
	SectionReview       = "review"
)

func buildGraph() (*Graph, error) {
	var nodes []*node
	nodes = append(nodes, introSteps()...)
	nodes = append(nodes, applicantSteps()...)
	nodes = append(nodes, householdSteps()...)
	nodes = append(nodes, incomeSteps()...)
	nodes = append(nodes, expenseSteps()...)
	nodes = append(nodes, assetSteps()...)
	nodes = append(nodes, closingSteps()...)
	return newGraph(nodes...)
}

func introSteps() []*node {
	return []*node{
		{
			id: domain.StepConsent, kind: domain.NodeBranch, section: SectionIntro,
			prompt:  text("Before we start: your answers stay in this conversation until you ask for the final document. Shall we begin? (yes/no)"),
			input:   domain.InputConfirm,
			options: yesNoOptions(),
			handle: func(t *turn) error {
				if !t.yes {
					return hold("No problem. Whenever you're ready to continue, just say yes.")
				}
				return nil
			},
			next: domain.StepState,
		},
		{
			id: domain.StepState, section: SectionMeta,
			prompt: text("Which state are you applying in? Please use the two-letter code, like TX."),
			handle: slot(validate.StateCode, func(t *turn, v string) { t.app.Meta.State = domain.Ptr(v) }),
			next:   domain.StepLanguage,
		},
		{
			id: domain.StepLanguage, section: SectionMeta,
			prompt: text("What language do you prefer? (for example en or es)"),
			def:    func(*domain.Application) string { return domain.DefaultLanguage },
			handle: slot(validate.Language, func(t *turn, v string) { t.app.Meta.Language = v }),
			next:   domain.StepAccessibility,
		},
		{
			id: domain.StepAccessibility, section: SectionMeta,
			prompt: text("Is there anything that would make this easier for you, like large print or an interpreter? Say skip if not."),
			handle: slot(validate.Text, func(t *turn, v string) { t.app.Meta.AccessibilityNotes = domain.Ptr(v) }),
			next:   domain.StepFullName,
		},
	}
}

func applicantSteps() []*node {
	addr := func(app *domain.Application) *domain.Address { return &app.Applicant.Address }
	mail := func(app *domain.Application) *domain.Address {
		if app.Applicant.MailingAddress == nil {
			app.Applicant.MailingAddress = &domain.Address{}
		}
		return app.Applicant.MailingAddress
	}
	residentialState := func(app *domain.Application) string {
		if s := app.Applicant.Address.State; s != nil {
			return *s
		}
		return ""
	}

	nodes := []*node{
		{
			id: domain.StepFullName, section: SectionApplicant,
			prompt: text("What is your full legal name?"),
			handle: slot(validate.Text, func(t *turn, v string) { t.app.Applicant.FullName = domain.Ptr(v) }),
			next:   domain.StepDOB,
		},
		{
			id: domain.StepDOB, section: SectionApplicant,
			prompt: text("What is your date of birth? (YYYY-MM-DD)"),
			handle: slot(validate.Date, func(t *turn, v string) { t.app.Applicant.DOB = domain.Ptr(v) }),
			next:   domain.StepPhone,
		},
		{
			id: domain.StepPhone, section: SectionApplicant,
			prompt: text("What is the best phone number to reach you?"),
			handle: slot(validate.Phone, func(t *turn, v string) { t.app.Applicant.Phone = domain.Ptr(v) }),
			next:   domain.StepEmail,
		},
		{
			id: domain.StepEmail, section: SectionApplicant,
			prompt: text("What is your email address?"),
			handle: slot(validate.Email, func(t *turn, v string) { t.app.Applicant.Email = domain.Ptr(v) }),
			next:   domain.StepAddrStreet,
		},
	}
	nodes = append(nodes, addressSteps(addressSpec{
		label: "home",
		steps: [5]domain.StepID{domain.StepAddrStreet, domain.StepAddrUnit, domain.StepAddrCity, domain.StepAddrState, domain.StepAddrZip},
		field: addr,
		next:  domain.StepMailingSame,
	})...)

	nodes = append(nodes, &node{
		id: domain.StepMailingSame, kind: domain.NodeBranch, section: SectionApplicant,
		prompt:  text("Is your mailing address the same as your home address? (yes/no)"),
		input:   domain.InputConfirm,
		options: yesNoOptions(),
		handle: func(t *turn) error {
			if t.skip {
				t.goTo(domain.StepSSNLast4)
				return nil
			}
			t.app.Applicant.MailingSame = domain.Ptr(t.yes)
			if t.yes {
				t.app.Applicant.MailingAddress = nil
				t.goTo(domain.StepSSNLast4)
				return nil
			}
			t.goTo(domain.StepMailStreet)
			return nil
		},
		edges: []domain.Transition{
			{To: domain.StepSSNLast4, Condition: "yes"},
			{To: domain.StepMailStreet, Condition: "no"},
		},
	})

	mailing := addressSteps(addressSpec{
		label: "mailing",
		steps: [5]domain.StepID{domain.StepMailStreet, domain.StepMailUnit, domain.StepMailCity, domain.StepMailState, domain.StepMailZip},
		field: mail,
		next:  domain.StepSSNLast4,
	})
	// The residential state is offered as the default when asking for the mailing state.
	mailState := mailing[3]
	mailState.prompt = func(app *domain.Application) string {
		if s := residentialState(app); s != "" {
			return fmt.Sprintf("Mailing address state? (two-letter code, or say \"same\" to use %s)", s)
		}
		return "Mailing address state? (two-letter code)"
	}
	mailState.def = residentialState
	mailState.handle = func(t *turn) error {
		if t.skip {
			return nil
		}
		if t.lower == "same" || t.raw == "" {
			if s := residentialState(t.app); s != "" {
				mail(t.app).State = domain.Ptr(s)
				return nil
			}
		}
		v, err := validate.StateCode(t.raw)
		if err != nil {
			return err
		}
		mail(t.app).State = domain.Ptr(v)
		return nil
	}
	nodes = append(nodes, mailing...)

	nodes = append(nodes,
		&node{
			id: domain.StepSSNLast4, section: SectionApplicant,
			prompt: text("What are the last 4 digits of your Social Security number? I only keep a masked version."),
			handle: slot(validate.SSNLast4, func(t *turn, v string) { t.app.Applicant.SSNLast4 = domain.Ptr(v) }),
			next:   domain.StepCitizenship,
		},
		&node{
			id: domain.StepCitizenship, section: SectionApplicant,
			prompt:  text("What is your citizenship status? (US citizen, permanent resident, other, or prefer not to say)"),
			input:   domain.InputChoice,
			options: []string{"us_citizen", "lpr", "other", "undisclosed"},
			handle:  slot(validate.Citizenship, func(t *turn, v domain.Citizenship) { t.app.Applicant.Citizenship = domain.Ptr(v) }),
			next:    domain.StepIdentityOptIn,
		},
		&node{
			id: domain.StepIdentityOptIn, kind: domain.NodeBranch, section: SectionApplicant,
			prompt:  text("Would you like to answer a few optional questions about disability, student, and veteran status? (yes/no)"),
			input:   domain.InputConfirm,
			options: yesNoOptions(),
			handle:  branch(domain.StepDisability, domain.StepHouseholdSize),
			edges: []domain.Transition{
				{To: domain.StepDisability, Condition: "yes"},
				{To: domain.StepHouseholdSize, Condition: "no"},
			},
		},
		&node{
			id: domain.StepDisability, section: SectionApplicant,
			prompt:  text("Do you have a disability? (yes/no)"),
			input:   domain.InputConfirm,
			options: yesNoOptions(),
			handle:  flag(func(app *domain.Application) **bool { return &app.Applicant.Disability }),
			next:    domain.StepStudent,
		},
		&node{
			id: domain.StepStudent, section: SectionApplicant,
			prompt:  text("Are you a student? (yes/no)"),
			input:   domain.InputConfirm,
			options: yesNoOptions(),
			handle:  flag(func(app *domain.Application) **bool { return &app.Applicant.Student }),
			next:    domain.StepVeteran,
		},
		&node{
			id: domain.StepVeteran, section: SectionApplicant,
			prompt:  text("Are you a veteran? (yes/no)"),
			input:   domain.InputConfirm,
			options: yesNoOptions(),
			handle:  flag(func(app *domain.Application) **bool { return &app.Applicant.Veteran }),
			next:    domain.StepHouseholdSize,
		},
	)
	return nodes
}

type addressSpec struct {
	label string
	// street, unit, city, state, zip
	steps [5]domain.StepID
	field func(app *domain.Application) *domain.Address
	next  domain.StepID
}

func addressSteps(a addressSpec) []*node {
	set := func(f func(addr *domain.Address) **string) func(*turn, string) {
		return func(t *turn, v string) { *f(a.field(t.app)) = domain.Ptr(v) }
	}
	title := strings.ToUpper(a.label[:1]) + a.label[1:]
	return []*node{
		{
			id: a.steps[0], section: SectionApplicant,
			prompt: text(fmt.Sprintf("%s address: what is the street address?", title)),
			handle: slot(validate.Text, set(func(addr *domain.Address) **string { return &addr.Street })),
			next:   a.steps[1],
		},
		{
			id: a.steps[1], section: SectionApplicant,
			prompt: text("Apartment or unit number? Say skip if none."),
			handle: func(t *turn) error {
				if t.skip || t.lower == "none" {
					return nil
				}
				return slot(validate.Text, set(func(addr *domain.Address) **string { return &addr.Unit }))(t)
			},
			next: a.steps[2],
		},
		{
			id: a.steps[2], section: SectionApplicant,
			prompt: text("City?"),
			handle: slot(validate.Text, set(func(addr *domain.Address) **string { return &addr.City })),
			next:   a.steps[3],
		},
		{
			id: a.steps[3], section: SectionApplicant,
			prompt: text("State? (two-letter code)"),
			handle: slot(validate.StateCode, set(func(addr *domain.Address) **string { return &addr.State })),
			next:   a.steps[4],
		},
		{
			id: a.steps[4], section: SectionApplicant,
			prompt: text("ZIP code?"),
			handle: slot(validate.ZIP, set(func(addr *domain.Address) **string { return &addr.Zip })),
			next:   a.next,
		},
	}
}

func householdSteps() []*node {
	size := &node{
		id: domain.StepHouseholdSize, section: SectionHousehold,
		prompt: text("How many people live in your household, including you?"),
		handle: slot(validate.HouseholdSize, func(t *turn, v int) { t.app.Household.Size = domain.Ptr(v) }),
		next:   domain.StepMemberGate,
	}
	members := &loop[domain.MemberDraft]{
		gate: domain.StepMemberGate, exit: domain.StepIncomeGate,
		section: SectionHousehold, noun: "household member",
		count:   func(app *domain.Application) int { return len(app.Household.Members) },
		scratch: func(p *domain.Pending) **domain.MemberDraft { return &p.Member },
		commit: func(app *domain.Application, d domain.MemberDraft) {
			app.Household.Members = append(app.Household.Members, d.Member())
		},
		steps: []sub[domain.MemberDraft]{
			{
				id: domain.StepMemberName,
				prompt: func(_ *domain.Application, n int) string {
					return fmt.Sprintf("Household member %s: what is their full name?", ordinal(n))
				},
				apply: field(validate.Text, func(d *domain.MemberDraft, v string) { d.FullName = domain.Ptr(v) }),
			},
			{
				id: domain.StepMemberRelationship,
				prompt: func(*domain.Application, int) string {
					return "How are they related to you? (for example spouse, child, parent)"
				},
				apply: field(validate.Text, func(d *domain.MemberDraft, v string) { d.Relationship = domain.Ptr(strings.ToLower(v)) }),
			},
			{
				id:     domain.StepMemberDOB,
				prompt: func(*domain.Application, int) string { return "What is their date of birth? (YYYY-MM-DD)" },
				apply:  field(validate.Date, func(d *domain.MemberDraft, v string) { d.DOB = domain.Ptr(v) }),
			},
		},
	}
	return append([]*node{size}, members.nodes()...)
}

func incomeSteps() []*node {
	income := &loop[domain.IncomeDraft]{
		gate: domain.StepIncomeGate, exit: domain.StepHousingAmountFreq,
		section: SectionIncome, noun: "income source",
		count:   func(app *domain.Application) int { return len(app.Income) },
		scratch: func(p *domain.Pending) **domain.IncomeDraft { return &p.Income },
		commit: func(app *domain.Application, d domain.IncomeDraft) {
			app.Income = append(app.Income, d.Item())
		},
		steps: []sub[domain.IncomeDraft]{
			{
				id: domain.StepIncomePerson,
				prompt: func(_ *domain.Application, n int) string {
					return fmt.Sprintf("Income source %s: who receives this income?", ordinal(n))
				},
				apply: field(validate.Text, func(d *domain.IncomeDraft, v string) { d.Person = domain.Ptr(v) }),
			},
			{
				id: domain.StepIncomeType,
				prompt: func(*domain.Application, int) string {
					return "What type of income is it? (wages, self-employment, unemployment, social security, SSI, child support, pension, other)"
				},
				input: domain.InputChoice,
				options: []string{
					string(domain.IncomeWages), string(domain.IncomeSelfEmployment), string(domain.IncomeUnemployment),
					string(domain.IncomeSocialSecurity), string(domain.IncomeSSI), string(domain.IncomeChildSupport),
					string(domain.IncomePension), string(domain.IncomeOther),
				},
				apply: field(validate.IncomeType, func(d *domain.IncomeDraft, v domain.IncomeType) { d.Type = domain.Ptr(v) }),
			},
			{
				id:     domain.StepIncomeSource,
				prompt: func(*domain.Application, int) string { return "Who is the employer or source?" },
				apply:  field(validate.Text, func(d *domain.IncomeDraft, v string) { d.EmployerOrSource = domain.Ptr(v) }),
			},
			{
				id: domain.StepIncomeAmountFreq,
				prompt: func(*domain.Application, int) string {
					return "How much is it before taxes, and how often? (for example \"$600 weekly\")"
				},
				apply: field(validate.MoneyFrequency, func(d *domain.IncomeDraft, v domain.Money) {
					d.GrossAmount = domain.Ptr(v.Amount)
					d.Frequency = domain.Ptr(v.Frequency)
				}),
			},
			{
				id: domain.StepIncomeHours,
				prompt: func(*domain.Application, int) string {
					return "About how many hours per week? Say skip if it doesn't apply."
				},
				apply: field(validate.Hours, func(d *domain.IncomeDraft, v float64) { d.HoursPerWeek = domain.Ptr(v) }),
			},
			{
				id:     domain.StepIncomeStartDate,
				prompt: func(*domain.Application, int) string { return "When did this income start? (YYYY-MM-DD, or skip)" },
				apply:  field(validate.Date, func(d *domain.IncomeDraft, v string) { d.StartDate = domain.Ptr(v) }),
			},
		},
	}
	return income.nodes()
}

func expenseSteps() []*node {
	nodes := []*node{
		{
			id: domain.StepHousingAmountFreq, section: SectionExpenses,
			prompt: text("How much do you pay for rent or mortgage, and how often? (for example \"$850 monthly\")"),
			handle: slot(validate.MoneyFrequency, func(t *turn, v domain.Money) {
				t.app.Expenses.Housing.RentOrMortgage = &domain.Money{Amount: v.Amount, Frequency: v.Frequency}
			}),
			next: domain.StepUtilities,
		},
		{
			id: domain.StepUtilities, section: SectionExpenses,
			prompt: text("Which utilities do you pay for? (" + strings.Join(validate.Utilities, ", ") + ", or none)"),
			handle: slot(validate.UtilityList, func(t *turn, v []string) { t.app.Expenses.Housing.Utilities = v }),
			next:   domain.StepCareGate,
		},
	}

	care := &loop[domain.CareDraft]{
		gate: domain.StepCareGate, exit: domain.StepMedicalGate,
		section: SectionExpenses, noun: "dependent care expense",
		count:   func(app *domain.Application) int { return len(app.Expenses.Care) },
		scratch: func(p *domain.Pending) **domain.CareDraft { return &p.Care },
		commit: func(app *domain.Application, d domain.CareDraft) {
			app.Expenses.Care = append(app.Expenses.Care, d.Expense())
		},
		steps: []sub[domain.CareDraft]{
			{
				id: domain.StepCarePerson,
				prompt: func(_ *domain.Application, n int) string {
					return fmt.Sprintf("Care expense %s: who is the care for?", ordinal(n))
				},
				apply: field(validate.Text, func(d *domain.CareDraft, v string) { d.Person = domain.Ptr(v) }),
			},
			{
				id:      domain.StepCareAmountFreq,
				prompt:  func(*domain.Application, int) string { return "How much do you pay for care, and how often?" },
				options: frequencyOptions(),
				apply: field(validate.MoneyFrequency, func(d *domain.CareDraft, v domain.Money) {
					d.Amount = domain.Ptr(v.Amount)
					d.Frequency = domain.Ptr(v.Frequency)
				}),
			},
		},
	}

	medical := &loop[domain.MedicalDraft]{
		gate: domain.StepMedicalGate, exit: domain.StepAssetsOptIn,
		section: SectionExpenses, noun: "medical expense",
		count:   func(app *domain.Application) int { return len(app.Expenses.Medical) },
		scratch: func(p *domain.Pending) **domain.MedicalDraft { return &p.Medical },
		commit: func(app *domain.Application, d domain.MedicalDraft) {
			app.Expenses.Medical = append(app.Expenses.Medical, d.Expense())
		},
		steps: []sub[domain.MedicalDraft]{
			{
				id: domain.StepMedicalPerson,
				prompt: func(_ *domain.Application, n int) string {
					return fmt.Sprintf("Medical expense %s: who is it for?", ordinal(n))
				},
				apply: field(validate.Text, func(d *domain.MedicalDraft, v string) { d.Person = domain.Ptr(v) }),
			},
			{
				id:      domain.StepMedicalAmountFreq,
				prompt:  func(*domain.Application, int) string { return "How much is it, and how often?" },
				options: frequencyOptions(),
				apply: field(validate.MoneyFrequency, func(d *domain.MedicalDraft, v domain.Money) {
					d.Amount = domain.Ptr(v.Amount)
					d.Frequency = domain.Ptr(v.Frequency)
				}),
			},
			{
				id:     domain.StepMedicalDesc,
				prompt: func(*domain.Application, int) string { return "Briefly, what is it for?" },
				apply:  field(validate.Text, func(d *domain.MedicalDraft, v string) { d.Description = domain.Ptr(v) }),
			},
		},
	}

	nodes = append(nodes, care.nodes()...)
	return append(nodes, medical.nodes()...)
}

func assetSteps() []*node {
	amount := func(f func(a *domain.Assets) **float64) handler {
		return slot(validate.Amount, func(t *turn, v float64) { *f(&t.app.Assets) = domain.Ptr(v) })
	}
	nodes := []*node{
		{
			id: domain.StepAssetsOptIn, kind: domain.NodeBranch, section: SectionAssets,
			prompt:  text("Would you like to tell me about savings, accounts, and vehicles? This part is optional. (yes/no)"),
			input:   domain.InputConfirm,
			options: yesNoOptions(),
			handle:  branch(domain.StepAssetCash, domain.StepWorkStudent),
			edges: []domain.Transition{
				{To: domain.StepAssetCash, Condition: "yes"},
				{To: domain.StepWorkStudent, Condition: "no"},
			},
		},
		{
			id: domain.StepAssetCash, section: SectionAssets,
			prompt: text("About how much cash do you have on hand?"),
			handle: amount(func(a *domain.Assets) **float64 { return &a.Cash }),
			next:   domain.StepAssetChecking,
		},
		{
			id: domain.StepAssetChecking, section: SectionAssets,
			prompt: text("About how much is in checking accounts?"),
			handle: amount(func(a *domain.Assets) **float64 { return &a.Checking }),
			next:   domain.StepAssetSavings,
		},
		{
			id: domain.StepAssetSavings, section: SectionAssets,
			prompt: text("About how much is in savings accounts?"),
			handle: amount(func(a *domain.Assets) **float64 { return &a.Savings }),
			next:   domain.StepVehicleGate,
		},
	}

	vehicles := &loop[domain.VehicleDraft]{
		gate: domain.StepVehicleGate, exit: domain.StepWorkStudent,
		section: SectionAssets, noun: "vehicle",
		count:   func(app *domain.Application) int { return len(app.Assets.Vehicles) },
		scratch: func(p *domain.Pending) **domain.VehicleDraft { return &p.Vehicle },
		commit: func(app *domain.Application, d domain.VehicleDraft) {
			if d.Description == nil {
				return
			}
			app.Assets.Vehicles = append(app.Assets.Vehicles, *d.Description)
		},
		steps: []sub[domain.VehicleDraft]{
			{
				id: domain.StepVehicleDesc,
				prompt: func(_ *domain.Application, n int) string {
					return fmt.Sprintf("Vehicle %s: year, make, and model?", ordinal(n))
				},
				apply: field(validate.Text, func(d *domain.VehicleDraft, v string) { d.Description = domain.Ptr(v) }),
			},
		},
	}
	return append(nodes, vehicles.nodes()...)
}

func closingSteps() []*node {
	work := func(f func(w *domain.WorkActivity) **bool) handler {
		return flag(func(app *domain.Application) **bool { return f(&app.WorkActivity) })
	}
	return []*node{
		{
			id: domain.StepWorkStudent, section: SectionWork,
			prompt:  text("Is anyone in your household currently in school? (yes/no)"),
			input:   domain.InputConfirm,
			options: yesNoOptions(),
			handle:  work(func(w *domain.WorkActivity) **bool { return &w.Student }),
			next:    domain.StepWorkTraining,
		},
		{
			id: domain.StepWorkTraining, section: SectionWork,
			prompt:  text("Is anyone in a job training program? (yes/no)"),
			input:   domain.InputConfirm,
			options: yesNoOptions(),
			handle:  work(func(w *domain.WorkActivity) **bool { return &w.Training }),
			next:    domain.StepWorkJobLoss,
		},
		{
			id: domain.StepWorkJobLoss, section: SectionWork,
			prompt:  text("Has anyone lost a job or had hours cut in the last 60 days? (yes/no)"),
			input:   domain.InputConfirm,
			options: yesNoOptions(),
			handle:  work(func(w *domain.WorkActivity) **bool { return &w.RecentJobLoss }),
			next:    domain.StepConsentShare,
		},
		{
			id: domain.StepConsentShare, section: SectionDeclarations,
			prompt:  text("Do you consent to sharing this information with the benefits office processing your application? (yes/no)"),
			input:   domain.InputConfirm,
			options: yesNoOptions(),
			// Declarations are plain booleans: anything but yes, skip included,
			// records false and clears an earlier yes.
			handle: func(t *turn) error {
				t.app.Declarations.ConsentToShare = t.yes
				return nil
			},
			next: domain.StepAttestation,
		},
		{
			id: domain.StepAttestation, section: SectionDeclarations,
			prompt:  text("Do you confirm that the information you gave is true to the best of your knowledge? (yes/no)"),
			input:   domain.InputConfirm,
			options: yesNoOptions(),
			// Same rule as consent_share.
			handle: func(t *turn) error {
				t.app.Declarations.AttestationReviewed = t.yes
				return nil
			},
			next: domain.StepReviewReady,
		},
		{
			id: domain.StepReviewReady, kind: domain.NodeBranch, section: SectionReview,
			prompt:  text("That's everything. Would you like to review a summary of your answers? (yes/no)"),
			input:   domain.InputConfirm,
			options: yesNoOptions(),
			handle: func(t *turn) error {
				if !t.yes {
					return hold("Okay. Say yes whenever you'd like to see the summary.")
				}
				t.tell("Here is a summary of your application:\n" + assembly.Summary(t.app))
				return nil
			},
			next: domain.StepReviewConfirm,
		},
		{
			id: domain.StepReviewConfirm, kind: domain.NodeBranch, section: SectionReview,
			prompt:  text("Shall I produce the final application document? (yes/no)"),
			input:   domain.InputConfirm,
			options: yesNoOptions(),
			handle: func(t *turn) error {
				if t.yes {
					*t.app = *assembly.Assemble(t.app, t.now)
					t.finalized = true
					t.tell("Your application document is ready.")
				} else {
					t.tell("Okay, I'll leave your application open. Say \"" + SummaryKeyword + "\" any time to see it again.")
				}
				return nil
			},
			next: domain.StepDone,
			edges: []domain.Transition{
				{To: domain.StepDone, Condition: "yes"},
			},
		},
		{
			id: domain.StepDone, kind: domain.NodeTerminal, section: SectionReview,
			prompt: text("You're all set. Say \"" + SummaryKeyword + "\" to see your answers again."),
			handle: func(t *turn) error {
				if strings.Contains(t.lower, SummaryKeyword) {
					t.tell(assembly.Summary(t.app))
				} else {
					t.tell(Disclaimer)
				}
				return nil
			},
			next: domain.StepDone,
		},
	}
}
