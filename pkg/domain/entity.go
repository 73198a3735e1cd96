package domain

// MemberDraft accumulates a household member across the member sub-steps.
type MemberDraft struct {
	FullName     *string `json:"full_name,omitempty"`
	Relationship *string `json:"relationship,omitempty"`
	DOB          *string `json:"dob,omitempty"`
}

func (d MemberDraft) Member() Member {
	return Member{FullName: d.FullName, Relationship: d.Relationship, DOB: d.DOB}
}

// IncomeDraft accumulates one income item.
type IncomeDraft struct {
	Person           *string     `json:"person,omitempty"`
	Type             *IncomeType `json:"type,omitempty"`
	EmployerOrSource *string     `json:"employer_or_source,omitempty"`
	GrossAmount      *float64    `json:"gross_amount,omitempty"`
	Frequency        *Frequency  `json:"frequency,omitempty"`
	HoursPerWeek     *float64    `json:"hours_per_week,omitempty"`
	StartDate        *string     `json:"start_date,omitempty"`
}

func (d IncomeDraft) Item() IncomeItem {
	return IncomeItem{
		Person:           d.Person,
		Type:             d.Type,
		EmployerOrSource: d.EmployerOrSource,
		GrossAmount:      d.GrossAmount,
		Frequency:        d.Frequency,
		HoursPerWeek:     d.HoursPerWeek,
		StartDate:        d.StartDate,
	}
}

// CareDraft accumulates a dependent care expense line.
type CareDraft struct {
	Person    *string    `json:"person,omitempty"`
	Amount    *float64   `json:"amount,omitempty"`
	Frequency *Frequency `json:"frequency,omitempty"`
}

func (d CareDraft) Expense() CareExpense {
	return CareExpense{Person: d.Person, Amount: d.Amount, Frequency: d.Frequency}
}

// MedicalDraft accumulates a medical expense line.
type MedicalDraft struct {
	Person      *string    `json:"person,omitempty"`
	Amount      *float64   `json:"amount,omitempty"`
	Frequency   *Frequency `json:"frequency,omitempty"`
	Description *string    `json:"description,omitempty"`
}

func (d MedicalDraft) Expense() MedicalExpense {
	return MedicalExpense{
		Person:      d.Person,
		Amount:      d.Amount,
		Frequency:   d.Frequency,
		Description: d.Description,
	}
}

// VehicleDraft holds the free-text description of one vehicle.
type VehicleDraft struct {
	Description *string `json:"description,omitempty"`
}

// Pending holds the scratch record of the sub-loop currently in progress.
// Each repeatable kind has its own slot; at most one is non-nil at a time.
type Pending struct {
	Member  *MemberDraft  `json:"member,omitempty"`
	Income  *IncomeDraft  `json:"income,omitempty"`
	Care    *CareDraft    `json:"care,omitempty"`
	Medical *MedicalDraft `json:"medical,omitempty"`
	Vehicle *VehicleDraft `json:"vehicle,omitempty"`
}

// Empty reports whether no sub-loop is in progress.
func (p Pending) Empty() bool {
	return p.Member == nil && p.Income == nil && p.Care == nil && p.Medical == nil && p.Vehicle == nil
}
