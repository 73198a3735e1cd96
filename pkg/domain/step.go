package domain

// StepID identifies a position in the conversation graph.
type StepID string

// Entry, review and terminal steps.
const (
	StepConsent       StepID = "consent"
	StepReviewReady   StepID = "review_ready"
	StepReviewConfirm StepID = "review_confirm"
	StepDone          StepID = "done"
)

// Meta section.
const (
	StepState         StepID = "state"
	StepLanguage      StepID = "language"
	StepAccessibility StepID = "accessibility"
)

// Applicant section.
const (
	StepFullName      StepID = "full_name"
	StepDOB           StepID = "dob"
	StepPhone         StepID = "phone"
	StepEmail         StepID = "email"
	StepAddrStreet    StepID = "addr_street"
	StepAddrUnit      StepID = "addr_unit"
	StepAddrCity      StepID = "addr_city"
	StepAddrState     StepID = "addr_state"
	StepAddrZip       StepID = "addr_zip"
	StepMailingSame   StepID = "mailing_same"
	StepMailStreet    StepID = "mail_street"
	StepMailUnit      StepID = "mail_unit"
	StepMailCity      StepID = "mail_city"
	StepMailState     StepID = "mail_state"
	StepMailZip       StepID = "mail_zip"
	StepSSNLast4      StepID = "ssn_last4"
	StepCitizenship   StepID = "citizenship"
	StepIdentityOptIn StepID = "identity_optin"
	StepDisability    StepID = "disability"
	StepStudent       StepID = "student"
	StepVeteran       StepID = "veteran"
)

// Household section.
const (
	StepHouseholdSize      StepID = "hh_size"
	StepMemberGate         StepID = "hh_member_gate"
	StepMemberName         StepID = "hh_member_name"
	StepMemberRelationship StepID = "hh_member_relationship"
	StepMemberDOB          StepID = "hh_member_dob"
)

// Income section.
const (
	StepIncomeGate       StepID = "inc_gate"
	StepIncomePerson     StepID = "inc_person"
	StepIncomeType       StepID = "inc_type"
	StepIncomeSource     StepID = "inc_source"
	StepIncomeAmountFreq StepID = "inc_amount_freq"
	StepIncomeHours      StepID = "inc_hours"
	StepIncomeStartDate  StepID = "inc_start_date"
)

// Expenses section.
const (
	StepHousingAmountFreq StepID = "housing_amount_freq"
	StepUtilities         StepID = "utilities"
	StepCareGate          StepID = "care_gate"
	StepCarePerson        StepID = "care_person"
	StepCareAmountFreq    StepID = "care_amount_freq"
	StepMedicalGate       StepID = "med_gate"
	StepMedicalPerson     StepID = "med_person"
	StepMedicalAmountFreq StepID = "med_amount_freq"
	StepMedicalDesc       StepID = "med_description"
)

// Assets section.
const (
	StepAssetsOptIn   StepID = "assets_optin"
	StepAssetCash     StepID = "asset_cash"
	StepAssetChecking StepID = "asset_checking"
	StepAssetSavings  StepID = "asset_savings"
	StepVehicleGate   StepID = "vehicle_gate"
	StepVehicleDesc   StepID = "vehicle_desc"
)

// Work activity and declarations.
const (
	StepWorkStudent  StepID = "work_student"
	StepWorkTraining StepID = "work_training"
	StepWorkJobLoss  StepID = "work_job_loss"
	StepConsentShare StepID = "consent_share"
	StepAttestation  StepID = "attestation"
)

// EntryStep is where every new session begins.
const EntryStep = StepConsent

func (s StepID) String() string { return string(s) }
