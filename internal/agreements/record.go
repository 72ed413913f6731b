package agreements

// RawRecord is the untyped field mapping produced by an extraction run or a
// user submission. It is transient: normalization and validation turn it into
// an AgreementRecord, which is the only shape ever persisted.
type RawRecord map[string]any

// ServiceLine is one billed service on an agreement. Units are fractional
// because half-unit billing occurs.
type ServiceLine struct {
	ServiceName string  `json:"service_name"`
	CostPerUnit float64 `json:"cost_per_unit"`
	Units       float64 `json:"units"`
	Tuition     float64 `json:"tuition"`
}

// AgreementRecord is the canonical post-normalization record. Field names are
// the persistence layer's column identities and must stay stable.
type AgreementRecord struct {
	S3Path        string  `json:"s3_path"`
	DocumentID    *string `json:"document_id"`
	DocumentTitle string  `json:"document_title"`

	StudentFirstName string  `json:"student_first_name"`
	StudentLastName  string  `json:"student_last_name"`
	StudentNickname  *string `json:"student_nickname"`

	ParentGuardianFullName       string  `json:"parent_guardian_full_name"`
	ParentGuardianEmail          string  `json:"parent_guardian_email"`
	SecondParentGuardianFullName *string `json:"second_parent_guardian_full_name"`
	SecondParentGuardianEmail    *string `json:"second_parent_guardian_email"`

	StudentCourses      *string `json:"student_courses"`
	StudentCampus       string  `json:"student_campus"`
	StudentCollegeBound *string `json:"student_college_bound"`
	CurrentGrade        int     `json:"current_grade"`

	TotalTuition           *float64 `json:"total_tuition"`
	OneToOneSessions       *int     `json:"one_to_one_sessions"`
	HomeworkStudioSessions *int     `json:"homework_studio_sessions"`
	ScheduledStartDate     *string  `json:"scheduled_start_date"`
	ScholarshipType        *string  `json:"scholarship_type"`
	ScholarshipPayment     *float64 `json:"scholarship_payment"`
	IsSinglePayment        bool     `json:"is_single_payment"`
	PaymentAmount          *float64 `json:"payment_amount"`

	ServicesList []ServiceLine `json:"services_list"`

	IsValid         bool `json:"is_valid"`
	IsHumanApproved bool `json:"is_human_approved"`
}

// ServicesTuitionTotal sums tuition across the record's service lines.
func (r AgreementRecord) ServicesTuitionTotal() float64 {
	var total float64
	for _, s := range r.ServicesList {
		total += s.Tuition
	}
	return total
}
