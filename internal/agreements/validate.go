package agreements

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
)

// Validate turns a normalized flat record into a typed AgreementRecord.
//
// Failures split two ways. Hard failures (missing required fields, malformed
// required values) come back as FieldErrors, all of them at once, and the
// record must not be persisted. Soft failures (an optional numeric that does
// not parse, a payment amount that disagrees with the service lines) degrade
// the record's is_valid flag but still let it through for human review.
func Validate(rec RawRecord) (AgreementRecord, []FieldError) {
	var errs []FieldError
	out := AgreementRecord{}

	out.S3Path = requiredString(rec, "s3_path", &errs)
	out.DocumentTitle = requiredString(rec, "document_title", &errs)
	out.StudentFirstName = requiredString(rec, "student_first_name", &errs)
	out.StudentLastName = requiredString(rec, "student_last_name", &errs)
	out.ParentGuardianFullName = requiredString(rec, "parent_guardian_full_name", &errs)
	out.StudentCampus = requiredString(rec, "student_campus", &errs)

	out.ParentGuardianEmail = requiredString(rec, "parent_guardian_email", &errs)
	if out.ParentGuardianEmail != "" && !validEmail(out.ParentGuardianEmail) {
		errs = append(errs, FieldError{Field: "parent_guardian_email", Reason: "not a valid email address"})
	}

	out.StudentNickname = optionalString(rec["student_nickname"])
	out.SecondParentGuardianFullName = optionalString(rec["second_parent_guardian_full_name"])
	out.SecondParentGuardianEmail = optionalString(rec["second_parent_guardian_email"])
	if out.SecondParentGuardianEmail != nil && !validEmail(*out.SecondParentGuardianEmail) {
		errs = append(errs, FieldError{Field: "second_parent_guardian_email", Reason: "not a valid email address"})
	}
	out.StudentCourses = optionalString(rec["student_courses"])
	out.StudentCollegeBound = optionalString(rec["student_college_bound"])
	out.ScheduledStartDate = optionalString(rec["scheduled_start_date"])
	out.ScholarshipType = optionalString(rec["scholarship_type"])
	if doc := optionalString(rec["document_id"]); doc != nil {
		out.DocumentID = doc
	}

	if grade, ok := hardInt(rec["current_grade"]); ok {
		out.CurrentGrade = grade
	} else {
		errs = append(errs, FieldError{Field: "current_grade", Reason: "required and must be an integer"})
	}

	degraded := false
	out.TotalTuition = softFloat(rec["total_tuition"], &degraded)
	out.ScholarshipPayment = softFloat(rec["scholarship_payment"], &degraded)
	out.PaymentAmount = softFloat(rec["payment_amount"], &degraded)
	out.OneToOneSessions = softInt(rec["one_to_one_sessions"], &degraded)
	out.HomeworkStudioSessions = softInt(rec["homework_studio_sessions"], &degraded)

	out.IsSinglePayment = boolOrDefault(rec["is_single_payment"], true)
	out.IsHumanApproved = boolOrDefault(rec["is_human_approved"], false)

	out.ServicesList = validateServices(rec["services_list"], &errs)

	out.IsValid = boolOrDefault(rec["is_valid"], true)
	if degraded {
		out.IsValid = false
	}
	if !paymentConsistent(out) {
		out.IsValid = false
	}

	if len(errs) > 0 {
		return AgreementRecord{}, errs
	}
	return out, nil
}

// paymentConsistent checks that the payment amount agrees with the summed
// service tuition within a 10% tolerance. An absent payment amount cannot be
// checked and counts as inconsistent.
func paymentConsistent(rec AgreementRecord) bool {
	if rec.PaymentAmount == nil {
		return false
	}
	amount := *rec.PaymentAmount
	diff := rec.ServicesTuitionTotal() - amount
	if diff < 0 {
		diff = -diff
	}
	allowed := amount * 0.10
	if allowed < 0 {
		allowed = -allowed
	}
	return diff <= allowed
}

func validateServices(v any, errs *[]FieldError) []ServiceLine {
	entries, ok := v.([]any)
	if !ok {
		*errs = append(*errs, FieldError{Field: "services_list", Reason: "required and must be a list"})
		return nil
	}
	lines := make([]ServiceLine, 0, len(entries))
	for i, raw := range entries {
		entry, ok := raw.(map[string]any)
		if !ok {
			*errs = append(*errs, FieldError{
				Field:  fmt.Sprintf("services_list[%d]", i),
				Reason: "must be an object",
			})
			continue
		}
		line := ServiceLine{}
		if name, ok := entry["service_name"].(string); ok && strings.TrimSpace(name) != "" {
			line.ServiceName = strings.TrimSpace(name)
		} else {
			*errs = append(*errs, FieldError{
				Field:  fmt.Sprintf("services_list[%d].service_name", i),
				Reason: "required",
			})
		}
		line.CostPerUnit = requiredFloatAt(entry, "cost_per_unit", i, errs)
		line.Units = requiredFloatAt(entry, "units", i, errs)
		line.Tuition = requiredFloatAt(entry, "tuition", i, errs)
		lines = append(lines, line)
	}
	return lines
}

func requiredFloatAt(entry map[string]any, key string, index int, errs *[]FieldError) float64 {
	if f, ok := parseFloat(entry[key]); ok {
		return f
	}
	*errs = append(*errs, FieldError{
		Field:  fmt.Sprintf("services_list[%d].%s", index, key),
		Reason: "required and must be a number",
	})
	return 0
}

func requiredString(rec RawRecord, field string, errs *[]FieldError) string {
	if s, ok := rec[field].(string); ok {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			return trimmed
		}
	}
	*errs = append(*errs, FieldError{Field: field, Reason: "required"})
	return ""
}

// optionalString trims the value and treats blank as absent.
func optionalString(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// softFloat coerces an optional numeric field. Blank strings become absent;
// unparsable strings become absent and mark the record degraded.
func softFloat(v any, degraded *bool) *float64 {
	switch n := v.(type) {
	case nil:
		return nil
	case string:
		trimmed := strings.TrimSpace(n)
		if trimmed == "" {
			return nil
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			*degraded = true
			return nil
		}
		return &f
	default:
		if f, ok := asFloat(v); ok {
			return &f
		}
		*degraded = true
		return nil
	}
}

// softInt is softFloat for integer fields. JSON numerics arrive as float64
// and are accepted when whole.
func softInt(v any, degraded *bool) *int {
	switch n := v.(type) {
	case nil:
		return nil
	case string:
		trimmed := strings.TrimSpace(n)
		if trimmed == "" {
			return nil
		}
		i, err := strconv.Atoi(trimmed)
		if err != nil {
			*degraded = true
			return nil
		}
		return &i
	default:
		if f, ok := asFloat(v); ok && f == float64(int(f)) {
			i := int(f)
			return &i
		}
		*degraded = true
		return nil
	}
}

func hardInt(v any) (int, bool) {
	switch n := v.(type) {
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		if f, ok := asFloat(v); ok && f == float64(int(f)) {
			return int(f), true
		}
		return 0, false
	}
}

func parseFloat(v any) (float64, bool) {
	if f, ok := asFloat(v); ok {
		return f, true
	}
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil {
			return f, true
		}
	}
	return 0, false
}

func validEmail(addr string) bool {
	parsed, err := mail.ParseAddress(addr)
	return err == nil && parsed.Address == addr
}
