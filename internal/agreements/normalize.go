package agreements

// Input format tags. Every record entering normalization must carry one;
// dispatch is explicit, never guessed from shape.
const (
	FormatExtracted = "extracted from model"
	FormatUserSave  = "user save"
)

// Normalize flattens a raw record into the canonical flat field mapping that
// validation consumes. The record's "input_format" value selects the shape:
// model output arrives nested (student, parent_guardian, payment objects),
// user submissions arrive already flat with a few legacy key aliases.
func Normalize(rec RawRecord) (RawRecord, error) {
	format, _ := rec["input_format"].(string)
	switch format {
	case FormatExtracted:
		return normalizeExtracted(rec), nil
	case FormatUserSave:
		return normalizeUserSave(rec), nil
	default:
		return nil, ErrUnknownInputFormat
	}
}

func normalizeExtracted(rec RawRecord) RawRecord {
	student := subMap(rec, "student")
	parent := subMap(rec, "parent_guardian")
	secondParent := subMap(rec, "second_parent_guardian")
	program := subMap(rec, "student_program")
	payment := subMap(rec, "payment")

	var scholarshipType, scholarshipPayment any
	if scholarship, ok := payment["scholarship_payment"].(map[string]any); ok {
		scholarshipType = scholarship["scholarship_type"]
		scholarshipPayment = scholarship["scholarship_payment"]
	}

	// Single payment is the default; a multiple-payment block overrides it
	// and the installments collapse into their sum.
	isSinglePayment := true
	var paymentAmount any
	if single, ok := payment["single_payment"].(map[string]any); ok && len(single) > 0 {
		paymentAmount = single["amount"]
	}
	if installments, ok := payment["multiple_payment"].([]any); ok && len(installments) > 0 {
		isSinglePayment = false
		var sum float64
		for _, raw := range installments {
			installment, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if amount, ok := asFloat(installment["amount"]); ok {
				sum += amount
			}
		}
		paymentAmount = sum
	}

	return RawRecord{
		"document_title": rec["document_title"],

		"student_first_name": stringOrEmpty(student["first_name"]),
		"student_last_name":  stringOrEmpty(student["last_name"]),
		"student_nickname":   stringOrEmpty(student["nickname"]),

		"parent_guardian_full_name":        stringOrEmpty(parent["full_name"]),
		"parent_guardian_email":            stringOrEmpty(parent["email"]),
		"second_parent_guardian_full_name": firstString(secondParent["full_name"], secondParent["second_parent_guardian_full_name"]),
		"second_parent_guardian_email":     firstString(secondParent["email"], secondParent["second_parent_guardian_email"]),

		"student_campus":        stringOrEmpty(program["campus"]),
		"student_courses":       stringOrEmpty(program["courses"]),
		"student_college_bound": stringOrEmpty(program["college_bound"]),
		"current_grade":         program["current_grade"],

		"services_list": filterServices(serviceEntries(rec)),

		"total_tuition":            rec["total_tuition"],
		"one_to_one_sessions":      rec["one_to_one_sessions"],
		"homework_studio_sessions": rec["homework_studio_sessions"],
		"scheduled_start_date":     rec["scheduled_start_date"],

		"s3_path":     rec["s3_path"],
		"document_id": firstValue(rec["document_id"], rec["doc_id"]),

		"scholarship_type":    scholarshipType,
		"scholarship_payment": scholarshipPayment,
		"is_single_payment":   isSinglePayment,
		"payment_amount":      paymentAmount,

		"is_valid":          boolOrDefault(rec["is_valid"], true),
		"is_human_approved": boolOrDefault(rec["is_human_approved"], false),
		"input_format":      rec["input_format"],
	}
}

func normalizeUserSave(rec RawRecord) RawRecord {
	return RawRecord{
		"document_title": rec["document_title"],

		"student_first_name": rec["student_first_name"],
		"student_last_name":  rec["student_last_name"],
		"student_nickname":   stringOrEmpty(rec["student_nickname"]),

		"parent_guardian_full_name":        rec["parent_guardian_full_name"],
		"parent_guardian_email":            rec["parent_guardian_email"],
		"second_parent_guardian_full_name": stringOrEmpty(rec["second_parent_guardian_full_name"]),
		"second_parent_guardian_email":     stringOrEmpty(rec["second_parent_guardian_email"]),

		"student_campus":        rec["student_campus"],
		"student_courses":       firstString(rec["courses"], rec["student_courses"]),
		"student_college_bound": stringOrEmpty(rec["student_college_bound"]),
		"current_grade":         rec["current_grade"],

		"services_list": filterServices(serviceEntries(rec)),

		"total_tuition":            rec["total_tuition"],
		"one_to_one_sessions":      rec["one_to_one_sessions"],
		"homework_studio_sessions": rec["homework_studio_sessions"],
		"scheduled_start_date":     rec["scheduled_start_date"],

		"s3_path":     rec["s3_path"],
		"document_id": rec["document_id"],

		"scholarship_type":    rec["scholarship_type"],
		"scholarship_payment": rec["scholarship_payment"],
		"is_single_payment":   boolOrDefault(rec["is_single_payment"], true),
		"payment_amount":      rec["payment_amount"],

		"is_valid":          boolOrDefault(rec["is_valid"], true),
		"is_human_approved": boolOrDefault(rec["is_human_approved"], false),
		"input_format":      rec["input_format"],
	}
}

// serviceEntries reads services under either accepted key.
func serviceEntries(rec RawRecord) []any {
	if list, ok := rec["services_list"].([]any); ok {
		return list
	}
	if list, ok := rec["services"].([]any); ok {
		return list
	}
	return nil
}

// filterServices drops entries with no meaningful content. A service counts as
// meaningful when any of its four fields carries a non-empty value; blank rows
// from partially filled tables are discarded, not errored.
func filterServices(entries []any) []any {
	kept := make([]any, 0, len(entries))
	for _, raw := range entries {
		service, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if serviceMeaningful(service) {
			kept = append(kept, service)
		}
	}
	return kept
}

func serviceMeaningful(service map[string]any) bool {
	for _, key := range []string{"service_name", "cost_per_unit", "units", "tuition"} {
		switch v := service[key].(type) {
		case nil:
			continue
		case string:
			if v != "" {
				return true
			}
		default:
			return true
		}
	}
	return false
}

func subMap(rec RawRecord, key string) map[string]any {
	if m, ok := rec[key].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func stringOrEmpty(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// firstString returns the first candidate holding a non-empty string.
func firstString(candidates ...any) string {
	for _, c := range candidates {
		if s, ok := c.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// firstValue returns the first non-nil, non-empty-string candidate.
func firstValue(candidates ...any) any {
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if s, ok := c.(string); ok && s == "" {
			continue
		}
		return c
	}
	return nil
}

func boolOrDefault(v any, fallback bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}

// asFloat converts JSON-decoded numerics to float64. Strings are not parsed
// here; soft numeric coercion is validation's job.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
