package agreements

// Post-processors lift single-service templates into the canonical nested
// shape the tuition templates produce natively: a payment object with the
// three payment kinds, and services as a list. Each checks the record's
// current shape first so re-running over already-canonical data is a no-op.

// canonicalPayment wraps a single payment into the full payment selection
// object.
func canonicalPayment(singlePayment any) map[string]any {
	return map[string]any{
		"scholarship_payment": nil,
		"multiple_payment":    nil,
		"single_payment":      singlePayment,
	}
}

// isCanonicalPayment reports whether the value already carries the three
// payment kind keys.
func isCanonicalPayment(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	_, hasSingle := m["single_payment"]
	_, hasMultiple := m["multiple_payment"]
	_, hasScholarship := m["scholarship_payment"]
	return hasSingle && hasMultiple && hasScholarship
}

func postSkillBuilding(rec RawRecord) RawRecord {
	if isCanonicalPayment(rec["payment"]) {
		return rec
	}
	rec["payment"] = canonicalPayment(map[string]any{
		"amount": rec["total_tuition"],
	})
	return rec
}

func postTutoring(rec RawRecord) RawRecord {
	service, ok := rec["services"].(map[string]any)
	if !ok {
		// Services already listified; nothing left to derive.
		return rec
	}
	rec["payment"] = canonicalPayment(map[string]any{
		"amount": service["tuition"],
	})
	rec["one_to_one_sessions"] = service["units"]
	rec["services"] = []any{service}
	return rec
}

func postAdditionalSessions(rec RawRecord) RawRecord {
	if !isCanonicalPayment(rec["payment"]) {
		rec["payment"] = canonicalPayment(rec["payment"])
	}
	if service, ok := rec["services"].(map[string]any); ok {
		rec["services"] = []any{service}
	}
	return rec
}
