package agreements

import "strings"

// DocumentTitle identifies the legal agreement template. It is read from the
// first non-empty line of a document's first page and drives schema lookup,
// plan lookup, and post-processing dispatch.
type DocumentTitle string

const (
	TitleEnrollmentTuition    DocumentTitle = "Enrollment & Tuition Agreement"
	TitleESAEnrollmentTuition DocumentTitle = "ESA Enrollment & Tuition Agreement"
	TitleSkillBuilding        DocumentTitle = "Skill Building Agreement"
	TitleTutoring             DocumentTitle = "Tutoring Agreement"
	TitleRecurringTutoring    DocumentTitle = "Recurring Tutoring Agreement"
	TitleAdditionalSessions   DocumentTitle = "Additional Sessions Agreement"
)

// AllTitles lists every registered document title. Catalog completeness is
// checked against this list at package init.
var AllTitles = []DocumentTitle{
	TitleEnrollmentTuition,
	TitleESAEnrollmentTuition,
	TitleSkillBuilding,
	TitleTutoring,
	TitleRecurringTutoring,
	TitleAdditionalSessions,
}

// String returns the title text as printed on the document.
func (t DocumentTitle) String() string { return string(t) }

// ParseTitle maps raw title text to a DocumentTitle.
func ParseTitle(raw string) (DocumentTitle, error) {
	trimmed := strings.TrimSpace(raw)
	for _, title := range AllTitles {
		if trimmed == string(title) {
			return title, nil
		}
	}
	return "", ErrUnknownDocumentTitle
}

// DetectTitle finds the first non-empty line of the first-page text and
// resolves it to a DocumentTitle.
func DetectTitle(firstPageText string) (DocumentTitle, error) {
	for _, line := range strings.Split(firstPageText, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return ParseTitle(trimmed)
		}
	}
	return "", ErrTitleDetectionFailed
}
