package agreements

import "fmt"

// ExtractionStep binds one field shape to the page range it is extracted
// from. Page ranges are inclusive and 1-based ("1-1", "2-2").
type ExtractionStep struct {
	Shape     FieldShape
	PageRange string
}

var plansByTitle = map[DocumentTitle][]ExtractionStep{
	TitleEnrollmentTuition: {
		{Shape: tuitionFirstPageShape(), PageRange: "1-1"},
		{Shape: tuitionSecondPageShape(), PageRange: "2-2"},
	},
	TitleESAEnrollmentTuition: {
		{Shape: tuitionFirstPageShape(), PageRange: "1-1"},
		{Shape: tuitionSecondPageShape(), PageRange: "2-2"},
	},
	TitleSkillBuilding: {
		{Shape: skillBuildingShape(), PageRange: "1-1"},
	},
	TitleTutoring: {
		{Shape: tutoringShape(), PageRange: "1-1"},
	},
	TitleRecurringTutoring: {
		{Shape: tutoringShape(), PageRange: "1-1"},
	},
	TitleAdditionalSessions: {
		{Shape: additionalSessionsShape(), PageRange: "1-1"},
	},
}

// PostProcessor reshapes a merged raw record into the canonical nested form
// before normalization. Post-processors must be idempotent: running one twice
// over the same record leaves it unchanged.
type PostProcessor func(RawRecord) RawRecord

var postProcessorsByTitle = map[DocumentTitle]PostProcessor{
	TitleSkillBuilding:      postSkillBuilding,
	TitleTutoring:           postTutoring,
	TitleRecurringTutoring:  postTutoring,
	TitleAdditionalSessions: postAdditionalSessions,
}

func init() {
	// A title registered without a plan or schema would only surface on the
	// first document of that kind in production. Fail at startup instead.
	for _, title := range AllTitles {
		if _, ok := plansByTitle[title]; !ok {
			panic(fmt.Sprintf("agreements: no extraction plan registered for %q", title))
		}
		if _, ok := schemasByTitle[title]; !ok {
			panic(fmt.Sprintf("agreements: no schema registered for %q", title))
		}
	}
	for title := range postProcessorsByTitle {
		if _, ok := plansByTitle[title]; !ok {
			panic(fmt.Sprintf("agreements: post-processor registered for unknown title %q", title))
		}
	}
}

// PlanFor returns the ordered extraction steps for a document title.
func PlanFor(title DocumentTitle) ([]ExtractionStep, error) {
	plan, ok := plansByTitle[title]
	if !ok {
		return nil, ErrUnknownDocumentTitle
	}
	return plan, nil
}

// PostProcessorFor returns the post-processor for a title, or nil when the
// title's extracted shape is already canonical.
func PostProcessorFor(title DocumentTitle) PostProcessor {
	return postProcessorsByTitle[title]
}
