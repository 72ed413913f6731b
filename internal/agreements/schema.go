package agreements

// The schema registry declares, per document title, the nested field shapes
// the extraction backend is asked to fill. Shapes are purely declarative; the
// descriptions are the extraction prompts and the structure becomes the JSON
// Schema sent with each extraction step.

// FieldType enumerates the primitive and composite field kinds a shape can
// declare.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldNumber  FieldType = "number"
	FieldInteger FieldType = "integer"
	FieldBoolean FieldType = "boolean"
	FieldObject  FieldType = "object"
	FieldArray   FieldType = "array"
)

// FieldSpec declares one field of a shape. For object fields, Fields holds
// the members; for array fields, Fields holds the element shape.
type FieldSpec struct {
	Name        string
	Type        FieldType
	Description string
	Optional    bool
	Fields      []FieldSpec
}

// FieldShape is a named top-level schema handed to the extraction backend.
type FieldShape struct {
	Name   string
	Fields []FieldSpec
}

func studentFields() []FieldSpec {
	return []FieldSpec{
		{Name: "first_name", Type: FieldString, Description: "Student's first name"},
		{Name: "last_name", Type: FieldString, Description: "Student's last name"},
		{Name: "nickname", Type: FieldString, Description: "Student's nickname", Optional: true},
	}
}

func parentGuardianFields(label string) []FieldSpec {
	return []FieldSpec{
		{Name: "full_name", Type: FieldString, Description: "Full name of the " + label},
		{Name: "email", Type: FieldString, Description: "Email address of the " + label},
	}
}

func studentProgramFields() []FieldSpec {
	return []FieldSpec{
		{Name: "campus", Type: FieldString, Description: "Name of the campus"},
		{Name: "courses", Type: FieldString, Description: "List of courses", Optional: true},
		{Name: "college_bound", Type: FieldString, Description: "Student's college bound status", Optional: true},
		{Name: "current_grade", Type: FieldInteger, Description: "Ordinary number of the current grade"},
	}
}

func serviceFields() []FieldSpec {
	return []FieldSpec{
		{Name: "service_name", Type: FieldString, Description: "Name of the service"},
		{Name: "cost_per_unit", Type: FieldNumber, Description: "Cost per unit of the service"},
		{Name: "units", Type: FieldNumber, Description: "Number of units for the service"},
		{Name: "tuition", Type: FieldNumber, Description: "Total tuition for the service"},
	}
}

func tutoringServiceFields() []FieldSpec {
	return []FieldSpec{
		{Name: "service_name", Type: FieldString, Description: "Description of the program written in the box below the text 'The program will be designed to support the student in achieving the following'"},
		{Name: "cost_per_unit", Type: FieldNumber, Description: "Not printed on the document; divide tuition by units"},
		{Name: "units", Type: FieldNumber, Description: "Number of total sessions purchased"},
		{Name: "tuition", Type: FieldNumber, Description: "Dollars for total amount"},
	}
}

func singlePaymentFields() []FieldSpec {
	return []FieldSpec{
		{Name: "amount", Type: FieldNumber, Description: "Amount in dollars of single payment"},
		{Name: "due_date", Type: FieldString, Description: "Due date for the single payment (MM/DD/YY)"},
	}
}

func scholarshipPaymentFields() []FieldSpec {
	return []FieldSpec{
		{Name: "scholarship_type", Type: FieldString, Description: "Type of Step Up Scholarship to be applied"},
		{Name: "scholarship_payment", Type: FieldNumber, Description: "Amount in dollars of scholarship payment"},
	}
}

func paymentFields() []FieldSpec {
	return []FieldSpec{
		{Name: "scholarship_payment", Type: FieldObject, Description: "Scholarship data if exists", Optional: true, Fields: scholarshipPaymentFields()},
		{Name: "single_payment", Type: FieldObject, Description: "Single payment data if selected", Optional: true, Fields: singlePaymentFields()},
		{Name: "multiple_payment", Type: FieldArray, Description: "Multiple payment data if selected. Sometimes written as 'Quarterly Payment'", Optional: true, Fields: singlePaymentFields()},
	}
}

// tuitionFirstPageShape covers page one of the enrollment & tuition templates.
func tuitionFirstPageShape() FieldShape {
	return FieldShape{
		Name: "tuition_first_page",
		Fields: []FieldSpec{
			{Name: "document_title", Type: FieldString, Description: "Title of document"},
			{Name: "student", Type: FieldObject, Description: "Information about the student", Fields: studentFields()},
			{Name: "parent_guardian", Type: FieldObject, Description: "Information about the student's parent or guardian", Fields: parentGuardianFields("parent or guardian")},
			{Name: "second_parent_guardian", Type: FieldObject, Description: "Information about the student's second parent or guardian", Optional: true, Fields: parentGuardianFields("second parent or guardian")},
			{Name: "student_program", Type: FieldObject, Description: "Information about student program", Fields: studentProgramFields()},
			{Name: "services", Type: FieldArray, Description: "Services details for different services", Fields: serviceFields()},
			{Name: "total_tuition", Type: FieldNumber, Description: "Number in dollars of total tuition"},
			{Name: "one_to_one_sessions", Type: FieldInteger, Description: "Number of one to one sessions. Can be found below Services"},
			{Name: "homework_studio_sessions", Type: FieldInteger, Description: "Number of homework sessions. Write 0 if nothing is written. Can be found below Services"},
			{Name: "scheduled_start_date", Type: FieldString, Description: "Scheduled start date of the program (MM/DD/YY). Can be found in Program Schedule block"},
			{Name: "doc_id", Type: FieldString, Description: "Document ID"},
		},
	}
}

// tuitionSecondPageShape covers the payment block on page two.
func tuitionSecondPageShape() FieldShape {
	return FieldShape{
		Name: "tuition_second_page",
		Fields: []FieldSpec{
			{Name: "payment", Type: FieldObject, Description: "Payment selection for the agreement", Fields: paymentFields()},
		},
	}
}

func skillBuildingShape() FieldShape {
	return FieldShape{
		Name: "skill_building",
		Fields: []FieldSpec{
			{Name: "document_title", Type: FieldString, Description: "Title of document"},
			{Name: "student", Type: FieldObject, Description: "Information about the student", Fields: studentFields()},
			{Name: "parent_guardian", Type: FieldObject, Description: "Information about the student's parent or guardian", Fields: parentGuardianFields("parent or guardian")},
			{Name: "second_parent_guardian", Type: FieldObject, Description: "Information about the student's second parent or guardian", Optional: true, Fields: parentGuardianFields("second parent or guardian")},
			{Name: "student_program", Type: FieldObject, Description: "Information about student program", Fields: studentProgramFields()},
			{Name: "services", Type: FieldArray, Description: "Service details for different services", Fields: serviceFields()},
			{Name: "total_tuition", Type: FieldNumber, Description: "Number in dollars of total tuition"},
			{Name: "scheduled_start_date", Type: FieldString, Description: "Scheduled start date of the program (MM/DD/YY)"},
			{Name: "doc_id", Type: FieldString, Description: "Document ID"},
		},
	}
}

// tutoringShape is shared by the tutoring and recurring tutoring templates.
func tutoringShape() FieldShape {
	return FieldShape{
		Name: "tutoring",
		Fields: []FieldSpec{
			{Name: "document_title", Type: FieldString, Description: "Title of document"},
			{Name: "student", Type: FieldObject, Description: "Information about the student", Fields: studentFields()},
			{Name: "parent_guardian", Type: FieldObject, Description: "Information about the student's parent or guardian", Fields: parentGuardianFields("parent or guardian")},
			{Name: "second_parent_guardian", Type: FieldObject, Description: "Information about the student's second parent or guardian", Optional: true, Fields: parentGuardianFields("second parent or guardian")},
			{Name: "student_program", Type: FieldObject, Description: "Information about student program", Fields: studentProgramFields()},
			{Name: "services", Type: FieldObject, Description: "Information about service", Fields: tutoringServiceFields()},
			{Name: "automatic_renewal_authorization", Type: FieldBoolean, Description: "Indicates whether the parent/guardian authorizes automatic renewal of charges"},
			{Name: "scheduled_start_date", Type: FieldString, Description: "Scheduled start date of the program (MM/DD/YY)"},
			{Name: "doc_id", Type: FieldString, Description: "Document ID"},
		},
	}
}

func additionalSessionsShape() FieldShape {
	return FieldShape{
		Name: "additional_sessions",
		Fields: []FieldSpec{
			{Name: "document_title", Type: FieldString, Description: "Title of document"},
			{Name: "student", Type: FieldObject, Description: "Information about the student", Fields: studentFields()},
			{Name: "parent_guardian", Type: FieldObject, Description: "Information about the student's parent or guardian", Fields: parentGuardianFields("parent or guardian")},
			{Name: "second_parent_guardian", Type: FieldObject, Description: "Information about the student's second parent or guardian", Optional: true, Fields: parentGuardianFields("second parent or guardian")},
			{Name: "student_program", Type: FieldObject, Description: "Information about student program", Fields: studentProgramFields()},
			{Name: "services", Type: FieldObject, Description: "Details of the purchased service", Fields: serviceFields()},
			{Name: "payment", Type: FieldObject, Description: "Information about payment", Fields: singlePaymentFields()},
			{Name: "doc_id", Type: FieldString, Description: "Document ID"},
		},
	}
}

var schemasByTitle = map[DocumentTitle][]FieldShape{
	TitleEnrollmentTuition:    {tuitionFirstPageShape(), tuitionSecondPageShape()},
	TitleESAEnrollmentTuition: {tuitionFirstPageShape(), tuitionSecondPageShape()},
	TitleSkillBuilding:        {skillBuildingShape()},
	TitleTutoring:             {tutoringShape()},
	TitleRecurringTutoring:    {tutoringShape()},
	TitleAdditionalSessions:   {additionalSessionsShape()},
}

// SchemaFor returns the field shapes registered for a document title, in plan
// order.
func SchemaFor(title DocumentTitle) ([]FieldShape, error) {
	shapes, ok := schemasByTitle[title]
	if !ok {
		return nil, ErrUnknownDocumentTitle
	}
	return shapes, nil
}

// JSONSchema renders the shape as a JSON Schema document for the extraction
// backend.
func (s FieldShape) JSONSchema() map[string]any {
	return objectSchema(s.Fields)
}

func objectSchema(fields []FieldSpec) map[string]any {
	properties := make(map[string]any, len(fields))
	required := make([]string, 0, len(fields))
	for _, f := range fields {
		properties[f.Name] = f.schema()
		if !f.Optional {
			required = append(required, f.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func (f FieldSpec) schema() map[string]any {
	var schema map[string]any
	switch f.Type {
	case FieldObject:
		schema = objectSchema(f.Fields)
	case FieldArray:
		schema = map[string]any{
			"type":  "array",
			"items": objectSchema(f.Fields),
		}
	default:
		schema = map[string]any{"type": string(f.Type)}
	}
	if f.Description != "" {
		schema["description"] = f.Description
	}
	return schema
}
