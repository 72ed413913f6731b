package agreements

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// PGRepo implements AgreementsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const upsertAgreementSQL = `
INSERT INTO agreements (
    s3_path,
    document_title,
    student_first_name,
    student_last_name,
    student_nickname,
    parent_guardian_full_name,
    parent_guardian_email,
    second_parent_guardian_full_name,
    second_parent_guardian_email,
    student_courses,
    student_campus,
    student_college_bound,
    current_grade,
    total_tuition,
    one_to_one_sessions,
    homework_studio_sessions,
    scheduled_start_date,
    scholarship_type,
    scholarship_payment,
    is_single_payment,
    payment_amount,
    is_human_approved,
    is_valid,
    document_id
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
ON CONFLICT (s3_path)
DO UPDATE SET
    document_title = EXCLUDED.document_title,
    student_first_name = EXCLUDED.student_first_name,
    student_last_name = EXCLUDED.student_last_name,
    student_nickname = EXCLUDED.student_nickname,
    parent_guardian_full_name = EXCLUDED.parent_guardian_full_name,
    parent_guardian_email = EXCLUDED.parent_guardian_email,
    second_parent_guardian_full_name = EXCLUDED.second_parent_guardian_full_name,
    second_parent_guardian_email = EXCLUDED.second_parent_guardian_email,
    student_courses = EXCLUDED.student_courses,
    student_campus = EXCLUDED.student_campus,
    student_college_bound = EXCLUDED.student_college_bound,
    current_grade = EXCLUDED.current_grade,
    total_tuition = EXCLUDED.total_tuition,
    one_to_one_sessions = EXCLUDED.one_to_one_sessions,
    homework_studio_sessions = EXCLUDED.homework_studio_sessions,
    scheduled_start_date = EXCLUDED.scheduled_start_date,
    scholarship_type = EXCLUDED.scholarship_type,
    scholarship_payment = EXCLUDED.scholarship_payment,
    is_single_payment = EXCLUDED.is_single_payment,
    payment_amount = EXCLUDED.payment_amount,
    is_human_approved = %APPROVED%,
    is_valid = EXCLUDED.is_valid,
    document_id = EXCLUDED.document_id,
    updated_at = now()
RETURNING id`

const insertServiceSQL = `
INSERT INTO agreement_services (
    service_name,
    cost_per_unit,
    units,
    tuition
) VALUES ($1, $2, $3, $4)
RETURNING id`

const deleteLinksSQL = `
DELETE FROM agreements_service_agreements
WHERE agreement_id = $1`

const insertLinkSQL = `
INSERT INTO agreements_service_agreements (agreement_id, agreement_service_id)
VALUES ($1, $2)`

// Upsert writes the record by s3_path, replacing its service lines.
func (r *PGRepo) Upsert(ctx context.Context, rec AgreementRecord) (int64, error) {
	return r.upsert(ctx, rec, "EXCLUDED.is_human_approved")
}

// UpsertReviewed writes the record and forces the approved flag on update.
func (r *PGRepo) UpsertReviewed(ctx context.Context, rec AgreementRecord) (int64, error) {
	return r.upsert(ctx, rec, "TRUE")
}

func (r *PGRepo) upsert(ctx context.Context, rec AgreementRecord, approvedExpr string) (int64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := replaceApproved(upsertAgreementSQL, approvedExpr)
	var agreementID int64
	err = tx.QueryRowContext(
		ctx,
		query,
		rec.S3Path,
		rec.DocumentTitle,
		rec.StudentFirstName,
		rec.StudentLastName,
		rec.StudentNickname,
		rec.ParentGuardianFullName,
		rec.ParentGuardianEmail,
		rec.SecondParentGuardianFullName,
		rec.SecondParentGuardianEmail,
		rec.StudentCourses,
		rec.StudentCampus,
		rec.StudentCollegeBound,
		rec.CurrentGrade,
		rec.TotalTuition,
		rec.OneToOneSessions,
		rec.HomeworkStudioSessions,
		rec.ScheduledStartDate,
		rec.ScholarshipType,
		rec.ScholarshipPayment,
		rec.IsSinglePayment,
		rec.PaymentAmount,
		rec.IsHumanApproved,
		rec.IsValid,
		rec.DocumentID,
	).Scan(&agreementID)
	if err != nil {
		return 0, err
	}

	// Service lines are replaced wholesale so the stored set always matches
	// the latest record.
	if _, err := tx.ExecContext(ctx, deleteLinksSQL, agreementID); err != nil {
		return 0, err
	}
	for _, line := range rec.ServicesList {
		var serviceID int64
		err := tx.QueryRowContext(
			ctx,
			insertServiceSQL,
			line.ServiceName,
			line.CostPerUnit,
			line.Units,
			line.Tuition,
		).Scan(&serviceID)
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, insertLinkSQL, agreementID, serviceID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return agreementID, nil
}

func replaceApproved(query, expr string) string {
	return strings.Replace(query, "%APPROVED%", expr, 1)
}

// GetByPath returns the agreement and its service lines for an s3_path.
func (r *PGRepo) GetByPath(ctx context.Context, s3Path string) (AgreementRecord, error) {
	const query = `
SELECT
    id,
    s3_path,
    document_title,
    student_first_name,
    student_last_name,
    student_nickname,
    parent_guardian_full_name,
    parent_guardian_email,
    second_parent_guardian_full_name,
    second_parent_guardian_email,
    student_courses,
    student_campus,
    student_college_bound,
    current_grade,
    total_tuition,
    one_to_one_sessions,
    homework_studio_sessions,
    scheduled_start_date,
    scholarship_type,
    scholarship_payment,
    is_single_payment,
    payment_amount,
    is_human_approved,
    is_valid,
    document_id
FROM agreements
WHERE s3_path = $1
LIMIT 1`

	var rec AgreementRecord
	var id int64
	var nickname, secondName, secondEmail, courses, collegeBound sql.NullString
	var startDate, scholarshipType, documentID sql.NullString
	var totalTuition, scholarshipPayment, paymentAmount sql.NullFloat64
	var oneToOne, homework sql.NullInt64

	err := r.DB.QueryRowContext(ctx, query, s3Path).Scan(
		&id,
		&rec.S3Path,
		&rec.DocumentTitle,
		&rec.StudentFirstName,
		&rec.StudentLastName,
		&nickname,
		&rec.ParentGuardianFullName,
		&rec.ParentGuardianEmail,
		&secondName,
		&secondEmail,
		&courses,
		&rec.StudentCampus,
		&collegeBound,
		&rec.CurrentGrade,
		&totalTuition,
		&oneToOne,
		&homework,
		&startDate,
		&scholarshipType,
		&scholarshipPayment,
		&rec.IsSinglePayment,
		&paymentAmount,
		&rec.IsHumanApproved,
		&rec.IsValid,
		&documentID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AgreementRecord{}, ErrNotFound
		}
		return AgreementRecord{}, err
	}

	rec.StudentNickname = nullString(nickname)
	rec.SecondParentGuardianFullName = nullString(secondName)
	rec.SecondParentGuardianEmail = nullString(secondEmail)
	rec.StudentCourses = nullString(courses)
	rec.StudentCollegeBound = nullString(collegeBound)
	rec.ScheduledStartDate = nullString(startDate)
	rec.ScholarshipType = nullString(scholarshipType)
	rec.DocumentID = nullString(documentID)
	rec.TotalTuition = nullFloat(totalTuition)
	rec.ScholarshipPayment = nullFloat(scholarshipPayment)
	rec.PaymentAmount = nullFloat(paymentAmount)
	rec.OneToOneSessions = nullInt(oneToOne)
	rec.HomeworkStudioSessions = nullInt(homework)

	rec.ServicesList, err = r.servicesFor(ctx, id)
	if err != nil {
		return AgreementRecord{}, err
	}
	return rec, nil
}

func (r *PGRepo) servicesFor(ctx context.Context, agreementID int64) ([]ServiceLine, error) {
	const query = `
SELECT s.service_name, s.cost_per_unit, s.units, s.tuition
FROM agreement_services s
JOIN agreements_service_agreements asa ON asa.agreement_service_id = s.id
WHERE asa.agreement_id = $1
ORDER BY s.id`

	rows, err := r.DB.QueryContext(ctx, query, agreementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ServiceLine
	for rows.Next() {
		var line ServiceLine
		if err := rows.Scan(&line.ServiceName, &line.CostPerUnit, &line.Units, &line.Tuition); err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

// ListPaths returns every stored s3_path, newest first.
func (r *PGRepo) ListPaths(ctx context.Context) ([]string, error) {
	const query = `
SELECT s3_path
FROM agreements
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		out = append(out, path)
	}
	return out, rows.Err()
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

var _ AgreementsRepo = (*PGRepo)(nil)
