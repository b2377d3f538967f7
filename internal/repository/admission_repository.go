package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/hospital-management/internal/database"
)

// Admission mirrors the 'admissions' table joined with the patient.
type Admission struct {
	ID                    uint64         `json:"id"`
	PatientID             uint64         `json:"patient_id"`
	BedNumber             string         `json:"bed_number"`
	AdmissionDate         time.Time      `json:"admission_date"`
	ExpectedDischargeDate sql.NullTime   `json:"expected_discharge_date"`
	ActualDischargeDate   sql.NullTime   `json:"actual_discharge_date"`
	Status                string         `json:"status"`
	Notes                 sql.NullString `json:"notes"`
	DischargeSummary      sql.NullString `json:"discharge_summary"`
	PatientName           string         `json:"patient_name"`
	ContactNumber         string         `json:"contact_number"`
}

// AdmissionInput carries the writable admission fields. Status is always
// ADMITTED on creation.
type AdmissionInput struct {
	PatientID             uint64 `json:"patient_id"`
	BedNumber             string `json:"bed_number"`
	AdmissionDate         string `json:"admission_date"`
	ExpectedDischargeDate string `json:"expected_discharge_date"`
	Notes                 string `json:"notes"`
}

// Bed is a row of the 'beds' table.
type Bed struct {
	BedNumber string `json:"bed_number"`
	Status    string `json:"status"`
}

type AdmissionRepo struct{ gw *database.Gateway }

func NewAdmissionRepo(gw *database.Gateway) *AdmissionRepo { return &AdmissionRepo{gw: gw} }

const admissionCols = `a.id, a.patient_id, a.bed_number, a.admission_date, a.expected_discharge_date,
	a.actual_discharge_date, a.status, a.notes, a.discharge_summary, p.full_name, p.contact_number`

// List returns admissions newest first, optionally filtered by status.
func (r *AdmissionRepo) List(ctx context.Context, status string) ([]Admission, error) {
	query := `SELECT ` + admissionCols + `
		FROM admissions a
		JOIN patients p ON a.patient_id = p.id`
	args := []any{}
	if status != "" {
		query += " WHERE a.status = ?"
		args = append(args, status)
	}
	query += " ORDER BY a.admission_date DESC"

	out := []Admission{}
	err := r.gw.All(ctx, query, args, func(rows *sql.Rows) error {
		var a Admission
		if err := rows.Scan(&a.ID, &a.PatientID, &a.BedNumber, &a.AdmissionDate, &a.ExpectedDischargeDate,
			&a.ActualDischargeDate, &a.Status, &a.Notes, &a.DischargeSummary, &a.PatientName, &a.ContactNumber); err != nil {
			return err
		}
		out = append(out, a)
		return nil
	})
	return out, err
}

// GetByID fetches one admission.
func (r *AdmissionRepo) GetByID(ctx context.Context, id uint64) (Admission, error) {
	var a Admission
	err := r.gw.One(ctx,
		`SELECT `+admissionCols+`
		 FROM admissions a
		 JOIN patients p ON a.patient_id = p.id
		 WHERE a.id=? LIMIT 1`,
		[]any{id},
		&a.ID, &a.PatientID, &a.BedNumber, &a.AdmissionDate, &a.ExpectedDischargeDate,
		&a.ActualDischargeDate, &a.Status, &a.Notes, &a.DischargeSummary, &a.PatientName, &a.ContactNumber)
	return a, err
}

// Create admits a patient into a bed and marks the bed occupied in one
// transaction. A failed bed update rolls the admission back too, so an
// admitted patient can never point at a bed still marked AVAILABLE.
func (r *AdmissionRepo) Create(ctx context.Context, in AdmissionInput) (uint64, error) {
	results, err := r.gw.ExecBatch(ctx, []database.Statement{
		{
			Query: `INSERT INTO admissions
				(patient_id, bed_number, admission_date, expected_discharge_date, status, notes)
				VALUES (?,?,?,?,'ADMITTED',?)`,
			Args: []any{in.PatientID, in.BedNumber, in.AdmissionDate, in.ExpectedDischargeDate, in.Notes},
		},
		{
			Query: "UPDATE beds SET status='OCCUPIED' WHERE bed_number=?",
			Args:  []any{in.BedNumber},
		},
	})
	if err != nil {
		return 0, err
	}
	return uint64(results[0].LastInsertID), nil
}

// Discharge updates an admission's status; when the new status is
// DISCHARGED the actual discharge date is stamped and, in the same batch,
// the bed is released.
func (r *AdmissionRepo) Discharge(ctx context.Context, id uint64, status, summary string) (bool, error) {
	var bed string
	err := r.gw.One(ctx, "SELECT bed_number FROM admissions WHERE id=? LIMIT 1", []any{id}, &bed)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	stmts := []database.Statement{{
		Query: `UPDATE admissions SET
			status=?,
			actual_discharge_date = CASE WHEN ? = 'DISCHARGED' THEN NOW() ELSE actual_discharge_date END,
			discharge_summary=?,
			updated_at=NOW()
			WHERE id=?`,
		Args: []any{status, status, summary, id},
	}}
	if status == "DISCHARGED" {
		stmts = append(stmts, database.Statement{
			Query: "UPDATE beds SET status='AVAILABLE' WHERE bed_number=?",
			Args:  []any{bed},
		})
	}
	if _, err := r.gw.ExecBatch(ctx, stmts); err != nil {
		return false, err
	}
	return true, nil
}

// AvailableBeds lists free beds in bed-number order.
func (r *AdmissionRepo) AvailableBeds(ctx context.Context) ([]Bed, error) {
	out := []Bed{}
	err := r.gw.All(ctx,
		"SELECT bed_number, status FROM beds WHERE status='AVAILABLE' ORDER BY bed_number",
		nil,
		func(rows *sql.Rows) error {
			var b Bed
			if err := rows.Scan(&b.BedNumber, &b.Status); err != nil {
				return err
			}
			out = append(out, b)
			return nil
		})
	return out, err
}
