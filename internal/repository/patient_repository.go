package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/hospital-management/internal/database"
)

// Patient mirrors the 'patients' table.
type Patient struct {
	ID                 uint64         `json:"id"`
	UserID             sql.NullInt64  `json:"user_id"`
	FullName           string         `json:"full_name"`
	DateOfBirth        string         `json:"date_of_birth"`
	ContactNumber      string         `json:"contact_number"`
	EmergencyContact   string         `json:"emergency_contact"`
	BloodGroup         string         `json:"blood_group"`
	Allergies          sql.NullString `json:"allergies"`
	CurrentMedications sql.NullString `json:"current_medications"`
	CreatedAt          time.Time      `json:"created_at"`
}

// PatientInput carries the writable patient fields.
type PatientInput struct {
	UserID             *uint64 `json:"user_id"`
	FullName           string  `json:"full_name"`
	DateOfBirth        string  `json:"date_of_birth"`
	ContactNumber      string  `json:"contact_number"`
	EmergencyContact   string  `json:"emergency_contact"`
	BloodGroup         string  `json:"blood_group"`
	Allergies          string  `json:"allergies"`
	CurrentMedications string  `json:"current_medications"`
}

// Allergy mirrors 'patient_allergies'.
type Allergy struct {
	PatientID     uint64 `json:"patient_id"`
	AllergyName   string `json:"allergy_name"`
	Severity      string `json:"severity"`
	DiagnosedDate string `json:"diagnosed_date"`
	Notes         string `json:"notes"`
}

// MedicalHistory mirrors 'patient_medical_history'.
type MedicalHistory struct {
	PatientID     uint64 `json:"patient_id"`
	Condition     string `json:"condition"`
	DiagnosedDate string `json:"diagnosed_date"`
	Treatment     string `json:"treatment"`
	Notes         string `json:"notes"`
}

// VisitInput carries the writable fields of a recorded visit.
type VisitInput struct {
	DoctorID     uint64 `json:"doctor_id"`
	Symptoms     string `json:"symptoms"`
	Diagnosis    string `json:"diagnosis"`
	Prescription string `json:"prescription"`
	Notes        string `json:"notes"`
}

// Visit is a past or upcoming appointment seen from the patient's side.
type Visit struct {
	ID              uint64         `json:"id"`
	AppointmentDate time.Time      `json:"appointment_date"`
	Status          string         `json:"status"`
	Purpose         sql.NullString `json:"purpose"`
	DoctorName      string         `json:"doctor_name"`
	Specialization  sql.NullString `json:"specialization"`
}

type PatientRepo struct{ gw *database.Gateway }

func NewPatientRepo(gw *database.Gateway) *PatientRepo { return &PatientRepo{gw: gw} }

const patientCols = "id, user_id, full_name, date_of_birth, contact_number, emergency_contact, blood_group, allergies, current_medications, created_at"

// List returns all patients, optionally filtered by a name/contact search
// term. The filter is appended as a bound parameter, never spliced into the
// statement text.
func (r *PatientRepo) List(ctx context.Context, search string) ([]Patient, error) {
	query := "SELECT " + patientCols + " FROM patients"
	args := []any{}
	if search != "" {
		query += " WHERE LOWER(full_name) LIKE ? OR contact_number LIKE ?"
		term := "%" + search + "%"
		args = append(args, term, term)
	}
	query += " ORDER BY id"

	out := []Patient{}
	err := r.gw.All(ctx, query, args, func(rows *sql.Rows) error {
		var p Patient
		if err := rows.Scan(&p.ID, &p.UserID, &p.FullName, &p.DateOfBirth, &p.ContactNumber,
			&p.EmergencyContact, &p.BloodGroup, &p.Allergies, &p.CurrentMedications, &p.CreatedAt); err != nil {
			return err
		}
		out = append(out, p)
		return nil
	})
	return out, err
}

// GetByID fetches one patient.
func (r *PatientRepo) GetByID(ctx context.Context, id uint64) (Patient, error) {
	var p Patient
	err := r.gw.One(ctx,
		"SELECT "+patientCols+" FROM patients WHERE id=? LIMIT 1",
		[]any{id},
		&p.ID, &p.UserID, &p.FullName, &p.DateOfBirth, &p.ContactNumber,
		&p.EmergencyContact, &p.BloodGroup, &p.Allergies, &p.CurrentMedications, &p.CreatedAt)
	return p, err
}

// Create inserts a patient and returns its ID.
func (r *PatientRepo) Create(ctx context.Context, in PatientInput) (uint64, error) {
	res, err := r.gw.Exec(ctx,
		`INSERT INTO patients
		 (user_id, full_name, date_of_birth, contact_number, emergency_contact, blood_group, allergies, current_medications, created_at)
		 VALUES (?,?,?,?,?,?,?,?,NOW())`,
		in.UserID, in.FullName, in.DateOfBirth, in.ContactNumber,
		in.EmergencyContact, in.BloodGroup, in.Allergies, in.CurrentMedications)
	if err != nil {
		return 0, err
	}
	return uint64(res.LastInsertID), nil
}

// Update rewrites the writable fields of a patient.
func (r *PatientRepo) Update(ctx context.Context, id uint64, in PatientInput) (bool, error) {
	res, err := r.gw.Exec(ctx,
		`UPDATE patients SET
		 full_name=?, date_of_birth=?, contact_number=?, emergency_contact=?,
		 blood_group=?, allergies=?, current_medications=?
		 WHERE id=?`,
		in.FullName, in.DateOfBirth, in.ContactNumber, in.EmergencyContact,
		in.BloodGroup, in.Allergies, in.CurrentMedications, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected > 0, nil
}

// AddAllergy records an allergy for a patient.
func (r *PatientRepo) AddAllergy(ctx context.Context, a Allergy) (uint64, error) {
	res, err := r.gw.Exec(ctx,
		"INSERT INTO patient_allergies (patient_id, allergy_name, severity, diagnosed_date, notes) VALUES (?,?,?,?,?)",
		a.PatientID, a.AllergyName, a.Severity, a.DiagnosedDate, a.Notes)
	if err != nil {
		return 0, err
	}
	return uint64(res.LastInsertID), nil
}

// AddMedicalHistory records a diagnosed condition for a patient.
func (r *PatientRepo) AddMedicalHistory(ctx context.Context, m MedicalHistory) (uint64, error) {
	res, err := r.gw.Exec(ctx,
		"INSERT INTO patient_medical_history (patient_id, medical_condition, diagnosed_date, treatment, notes) VALUES (?,?,?,?,?)",
		m.PatientID, m.Condition, m.DiagnosedDate, m.Treatment, m.Notes)
	if err != nil {
		return 0, err
	}
	return uint64(res.LastInsertID), nil
}

// RecordVisit stores a clinical visit record for a patient, stamped with
// the current time.
func (r *PatientRepo) RecordVisit(ctx context.Context, patientID uint64, in VisitInput) (uint64, error) {
	res, err := r.gw.Exec(ctx,
		`INSERT INTO patient_visits
		 (patient_id, doctor_id, visit_date, symptoms, diagnosis, prescription, notes)
		 VALUES (?,?,NOW(),?,?,?,?)`,
		patientID, in.DoctorID, in.Symptoms, in.Diagnosis, in.Prescription, in.Notes)
	if err != nil {
		return 0, err
	}
	return uint64(res.LastInsertID), nil
}

// Visits lists a patient's appointments joined with the treating doctor.
func (r *PatientRepo) Visits(ctx context.Context, patientID uint64) ([]Visit, error) {
	out := []Visit{}
	err := r.gw.All(ctx,
		`SELECT a.id, a.appointment_date, a.status, a.purpose, s.full_name, s.specialization
		 FROM appointments a
		 JOIN staff s ON a.doctor_id = s.user_id
		 WHERE a.patient_id = ?
		 ORDER BY a.appointment_date DESC`,
		[]any{patientID},
		func(rows *sql.Rows) error {
			var v Visit
			if err := rows.Scan(&v.ID, &v.AppointmentDate, &v.Status, &v.Purpose, &v.DoctorName, &v.Specialization); err != nil {
				return err
			}
			out = append(out, v)
			return nil
		})
	return out, err
}
