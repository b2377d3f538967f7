package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/hospital-management/internal/database"
)

// Appointment mirrors the 'appointments' table joined with patient and
// doctor names.
type Appointment struct {
	ID              uint64         `json:"id"`
	PatientID       uint64         `json:"patient_id"`
	DoctorID        uint64         `json:"doctor_id"`
	AppointmentDate time.Time      `json:"appointment_date"`
	Status          string         `json:"status"`
	Purpose         sql.NullString `json:"purpose"`
	Notes           sql.NullString `json:"notes"`
	PatientName     string         `json:"patient_name"`
	DoctorName      string         `json:"doctor_name"`
}

// AppointmentInput carries the writable appointment fields.
type AppointmentInput struct {
	PatientID       uint64 `json:"patient_id"`
	DoctorID        uint64 `json:"doctor_id"`
	AppointmentDate string `json:"appointment_date"`
	Status          string `json:"status"`
	Purpose         string `json:"purpose"`
	Notes           string `json:"notes"`
}

type AppointmentRepo struct{ gw *database.Gateway }

func NewAppointmentRepo(gw *database.Gateway) *AppointmentRepo { return &AppointmentRepo{gw: gw} }

const appointmentCols = `a.id, a.patient_id, a.doctor_id, a.appointment_date, a.status, a.purpose, a.notes,
	p.full_name, s.full_name`

// List returns appointments newest first. Optional filters: status, and an
// inclusive date range when both bounds are given.
func (r *AppointmentRepo) List(ctx context.Context, status, startDate, endDate string) ([]Appointment, error) {
	query := `SELECT ` + appointmentCols + `
		FROM appointments a
		JOIN patients p ON a.patient_id = p.id
		JOIN staff s ON a.doctor_id = s.user_id`
	where := []string{}
	args := []any{}
	if status != "" {
		where = append(where, "a.status = ?")
		args = append(args, status)
	}
	if startDate != "" && endDate != "" {
		where = append(where, "a.appointment_date BETWEEN ? AND ?")
		args = append(args, startDate, endDate)
	}
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY a.appointment_date DESC"

	out := []Appointment{}
	err := r.gw.All(ctx, query, args, func(rows *sql.Rows) error {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.AppointmentDate,
			&a.Status, &a.Purpose, &a.Notes, &a.PatientName, &a.DoctorName); err != nil {
			return err
		}
		out = append(out, a)
		return nil
	})
	return out, err
}

// GetByID fetches one appointment.
func (r *AppointmentRepo) GetByID(ctx context.Context, id uint64) (Appointment, error) {
	var a Appointment
	err := r.gw.One(ctx,
		`SELECT `+appointmentCols+`
		 FROM appointments a
		 JOIN patients p ON a.patient_id = p.id
		 JOIN staff s ON a.doctor_id = s.user_id
		 WHERE a.id=? LIMIT 1`,
		[]any{id},
		&a.ID, &a.PatientID, &a.DoctorID, &a.AppointmentDate,
		&a.Status, &a.Purpose, &a.Notes, &a.PatientName, &a.DoctorName)
	return a, err
}

// Create inserts an appointment and returns its ID. A missing patient or
// doctor surfaces as a foreign-key Database error from the gateway.
func (r *AppointmentRepo) Create(ctx context.Context, in AppointmentInput) (uint64, error) {
	res, err := r.gw.Exec(ctx,
		"INSERT INTO appointments (patient_id, doctor_id, appointment_date, status, purpose, notes) VALUES (?,?,?,?,?,?)",
		in.PatientID, in.DoctorID, in.AppointmentDate, in.Status, in.Purpose, in.Notes)
	if err != nil {
		return 0, err
	}
	return uint64(res.LastInsertID), nil
}

// UpdateStatus sets the appointment status and, when notes is non-empty,
// replaces the notes.
func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id uint64, status, notes string) (bool, error) {
	res, err := r.gw.Exec(ctx,
		"UPDATE appointments SET status=?, notes=COALESCE(NULLIF(?, ''), notes) WHERE id=?",
		status, notes, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected > 0, nil
}

// ForDoctor lists a doctor's appointments from today onward.
func (r *AppointmentRepo) ForDoctor(ctx context.Context, doctorID uint64) ([]Appointment, error) {
	out := []Appointment{}
	err := r.gw.All(ctx,
		`SELECT a.id, a.patient_id, a.doctor_id, a.appointment_date, a.status, a.purpose, a.notes, p.full_name
		 FROM appointments a
		 JOIN patients p ON a.patient_id = p.id
		 WHERE a.doctor_id = ? AND a.appointment_date >= CURDATE()
		 ORDER BY a.appointment_date`,
		[]any{doctorID},
		func(rows *sql.Rows) error {
			var a Appointment
			if err := rows.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.AppointmentDate,
				&a.Status, &a.Purpose, &a.Notes, &a.PatientName); err != nil {
				return err
			}
			out = append(out, a)
			return nil
		})
	return out, err
}
