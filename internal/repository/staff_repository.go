package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/hospital-management/internal/database"
)

// StaffMember mirrors the 'staff' table joined with its department name.
type StaffMember struct {
	ID             uint64         `json:"id"`
	UserID         sql.NullInt64  `json:"user_id"`
	FullName       string         `json:"full_name"`
	Role           string         `json:"role"`
	Specialization sql.NullString `json:"specialization"`
	DepartmentID   sql.NullInt64  `json:"department_id"`
	DepartmentName sql.NullString `json:"department_name"`
	ContactNumber  string         `json:"contact_number"`
	Email          string         `json:"email"`
	JoiningDate    string         `json:"joining_date"`
	Qualifications sql.NullString `json:"qualifications"`
	Schedule       sql.NullString `json:"schedule"`
	CreatedAt      time.Time      `json:"created_at"`
}

// StaffInput carries the writable staff fields.
type StaffInput struct {
	UserID         *uint64 `json:"user_id"`
	FullName       string  `json:"full_name"`
	Role           string  `json:"role"`
	Specialization string  `json:"specialization"`
	DepartmentID   *uint64 `json:"department_id"`
	ContactNumber  string  `json:"contact_number"`
	Email          string  `json:"email"`
	JoiningDate    string  `json:"joining_date"`
	Qualifications string  `json:"qualifications"`
	Schedule       string  `json:"schedule"`
}

// ScheduleEntry is one staff member's working schedule.
type ScheduleEntry struct {
	ID       uint64         `json:"id"`
	FullName string         `json:"full_name"`
	Schedule sql.NullString `json:"schedule"`
}

type StaffRepo struct{ gw *database.Gateway }

func NewStaffRepo(gw *database.Gateway) *StaffRepo { return &StaffRepo{gw: gw} }

const staffCols = `s.id, s.user_id, s.full_name, s.role, s.specialization, s.department_id,
	d.name, s.contact_number, s.email, s.joining_date, s.qualifications, s.schedule, s.created_at`

// List returns every staff member with their department name.
func (r *StaffRepo) List(ctx context.Context) ([]StaffMember, error) {
	out := []StaffMember{}
	err := r.gw.All(ctx,
		"SELECT "+staffCols+" FROM staff s LEFT JOIN departments d ON s.department_id = d.id ORDER BY s.id",
		nil,
		func(rows *sql.Rows) error {
			var m StaffMember
			if err := rows.Scan(&m.ID, &m.UserID, &m.FullName, &m.Role, &m.Specialization, &m.DepartmentID,
				&m.DepartmentName, &m.ContactNumber, &m.Email, &m.JoiningDate, &m.Qualifications, &m.Schedule, &m.CreatedAt); err != nil {
				return err
			}
			out = append(out, m)
			return nil
		})
	return out, err
}

// GetByID fetches one staff member.
func (r *StaffRepo) GetByID(ctx context.Context, id uint64) (StaffMember, error) {
	var m StaffMember
	err := r.gw.One(ctx,
		"SELECT "+staffCols+" FROM staff s LEFT JOIN departments d ON s.department_id = d.id WHERE s.id=? LIMIT 1",
		[]any{id},
		&m.ID, &m.UserID, &m.FullName, &m.Role, &m.Specialization, &m.DepartmentID,
		&m.DepartmentName, &m.ContactNumber, &m.Email, &m.JoiningDate, &m.Qualifications, &m.Schedule, &m.CreatedAt)
	return m, err
}

// Create inserts a staff member and returns its ID.
func (r *StaffRepo) Create(ctx context.Context, in StaffInput) (uint64, error) {
	res, err := r.gw.Exec(ctx,
		`INSERT INTO staff
		 (user_id, full_name, role, specialization, department_id, contact_number, email, joining_date, qualifications, schedule, created_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,NOW())`,
		in.UserID, in.FullName, in.Role, in.Specialization, in.DepartmentID,
		in.ContactNumber, in.Email, in.JoiningDate, in.Qualifications, in.Schedule)
	if err != nil {
		return 0, err
	}
	return uint64(res.LastInsertID), nil
}

// Update rewrites the writable fields of a staff member.
func (r *StaffRepo) Update(ctx context.Context, id uint64, in StaffInput) (bool, error) {
	res, err := r.gw.Exec(ctx,
		`UPDATE staff SET
		 full_name=?, role=?, specialization=?, department_id=?, contact_number=?,
		 email=?, qualifications=?, schedule=?, updated_at=NOW()
		 WHERE id=?`,
		in.FullName, in.Role, in.Specialization, in.DepartmentID, in.ContactNumber,
		in.Email, in.Qualifications, in.Schedule, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected > 0, nil
}

// DepartmentSchedule lists the schedules of everyone in a department.
func (r *StaffRepo) DepartmentSchedule(ctx context.Context, departmentID uint64) ([]ScheduleEntry, error) {
	out := []ScheduleEntry{}
	err := r.gw.All(ctx,
		"SELECT id, full_name, schedule FROM staff WHERE department_id=?",
		[]any{departmentID},
		func(rows *sql.Rows) error {
			var e ScheduleEntry
			if err := rows.Scan(&e.ID, &e.FullName, &e.Schedule); err != nil {
				return err
			}
			out = append(out, e)
			return nil
		})
	return out, err
}
