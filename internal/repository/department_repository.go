package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/hospital-management/internal/database"
)

// Department mirrors the 'departments' table.
type Department struct {
	ID          uint64         `json:"id"`
	Name        string         `json:"name"`
	Description sql.NullString `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// DepartmentStaff is the trimmed staff row listed under a department.
type DepartmentStaff struct {
	ID            uint64 `json:"id"`
	FullName      string `json:"full_name"`
	Role          string `json:"role"`
	Email         string `json:"email"`
	ContactNumber string `json:"contact_number"`
}

type DepartmentRepo struct{ gw *database.Gateway }

func NewDepartmentRepo(gw *database.Gateway) *DepartmentRepo { return &DepartmentRepo{gw: gw} }

// List returns all departments ordered by name.
func (r *DepartmentRepo) List(ctx context.Context) ([]Department, error) {
	out := []Department{}
	err := r.gw.All(ctx,
		"SELECT id, name, description, created_at, updated_at FROM departments ORDER BY name",
		nil,
		func(rows *sql.Rows) error {
			var d Department
			if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt); err != nil {
				return err
			}
			out = append(out, d)
			return nil
		})
	return out, err
}

// GetByID fetches one department.
func (r *DepartmentRepo) GetByID(ctx context.Context, id uint64) (Department, error) {
	var d Department
	err := r.gw.One(ctx,
		"SELECT id, name, description, created_at, updated_at FROM departments WHERE id=? LIMIT 1",
		[]any{id},
		&d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

// Create inserts a department. A duplicate name surfaces as a Duplicate
// error from the gateway.
func (r *DepartmentRepo) Create(ctx context.Context, name, description string) (uint64, error) {
	res, err := r.gw.Exec(ctx,
		"INSERT INTO departments (name, description, created_at, updated_at) VALUES (?,?,NOW(),NOW())",
		name, description)
	if err != nil {
		return 0, err
	}
	return uint64(res.LastInsertID), nil
}

// Update rewrites name and description.
func (r *DepartmentRepo) Update(ctx context.Context, id uint64, name, description string) (bool, error) {
	res, err := r.gw.Exec(ctx,
		"UPDATE departments SET name=?, description=?, updated_at=NOW() WHERE id=?",
		name, description, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected > 0, nil
}

// Staff lists the members assigned to a department.
func (r *DepartmentRepo) Staff(ctx context.Context, id uint64) ([]DepartmentStaff, error) {
	out := []DepartmentStaff{}
	err := r.gw.All(ctx,
		"SELECT id, full_name, role, email, contact_number FROM staff WHERE department_id=?",
		[]any{id},
		func(rows *sql.Rows) error {
			var s DepartmentStaff
			if err := rows.Scan(&s.ID, &s.FullName, &s.Role, &s.Email, &s.ContactNumber); err != nil {
				return err
			}
			out = append(out, s)
			return nil
		})
	return out, err
}
