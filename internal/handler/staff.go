package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hospital-management/internal/apperr"
	"github.com/iliyamo/hospital-management/internal/repository"
	"github.com/iliyamo/hospital-management/internal/utils"
)

// StaffHandler serves the /staff endpoints.
type StaffHandler struct {
	Staff *repository.StaffRepo
}

func NewStaffHandler(s *repository.StaffRepo) *StaffHandler { return &StaffHandler{Staff: s} }

// List returns every staff member with their department.
func (h *StaffHandler) List(c echo.Context) error {
	members, err := h.Staff.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, members)
}

// Get returns one staff member.
func (h *StaffHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	m, err := h.Staff.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			return apperr.NotFound("Staff member")
		}
		return err
	}
	return c.JSON(http.StatusOK, m)
}

// Create hires a staff member.
func (h *StaffHandler) Create(c echo.Context) error {
	var in repository.StaffInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if !utils.ValidName(in.FullName) {
		return apperr.Validation("Invalid staff name")
	}
	if !utils.ValidEmail(in.Email) {
		return apperr.Validation("Invalid email format")
	}
	if !utils.ValidPhone(in.ContactNumber) {
		return apperr.Validation("Invalid phone number")
	}
	if in.JoiningDate != "" && !utils.ValidDate(in.JoiningDate) {
		return apperr.Validation("Invalid joining date")
	}

	id, err := h.Staff.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Staff member created successfully",
		"staff_id": id,
	})
}

// Update rewrites a staff member's record.
func (h *StaffHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in repository.StaffInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if !utils.ValidEmail(in.Email) {
		return apperr.Validation("Invalid email format")
	}

	ok, err := h.Staff.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Staff member")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Staff member updated successfully"})
}

// DepartmentSchedule lists working schedules for a department's staff.
func (h *StaffHandler) DepartmentSchedule(c echo.Context) error {
	id, err := pathID(c, "department_id")
	if err != nil {
		return err
	}
	entries, err := h.Staff.DepartmentSchedule(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}
