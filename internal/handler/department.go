package handler

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hospital-management/internal/apperr"
	"github.com/iliyamo/hospital-management/internal/repository"
)

// DepartmentHandler serves the /department endpoints.
type DepartmentHandler struct {
	Departments *repository.DepartmentRepo
}

func NewDepartmentHandler(d *repository.DepartmentRepo) *DepartmentHandler {
	return &DepartmentHandler{Departments: d}
}

type departmentReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// List returns all departments.
func (h *DepartmentHandler) List(c echo.Context) error {
	departments, err := h.Departments.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, departments)
}

// Get returns one department.
func (h *DepartmentHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	d, err := h.Departments.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			return apperr.NotFound("Department")
		}
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// Create opens a new department.
func (h *DepartmentHandler) Create(c echo.Context) error {
	var req departmentReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return apperr.Validation("Department name is required")
	}

	id, err := h.Departments.Create(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "Department created successfully",
		"department_id": id,
	})
}

// Update renames or re-describes a department.
func (h *DepartmentHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req departmentReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return apperr.Validation("Department name is required")
	}

	ok, err := h.Departments.Update(c.Request().Context(), id, req.Name, req.Description)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Department")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Department updated successfully"})
}

// Staff lists the members assigned to a department.
func (h *DepartmentHandler) Staff(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	members, err := h.Departments.Staff(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, members)
}
