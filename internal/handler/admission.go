package handler

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hospital-management/internal/apperr"
	"github.com/iliyamo/hospital-management/internal/repository"
)

var admissionStatuses = map[string]bool{
	"ADMITTED": true, "DISCHARGED": true, "TRANSFERRED": true,
}

// AdmissionHandler serves the /admission endpoints.
type AdmissionHandler struct {
	Admissions *repository.AdmissionRepo
}

func NewAdmissionHandler(a *repository.AdmissionRepo) *AdmissionHandler {
	return &AdmissionHandler{Admissions: a}
}

// List returns admissions, optionally filtered with ?status=.
func (h *AdmissionHandler) List(c echo.Context) error {
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status != "" && !admissionStatuses[status] {
		return apperr.Validation("Invalid admission status")
	}
	admissions, err := h.Admissions.List(c.Request().Context(), status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, admissions)
}

// Get returns one admission.
func (h *AdmissionHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	a, err := h.Admissions.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			return apperr.NotFound("Admission")
		}
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// Create admits a patient. The request is rejected when no bed is free; the
// chosen bed must be one of the available ones.
func (h *AdmissionHandler) Create(c echo.Context) error {
	var in repository.AdmissionInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if in.PatientID == 0 {
		return apperr.Validation("patient_id is required")
	}
	if in.AdmissionDate == "" {
		return apperr.Validation("admission_date is required")
	}

	ctx := c.Request().Context()

	beds, err := h.Admissions.AvailableBeds(ctx)
	if err != nil {
		return err
	}
	if len(beds) == 0 {
		return apperr.BadRequest("No beds available")
	}
	free := false
	for _, b := range beds {
		if b.BedNumber == in.BedNumber {
			free = true
			break
		}
	}
	if !free {
		return apperr.BadRequest("Requested bed is not available")
	}

	id, err := h.Admissions.Create(ctx, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":      "Admission created successfully",
		"admission_id": id,
	})
}

type dischargeReq struct {
	Status           string `json:"status"`
	DischargeSummary string `json:"discharge_summary"`
}

// Discharge moves an admission to a terminal status and frees the bed.
func (h *AdmissionHandler) Discharge(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dischargeReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	req.Status = strings.ToUpper(strings.TrimSpace(req.Status))
	if req.Status == "" {
		req.Status = "DISCHARGED"
	}
	if !admissionStatuses[req.Status] {
		return apperr.Validation("Invalid admission status")
	}

	ok, err := h.Admissions.Discharge(c.Request().Context(), id, req.Status, req.DischargeSummary)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Admission")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Patient discharged successfully"})
}

// AvailableBeds lists free beds.
func (h *AdmissionHandler) AvailableBeds(c echo.Context) error {
	beds, err := h.Admissions.AvailableBeds(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, beds)
}
