package handler

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hospital-management/internal/apperr"
	"github.com/iliyamo/hospital-management/internal/repository"
	"github.com/iliyamo/hospital-management/internal/utils"
)

// appointmentStatuses is the closed set an appointment may be in.
var appointmentStatuses = map[string]bool{
	"SCHEDULED": true, "COMPLETED": true, "CANCELLED": true, "NO_SHOW": true,
}

// AppointmentHandler serves the /appointment endpoints.
type AppointmentHandler struct {
	Appointments *repository.AppointmentRepo
}

func NewAppointmentHandler(a *repository.AppointmentRepo) *AppointmentHandler {
	return &AppointmentHandler{Appointments: a}
}

// List returns appointments, optionally filtered with ?status= and a
// ?start_date=&end_date= range.
func (h *AppointmentHandler) List(c echo.Context) error {
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status != "" && !appointmentStatuses[status] {
		return apperr.Validation("Invalid appointment status")
	}
	start, end := c.QueryParam("start_date"), c.QueryParam("end_date")
	if (start == "") != (end == "") {
		return apperr.Validation("start_date and end_date must be given together")
	}
	if start != "" {
		if !utils.ValidDate(start) || !utils.ValidDate(end) || start > end {
			return apperr.Validation("Invalid date range")
		}
	}
	appointments, err := h.Appointments.List(c.Request().Context(), status, start, end)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appointments)
}

// Get returns one appointment.
func (h *AppointmentHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	a, err := h.Appointments.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			return apperr.NotFound("Appointment")
		}
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// Create books an appointment.
func (h *AppointmentHandler) Create(c echo.Context) error {
	var in repository.AppointmentInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if in.PatientID == 0 || in.DoctorID == 0 {
		return apperr.Validation("patient_id and doctor_id are required")
	}
	if in.AppointmentDate == "" {
		return apperr.Validation("appointment_date is required")
	}
	in.Status = strings.ToUpper(strings.TrimSpace(in.Status))
	if in.Status == "" {
		in.Status = "SCHEDULED"
	}
	if !appointmentStatuses[in.Status] {
		return apperr.Validation("Invalid appointment status")
	}

	id, err := h.Appointments.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":        "Appointment created successfully",
		"appointment_id": id,
	})
}

type appointmentStatusReq struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// UpdateStatus moves an appointment through its lifecycle, optionally
// replacing its notes.
func (h *AppointmentHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req appointmentStatusReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	req.Status = strings.ToUpper(strings.TrimSpace(req.Status))
	if !appointmentStatuses[req.Status] {
		return apperr.Validation("Invalid appointment status")
	}

	ok, err := h.Appointments.UpdateStatus(c.Request().Context(), id, req.Status, req.Notes)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Appointment")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Appointment updated successfully"})
}

// ForDoctor lists a doctor's appointments from today onward.
func (h *AppointmentHandler) ForDoctor(c echo.Context) error {
	doctorID, err := pathID(c, "doctor_id")
	if err != nil {
		return err
	}
	appointments, err := h.Appointments.ForDoctor(c.Request().Context(), doctorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appointments)
}
