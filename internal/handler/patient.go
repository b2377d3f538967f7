package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hospital-management/internal/apperr"
	"github.com/iliyamo/hospital-management/internal/repository"
	"github.com/iliyamo/hospital-management/internal/utils"
)

// PatientHandler serves the /patient endpoints.
type PatientHandler struct {
	Patients *repository.PatientRepo
}

func NewPatientHandler(p *repository.PatientRepo) *PatientHandler { return &PatientHandler{Patients: p} }

// List returns all patients, optionally filtered with ?search= against name
// or contact number.
func (h *PatientHandler) List(c echo.Context) error {
	patients, err := h.Patients.List(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patients)
}

// Get returns one patient.
func (h *PatientHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.Patients.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			return apperr.NotFound("Patient")
		}
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Create registers a new patient record.
func (h *PatientHandler) Create(c echo.Context) error {
	var in repository.PatientInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if !utils.ValidName(in.FullName) {
		return apperr.Validation("Invalid patient name")
	}
	if !utils.ValidPhone(in.ContactNumber) {
		return apperr.Validation("Invalid phone number")
	}
	if !utils.ValidDate(in.DateOfBirth) {
		return apperr.Validation("Invalid date of birth")
	}
	if in.BloodGroup != "" && !utils.ValidBloodGroup(in.BloodGroup) {
		return apperr.Validation("Invalid blood group")
	}

	id, err := h.Patients.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "Patient created successfully",
		"patient_id": id,
	})
}

// Update rewrites a patient's record.
func (h *PatientHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in repository.PatientInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if !utils.ValidPhone(in.ContactNumber) {
		return apperr.Validation("Invalid phone number")
	}

	ok, err := h.Patients.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Patient")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Patient updated successfully"})
}

// AddAllergy records an allergy under a patient.
func (h *PatientHandler) AddAllergy(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var a repository.Allergy
	if err := c.Bind(&a); err != nil {
		return apperr.Validation("Invalid request body")
	}
	a.PatientID = id
	if a.AllergyName == "" {
		return apperr.Validation("Allergy name is required")
	}

	allergyID, err := h.Patients.AddAllergy(c.Request().Context(), a)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "Allergy added successfully",
		"allergy_id": allergyID,
	})
}

// AddMedicalHistory records a diagnosed condition under a patient.
func (h *PatientHandler) AddMedicalHistory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var m repository.MedicalHistory
	if err := c.Bind(&m); err != nil {
		return apperr.Validation("Invalid request body")
	}
	m.PatientID = id
	if m.Condition == "" {
		return apperr.Validation("Condition is required")
	}

	historyID, err := h.Patients.AddMedicalHistory(c.Request().Context(), m)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "Medical history added successfully",
		"history_id": historyID,
	})
}

// RecordVisit stores a clinical visit under a patient.
func (h *PatientHandler) RecordVisit(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in repository.VisitInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if in.DoctorID == 0 {
		return apperr.Validation("doctor_id is required")
	}

	visitID, err := h.Patients.RecordVisit(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Visit recorded successfully",
		"visit_id": visitID,
	})
}

// Visits lists a patient's appointments with the treating doctor.
func (h *PatientHandler) Visits(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	visits, err := h.Patients.Visits(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, visits)
}
