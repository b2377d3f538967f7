package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hospital-management/internal/apperr"
	"github.com/iliyamo/hospital-management/internal/repository"
)

var billStatuses = map[string]bool{
	"PENDING": true, "PAID": true, "OVERDUE": true, "CANCELLED": true,
}

var claimStatuses = map[string]bool{
	"SUBMITTED": true, "IN_REVIEW": true, "APPROVED": true, "REJECTED": true,
}

// FinanceHandler serves the /finance endpoints.
type FinanceHandler struct {
	Finance *repository.FinanceRepo
}

func NewFinanceHandler(f *repository.FinanceRepo) *FinanceHandler {
	return &FinanceHandler{Finance: f}
}

// Bills lists bills, filterable with ?status= and ?patient_id=.
func (h *FinanceHandler) Bills(c echo.Context) error {
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status != "" && !billStatuses[status] {
		return apperr.Validation("Invalid bill status")
	}
	var patientID uint64
	if raw := c.QueryParam("patient_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return apperr.Validation("Invalid patient_id")
		}
		patientID = v
	}
	bills, err := h.Finance.Bills(c.Request().Context(), status, patientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bills)
}

// CreateBill generates a bill for a patient.
func (h *FinanceHandler) CreateBill(c echo.Context) error {
	var in repository.BillInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if in.PatientID == 0 {
		return apperr.Validation("patient_id is required")
	}
	if in.Amount <= 0 {
		return apperr.Validation("amount must be positive")
	}

	id, err := h.Finance.CreateBill(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Bill created successfully",
		"bill_id": id,
	})
}

type billStatusReq struct {
	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method"`
}

// UpdateBillStatus moves a bill through its lifecycle, e.g. to PAID with the
// payment method recorded.
func (h *FinanceHandler) UpdateBillStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req billStatusReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	req.Status = strings.ToUpper(strings.TrimSpace(req.Status))
	if !billStatuses[req.Status] {
		return apperr.Validation("Invalid bill status")
	}

	ok, err := h.Finance.UpdateBillStatus(c.Request().Context(), id, req.Status, req.PaymentMethod)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Bill")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Bill updated successfully"})
}

// Revenue reports daily and monthly totals plus the outstanding amount.
func (h *FinanceHandler) Revenue(c echo.Context) error {
	rep, err := h.Finance.Revenue(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rep)
}

// Claims lists insurance claims, filterable with ?status=.
func (h *FinanceHandler) Claims(c echo.Context) error {
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status != "" && !claimStatuses[status] {
		return apperr.Validation("Invalid claim status")
	}
	claims, err := h.Finance.Claims(c.Request().Context(), status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, claims)
}

// CreateClaim submits an insurance claim against a bill.
func (h *FinanceHandler) CreateClaim(c echo.Context) error {
	var in repository.ClaimInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if in.PatientID == 0 || in.BillID == 0 {
		return apperr.Validation("patient_id and bill_id are required")
	}
	if strings.TrimSpace(in.InsuranceProvider) == "" {
		return apperr.Validation("insurance_provider is required")
	}
	if in.ClaimAmount <= 0 {
		return apperr.Validation("claim_amount must be positive")
	}

	id, err := h.Finance.CreateClaim(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Insurance claim submitted successfully",
		"claim_id": id,
	})
}
