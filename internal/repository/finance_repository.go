package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/hospital-management/internal/database"
)

// Bill mirrors the 'bills' table joined with the patient.
type Bill struct {
	ID            uint64         `json:"id"`
	PatientID     uint64         `json:"patient_id"`
	AdmissionID   sql.NullInt64  `json:"admission_id"`
	Amount        float64        `json:"amount"`
	GeneratedDate time.Time      `json:"generated_date"`
	DueDate       sql.NullTime   `json:"due_date"`
	Status        string         `json:"status"`
	PaymentMethod sql.NullString `json:"payment_method"`
	PatientName   string         `json:"patient_name"`
	ContactNumber string         `json:"contact_number"`
}

// BillInput carries the writable bill fields. Status starts at PENDING.
type BillInput struct {
	PatientID   uint64  `json:"patient_id"`
	AdmissionID *uint64 `json:"admission_id"`
	Amount      float64 `json:"amount"`
	DueDate     string  `json:"due_date"`
}

// RevenueReport aggregates billing totals.
type RevenueReport struct {
	DailyRevenue      float64 `json:"daily_revenue"`
	MonthlyRevenue    float64 `json:"monthly_revenue"`
	OutstandingAmount float64 `json:"outstanding_amount"`
}

// InsuranceClaim mirrors the 'insurance_claims' table joined with patient
// and bill.
type InsuranceClaim struct {
	ID                uint64    `json:"id"`
	PatientID         uint64    `json:"patient_id"`
	BillID            uint64    `json:"bill_id"`
	InsuranceProvider string    `json:"insurance_provider"`
	ClaimAmount       float64   `json:"claim_amount"`
	Status            string    `json:"status"`
	SubmissionDate    time.Time `json:"submission_date"`
	PatientName       string    `json:"patient_name"`
	BillAmount        float64   `json:"bill_amount"`
}

// ClaimInput carries the writable claim fields. Status starts at SUBMITTED.
type ClaimInput struct {
	PatientID         uint64  `json:"patient_id"`
	BillID            uint64  `json:"bill_id"`
	InsuranceProvider string  `json:"insurance_provider"`
	ClaimAmount       float64 `json:"claim_amount"`
}

type FinanceRepo struct{ gw *database.Gateway }

func NewFinanceRepo(gw *database.Gateway) *FinanceRepo { return &FinanceRepo{gw: gw} }

// Bills returns bills newest first, optionally filtered by status and/or
// patient. Filters compose as bound parameters.
func (r *FinanceRepo) Bills(ctx context.Context, status string, patientID uint64) ([]Bill, error) {
	query := `SELECT b.id, b.patient_id, b.admission_id, b.amount, b.generated_date, b.due_date,
			b.status, b.payment_method, p.full_name, p.contact_number
		FROM bills b
		JOIN patients p ON b.patient_id = p.id`
	where := []string{}
	args := []any{}
	if status != "" {
		where = append(where, "b.status = ?")
		args = append(args, status)
	}
	if patientID != 0 {
		where = append(where, "b.patient_id = ?")
		args = append(args, patientID)
	}
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY b.generated_date DESC"

	out := []Bill{}
	err := r.gw.All(ctx, query, args, func(rows *sql.Rows) error {
		var b Bill
		if err := rows.Scan(&b.ID, &b.PatientID, &b.AdmissionID, &b.Amount, &b.GeneratedDate, &b.DueDate,
			&b.Status, &b.PaymentMethod, &b.PatientName, &b.ContactNumber); err != nil {
			return err
		}
		out = append(out, b)
		return nil
	})
	return out, err
}

// CreateBill inserts a bill stamped with the current time and PENDING status.
func (r *FinanceRepo) CreateBill(ctx context.Context, in BillInput) (uint64, error) {
	res, err := r.gw.Exec(ctx,
		"INSERT INTO bills (patient_id, admission_id, amount, generated_date, due_date, status) VALUES (?,?,?,NOW(),?,'PENDING')",
		in.PatientID, in.AdmissionID, in.Amount, in.DueDate)
	if err != nil {
		return 0, err
	}
	return uint64(res.LastInsertID), nil
}

// UpdateBillStatus sets status and payment method on a bill.
func (r *FinanceRepo) UpdateBillStatus(ctx context.Context, id uint64, status, paymentMethod string) (bool, error) {
	res, err := r.gw.Exec(ctx,
		"UPDATE bills SET status=?, payment_method=?, updated_at=NOW() WHERE id=?",
		status, paymentMethod, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected > 0, nil
}

// Revenue aggregates daily and monthly revenue plus outstanding amounts.
func (r *FinanceRepo) Revenue(ctx context.Context) (RevenueReport, error) {
	var rep RevenueReport
	err := r.gw.One(ctx,
		`SELECT
			COALESCE(SUM(CASE WHEN DATE(generated_date) = CURDATE() THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN generated_date >= DATE_FORMAT(CURDATE(), '%Y-%m-01') THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status IN ('PENDING','OVERDUE') THEN amount ELSE 0 END), 0)
		 FROM bills`,
		nil,
		&rep.DailyRevenue, &rep.MonthlyRevenue, &rep.OutstandingAmount)
	return rep, err
}

// Claims returns insurance claims newest first, optionally filtered by status.
func (r *FinanceRepo) Claims(ctx context.Context, status string) ([]InsuranceClaim, error) {
	query := `SELECT ic.id, ic.patient_id, ic.bill_id, ic.insurance_provider, ic.claim_amount,
			ic.status, ic.submission_date, p.full_name, b.amount
		FROM insurance_claims ic
		JOIN patients p ON ic.patient_id = p.id
		JOIN bills b ON ic.bill_id = b.id`
	args := []any{}
	if status != "" {
		query += " WHERE ic.status = ?"
		args = append(args, status)
	}
	query += " ORDER BY ic.submission_date DESC"

	out := []InsuranceClaim{}
	err := r.gw.All(ctx, query, args, func(rows *sql.Rows) error {
		var c InsuranceClaim
		if err := rows.Scan(&c.ID, &c.PatientID, &c.BillID, &c.InsuranceProvider, &c.ClaimAmount,
			&c.Status, &c.SubmissionDate, &c.PatientName, &c.BillAmount); err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})
	return out, err
}

// CreateClaim inserts an insurance claim stamped SUBMITTED.
func (r *FinanceRepo) CreateClaim(ctx context.Context, in ClaimInput) (uint64, error) {
	res, err := r.gw.Exec(ctx,
		"INSERT INTO insurance_claims (patient_id, bill_id, insurance_provider, claim_amount, status, submission_date) VALUES (?,?,?,?,'SUBMITTED',NOW())",
		in.PatientID, in.BillID, in.InsuranceProvider, in.ClaimAmount)
	if err != nil {
		return 0, err
	}
	return uint64(res.LastInsertID), nil
}
