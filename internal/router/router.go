// Package router wires every endpoint to its handler and access policy.
// Authentication and role checks live here, in one place, so the allow-set
// for any route can be read off its registration line.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hospital-management/internal/config"
	"github.com/iliyamo/hospital-management/internal/handler"
	"github.com/iliyamo/hospital-management/internal/middleware"
	"github.com/iliyamo/hospital-management/internal/model"
)

// Handlers bundles everything RegisterRoutes needs.
type Handlers struct {
	Auth          *handler.AuthHandler
	Patients      *handler.PatientHandler
	Staff         *handler.StaffHandler
	Departments   *handler.DepartmentHandler
	Appointments  *handler.AppointmentHandler
	Admissions    *handler.AdmissionHandler
	Finance       *handler.FinanceHandler
	Notifications *handler.NotificationHandler
	Admin         *handler.AdminHandler
}

// RegisterRoutes mounts the whole API on e. Rate limiting applies to every
// route; JWT and role middleware apply per group.
func RegisterRoutes(e *echo.Echo, h Handlers, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	e.Use(middleware.RateLimit(rlCfg, rdb))

	e.GET("/health", handler.Health)

	api := e.Group("/api/v1")
	jwt := middleware.JWTAuth(jwtSecret)

	// Session-less auth operations.
	auth := api.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/forgot-password", h.Auth.ForgotPassword)
	auth.POST("/reset-password", h.Auth.ResetPassword)

	// Auth operations that need a live session.
	authed := api.Group("/auth", jwt)
	authed.POST("/change-password", h.Auth.ChangePassword)
	authed.GET("/me", h.Auth.Me)

	// Patients: any authenticated role may read, writes are restricted.
	patient := api.Group("/patient", jwt)
	patient.GET("", h.Patients.List)
	patient.GET("/:id", h.Patients.Get)
	patient.GET("/:id/visits", h.Patients.Visits)
	patientWrite := middleware.RequireRole(model.RoleAdmin, model.RoleStaff, model.RoleFinance)
	patient.POST("", h.Patients.Create, patientWrite)
	patient.PUT("/:id", h.Patients.Update, patientWrite)
	patient.POST("/:id/allergies", h.Patients.AddAllergy, patientWrite)
	patient.POST("/:id/medical-history", h.Patients.AddMedicalHistory, patientWrite)
	patient.POST("/:id/visits", h.Patients.RecordVisit, patientWrite)

	// Staff directory and department schedules.
	staff := api.Group("/staff", jwt)
	staffWrite := middleware.RequireRole(model.RoleAdmin, model.RoleHR)
	staff.GET("", h.Staff.List, staffWrite)
	staff.GET("/:id", h.Staff.Get, staffWrite)
	staff.POST("", h.Staff.Create, staffWrite)
	staff.PUT("/:id", h.Staff.Update, staffWrite)
	staff.GET("/department/:department_id/schedule", h.Staff.DepartmentSchedule,
		middleware.RequireRole(model.RoleAdmin, model.RoleHR, model.RoleDoctor, model.RoleNurse))

	// Departments: reads for all authenticated users, writes for admins.
	department := api.Group("/department", jwt)
	department.GET("", h.Departments.List)
	department.GET("/:id", h.Departments.Get)
	department.GET("/:id/staff", h.Departments.Staff)
	deptWrite := middleware.RequireRole(model.RoleAdmin)
	department.POST("", h.Departments.Create, deptWrite)
	department.PUT("/:id", h.Departments.Update, deptWrite)

	// Appointments.
	appointment := api.Group("/appointment", jwt)
	appointment.GET("", h.Appointments.List)
	appointment.GET("/:id", h.Appointments.Get)
	appointment.GET("/doctor/:doctor_id", h.Appointments.ForDoctor)
	appointment.POST("", h.Appointments.Create,
		middleware.RequireRole(model.RoleAdmin, model.RoleDoctor, model.RoleStaff))
	appointment.PUT("/:id", h.Appointments.UpdateStatus,
		middleware.RequireRole(model.RoleAdmin, model.RoleDoctor))

	// Admissions and beds.
	admission := api.Group("/admission", jwt)
	admission.GET("", h.Admissions.List)
	admission.GET("/:id", h.Admissions.Get)
	admission.GET("/beds/available", h.Admissions.AvailableBeds)
	admWrite := middleware.RequireRole(model.RoleAdmin, model.RoleDoctor)
	admission.POST("", h.Admissions.Create, admWrite)
	admission.PUT("/:id/discharge", h.Admissions.Discharge, admWrite)

	// Billing, revenue and insurance claims.
	finance := api.Group("/finance", jwt,
		middleware.RequireRole(model.RoleAdmin, model.RoleFinance))
	finance.GET("/bills", h.Finance.Bills)
	finance.POST("/bills", h.Finance.CreateBill)
	finance.PUT("/bills/:id/status", h.Finance.UpdateBillStatus)
	finance.GET("/revenue/report", h.Finance.Revenue)
	finance.GET("/insurance-claims", h.Finance.Claims)
	finance.POST("/insurance-claims", h.Finance.CreateClaim)

	// Notifications are owner-scoped inside the handler; any authenticated
	// user may use them.
	notification := api.Group("/notification", jwt)
	notification.GET("", h.Notifications.List)
	notification.POST("", h.Notifications.Create)
	notification.PUT("/:id/read", h.Notifications.MarkRead)
	notification.DELETE("/:id", h.Notifications.Delete)

	// Account administration.
	admin := api.Group("/admin", jwt, middleware.RequireRole(model.RoleAdmin))
	admin.GET("/users", h.Admin.ListUsers)
	admin.GET("/users/:id", h.Admin.GetUser)
}
