package main

import (
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/hospital-management/internal/apperr"
	"github.com/iliyamo/hospital-management/internal/config"
	"github.com/iliyamo/hospital-management/internal/database"
	"github.com/iliyamo/hospital-management/internal/handler"
	"github.com/iliyamo/hospital-management/internal/mailer"
	"github.com/iliyamo/hospital-management/internal/queue"
	"github.com/iliyamo/hospital-management/internal/repository"
	"github.com/iliyamo/hospital-management/internal/router"
	"github.com/iliyamo/hospital-management/internal/service"
)

func main() {
	cfg := config.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.Env == "dev" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	}

	db, err := database.Open(database.Options{
		User:         cfg.DBUser,
		Pass:         cfg.DBPass,
		Host:         cfg.DBHost,
		Port:         cfg.DBPort,
		Name:         cfg.DBName,
		MaxConns:     cfg.DBMaxConns,
		ConnLifetime: time.Duration(cfg.DBConnLife) * time.Minute,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	gw := database.NewGateway(db, log)

	users := repository.NewUserRepo(gw)
	resets := repository.NewResetTokenRepo(gw)
	patients := repository.NewPatientRepo(gw)
	staff := repository.NewStaffRepo(gw)
	departments := repository.NewDepartmentRepo(gw)
	appointments := repository.NewAppointmentRepo(gw)
	admissions := repository.NewAdmissionRepo(gw)
	finance := repository.NewFinanceRepo(gw)
	notifications := repository.NewNotificationRepo(gw)

	emails := service.NewEmailPublisher(cfg.AMQPURL, log)

	h := router.Handlers{
		Auth:          handler.NewAuthHandler(cfg, users, resets, emails, log),
		Patients:      handler.NewPatientHandler(patients),
		Staff:         handler.NewStaffHandler(staff),
		Departments:   handler.NewDepartmentHandler(departments),
		Appointments:  handler.NewAppointmentHandler(appointments),
		Admissions:    handler.NewAdmissionHandler(admissions),
		Finance:       handler.NewFinanceHandler(finance),
		Notifications: handler.NewNotificationHandler(notifications),
		Admin:         handler.NewAdminHandler(users),
	}

	// Deliver queued emails in the background when both the broker and an
	// SMTP relay are configured.
	if cfg.AMQPURL != "" && cfg.SMTPHost != "" {
		m := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
		go queue.StartEmailConsumer(cfg.AMQPURL, m, log)
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apperr.EchoErrorHandler(log)

	rdb := config.NewRedisClient()
	router.RegisterRoutes(e, h, cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
