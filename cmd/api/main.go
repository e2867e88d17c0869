package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"semecity/config"
	"semecity/internal/adapters/auth"
	"semecity/internal/adapters/email"
	delivery "semecity/internal/delivery/http"
	"semecity/internal/delivery/http/controllers"
	"semecity/internal/delivery/http/middleware"
	"semecity/internal/repository/postgres"
	"semecity/internal/services"

	"golang.org/x/crypto/bcrypt"
)

// @title Sèmè City API
// @version 1.0
// @description Attendance and feedback platform for Sèmè City services and activities.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	db, err := postgres.Open(cfg.DBUrl)
	if err != nil {
		logger.Error("connect database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	serviceRepo := postgres.NewServiceRepository(db)
	activityRepo := postgres.NewActivityRepository(db)
	attendanceRepo := postgres.NewAttendanceRepository(db)
	feedbackRepo := postgres.NewFeedbackRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)
	invitationRepo := postgres.NewInvitationRepository(db)
	verificationRepo := postgres.NewVerificationTokenRepository(db)

	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	sessions := auth.NewJWTSessions(cfg.JWTSecret)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.SES.Region,
			AccessKeyID:        cfg.Email.SES.AccessKeyID,
			SecretAccessKey:    cfg.Email.SES.SecretAccessKey,
			InsecureSkipVerify: cfg.Email.SES.InsecureSkipVerify,
		},
	})
	if err != nil {
		logger.Error("create mailer", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())

	authService := services.NewAuthService(userRepo, verificationRepo, hasher, sessions,
		cfg.SessionExpiry, emailService, cfg.AppURL, logger)
	activityService := services.NewActivityService(activityRepo)
	attendanceService := services.NewAttendanceService(attendanceRepo, activityRepo, userRepo, registrationRepo)
	feedbackService := services.NewFeedbackService(feedbackRepo, activityRepo)
	registrationService := services.NewRegistrationService(registrationRepo, activityRepo)
	serviceService := services.NewServiceService(serviceRepo)
	userService := services.NewUserService(userRepo, attendanceRepo, feedbackRepo)
	invitationService := services.NewInvitationService(invitationRepo, userRepo, hasher,
		emailService, cfg.AppURL, logger)
	exportService := services.NewExportService(activityRepo, attendanceRepo, feedbackRepo)

	secureCookies := cfg.Environment == "production"
	mux := delivery.NewRouter(delivery.Controllers{
		Auth:         controllers.NewAuthController(logger, authService, cfg.SessionExpiry, secureCookies),
		Activity:     controllers.NewActivityController(logger, activityService, exportService),
		Attendance:   controllers.NewAttendanceController(logger, attendanceService),
		Feedback:     controllers.NewFeedbackController(logger, feedbackService),
		Registration: controllers.NewRegistrationController(logger, registrationService),
		Service:      controllers.NewServiceController(logger, serviceService),
		User:         controllers.NewUserController(logger, userService),
		Invitation:   controllers.NewInvitationController(logger, invitationService),
	}, sessions, logger)

	handler := middleware.RequestID(
		middleware.CORS(cfg.AllowedOrigins,
			middleware.LoggingMiddleware(logger, mux)))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "err", err)
	}
	logger.Info("server stopped")
}
