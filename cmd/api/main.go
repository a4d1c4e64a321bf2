package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smartmeet/config"
	"smartmeet/internal/adapters/auth"
	"smartmeet/internal/adapters/email"
	httpdelivery "smartmeet/internal/delivery/http"
	"smartmeet/internal/delivery/http/controllers"
	"smartmeet/internal/delivery/http/middleware"
	"smartmeet/internal/llm"
	"smartmeet/internal/repository/memory"
	"smartmeet/internal/services"
)

const serviceTimeout = 15 * time.Second

// @title SmartMeet API
// @version 1.0
// @description AI-assisted meeting scheduling backend.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := config.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	llmClient, err := llm.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	if err != nil {
		log.Fatalf("failed to create LLM client: %v", err)
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
	}, logger)
	if err != nil {
		log.Fatalf("failed to create mailer: %v", err)
	}
	invitations := email.NewInvitationSender(mailer, logger)

	tokenCodec := auth.NewJWTCodec(cfg.JWTSecret)
	meetingRepo := memory.NewMeetingRepository()

	meetingService := services.NewMeetingService(meetingRepo, invitations, logger, serviceTimeout)
	wizardService := services.NewWizardService(meetingService, llmClient)
	assistantService := services.NewAssistantService(llmClient, logger, serviceTimeout)
	userService := services.NewUserService(tokenCodec, time.Duration(cfg.TokenExpiryHours)*time.Hour)

	authController := controllers.NewAuthController(logger, userService)
	meetingController := controllers.NewMeetingController(logger, meetingService)
	wizardController := controllers.NewWizardController(logger, wizardService)
	assistantController := controllers.NewAssistantController(logger, assistantService, wizardService)

	mux := httpdelivery.NewRouter(authController, meetingController, wizardController, assistantController, tokenCodec)
	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("server shutdown failed", "err", err)
	}
	assistantService.Shutdown()
	meetingService.Shutdown()
}
