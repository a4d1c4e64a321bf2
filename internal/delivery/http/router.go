package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"smartmeet/internal/delivery/http/controllers"
	"smartmeet/internal/delivery/http/middleware"
	"smartmeet/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	authController *controllers.AuthController,
	meetingController *controllers.MeetingController,
	wizardController *controllers.WizardController,
	assistantController *controllers.AssistantController,
	verifier domain.TokenVerifier,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier)

	// Auth
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Meetings
	mux.HandleFunc("GET /meetings", auth(meetingController.List))
	mux.HandleFunc("GET /meetings/{meetingID}", auth(meetingController.GetByID))

	// Scheduling wizard
	mux.HandleFunc("POST /wizard", auth(wizardController.Open))
	mux.HandleFunc("GET /wizard/{sessionID}", auth(wizardController.Get))
	mux.HandleFunc("PATCH /wizard/{sessionID}", auth(wizardController.UpdateFields))
	mux.HandleFunc("DELETE /wizard/{sessionID}", auth(wizardController.Close))
	mux.HandleFunc("POST /wizard/{sessionID}/next", auth(wizardController.Next))
	mux.HandleFunc("POST /wizard/{sessionID}/back", auth(wizardController.Back))
	mux.HandleFunc("POST /wizard/{sessionID}/suggestions", auth(wizardController.FetchSuggestions))
	mux.HandleFunc("POST /wizard/{sessionID}/select", auth(wizardController.SelectSlot))
	mux.HandleFunc("POST /wizard/{sessionID}/submit", auth(wizardController.Submit))

	// Assistant
	mux.HandleFunc("GET /assistant/messages", auth(assistantController.Transcript))
	mux.HandleFunc("POST /assistant/messages", auth(assistantController.Send))
	mux.HandleFunc("POST /assistant/schedule", auth(assistantController.Schedule))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return mux
}
