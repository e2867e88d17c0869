package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"semecity/internal/delivery/http/controllers"
	"semecity/internal/delivery/http/helpers"
	"semecity/internal/delivery/http/middleware"
	"semecity/internal/domain"
)

// Controllers bundles the constructed controllers for NewRouter.
type Controllers struct {
	Auth         *controllers.AuthController
	Activity     *controllers.ActivityController
	Attendance   *controllers.AttendanceController
	Feedback     *controllers.FeedbackController
	Registration *controllers.RegistrationController
	Service      *controllers.ServiceController
	User         *controllers.UserController
	Invitation   *controllers.InvitationController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier, logger)
	admin := middleware.RequireAdmin()
	staff := middleware.RequireRole(domain.RoleAdmin, domain.RoleResponsableService)

	// Auth (public)
	mux.HandleFunc("POST /api/auth/login", c.Auth.Login)
	mux.HandleFunc("POST /api/auth/logout", c.Auth.Logout)
	mux.HandleFunc("POST /api/auth/register", c.Auth.Register)
	mux.HandleFunc("POST /api/auth/verify-email", c.Auth.VerifyEmail)

	// Activities
	mux.HandleFunc("GET /api/activites", auth(c.Activity.List))
	mux.HandleFunc("POST /api/activites", auth(staff(c.Activity.Create)))
	mux.HandleFunc("GET /api/activites/{id}", auth(c.Activity.GetByID))
	mux.HandleFunc("PUT /api/activites/{id}", auth(staff(c.Activity.Update)))
	mux.HandleFunc("DELETE /api/activites/{id}", auth(staff(c.Activity.Delete)))
	mux.HandleFunc("GET /api/activites/{id}/export", auth(c.Activity.Export))

	// Public capability endpoints: the access token is the credential.
	mux.HandleFunc("GET /api/public/activites/{accessToken}", c.Activity.GetPublic)
	mux.HandleFunc("POST /api/presences", c.Attendance.Submit)
	mux.HandleFunc("POST /api/retours", c.Feedback.Submit)

	// Attendance and feedback consultation
	mux.HandleFunc("GET /api/presences/{activityId}", auth(c.Attendance.ListForActivity))
	mux.HandleFunc("GET /api/retours/{activityId}", auth(c.Feedback.ListForActivity))

	// Registrations (participants)
	mux.HandleFunc("GET /api/registrations", auth(c.Registration.ListMine))
	mux.HandleFunc("POST /api/registrations", auth(middleware.RequireRole(domain.RoleParticipant)(c.Registration.Register)))
	mux.HandleFunc("DELETE /api/registrations/{id}", auth(c.Registration.Cancel))

	// Services (admin)
	mux.HandleFunc("GET /api/services", auth(admin(c.Service.List)))
	mux.HandleFunc("POST /api/services", auth(admin(c.Service.Create)))
	mux.HandleFunc("GET /api/services/{id}", auth(admin(c.Service.GetByID)))
	mux.HandleFunc("PUT /api/services/{id}", auth(admin(c.Service.Update)))
	mux.HandleFunc("DELETE /api/services/{id}", auth(admin(c.Service.Delete)))

	// Users
	mux.HandleFunc("GET /api/users", auth(admin(c.User.List)))
	mux.HandleFunc("GET /api/users/{id}", auth(admin(c.User.GetByID)))
	mux.HandleFunc("PUT /api/users/{id}", auth(admin(c.User.Update)))
	mux.HandleFunc("DELETE /api/users/{id}", auth(admin(c.User.Delete)))
	mux.HandleFunc("GET /api/intervenants", auth(c.User.ListIntervenants))
	mux.HandleFunc("GET /api/participant/history", auth(c.User.History))

	// Invitations
	mux.HandleFunc("GET /api/invitations", auth(c.Invitation.List))
	mux.HandleFunc("POST /api/invitations", auth(staff(c.Invitation.Create)))
	mux.HandleFunc("GET /api/invitations/accept", c.Invitation.GetInfo)
	mux.HandleFunc("POST /api/invitations/accept", c.Invitation.Accept)

	// Ops
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
