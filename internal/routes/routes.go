package routes

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"CODIGOCERTO_BACK-END/internal/config"
	"CODIGOCERTO_BACK-END/internal/handlers"
	"CODIGOCERTO_BACK-END/internal/middleware"
)

// Handlers groups everything SetupRoutes mounts
type Handlers struct {
	Health     *handlers.HealthHandler
	Signup     *handlers.SignupHandler
	Newsletter *handlers.NewsletterHandler
	Admin      *handlers.AdminHandler
	Metrics    http.Handler
	JWT        *config.JWTConfig
}

// SetupRoutes configures all application routes on a new mux
func SetupRoutes(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check routes
	mux.HandleFunc("/healthz", h.Health.HealthCheck)
	mux.HandleFunc("/livez", h.Health.LivenessCheck)
	mux.HandleFunc("/readyz", h.Health.ReadinessCheck)

	// Sign-up routes. /send-mail is the path used by the first version of the form.
	mux.HandleFunc("/api/cadastro", h.Signup.Signup)
	mux.HandleFunc("/send-mail", h.Signup.Signup)
	mux.HandleFunc("/update-newsletter", h.Newsletter.Unsubscribe)

	// Admin routes
	mux.HandleFunc("/api/admin/login", h.Admin.Login)
	mux.HandleFunc("/api/admin/applicants", middleware.AdminAuthMiddleware(h.Admin.ListApplicants, h.JWT))

	if h.Metrics != nil {
		mux.Handle("/metrics", h.Metrics)
	}
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Root route
	mux.HandleFunc("/", rootHandler)

	return mux
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Write([]byte("Código Certo Coders sign-up backend is running."))
}
