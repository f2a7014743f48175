package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"CODIGOCERTO_BACK-END/internal/config"
	"CODIGOCERTO_BACK-END/internal/dto"
	"CODIGOCERTO_BACK-END/internal/metrics"
	"CODIGOCERTO_BACK-END/internal/middleware"
	"CODIGOCERTO_BACK-END/internal/repository"
	"CODIGOCERTO_BACK-END/internal/utils"
)

// NewsletterHandler handles the unsubscribe links sent in volunteer emails
type NewsletterHandler struct {
	store   repository.Store
	jwt     *config.JWTConfig
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewNewsletterHandler creates a new NewsletterHandler instance
func NewNewsletterHandler(store repository.Store, jwtCfg *config.JWTConfig, m *metrics.Metrics, logger *zap.Logger) *NewsletterHandler {
	return &NewsletterHandler{store: store, jwt: jwtCfg, metrics: m, logger: logger}
}

// Unsubscribe turns the newsletter off for the email in the link
// @Summary Unsubscribe from the newsletter
// @Tags newsletter
// @Produce json
// @Param email query string true "Subscriber email"
// @Param token query string true "Signed unsubscribe token"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Missing email"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired link"
// @Failure 404 {object} dto.ErrorResponse "Unknown email"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /update-newsletter [get]
func (h *NewsletterHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	email := r.URL.Query().Get("email")
	if email == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Email obrigatório", "")
		return
	}

	if _, err := middleware.ValidateNewsletterToken(r.URL.Query().Get("token"), email, h.jwt); err != nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Link inválido ou expirado", "")
		return
	}

	err := h.store.SetNewsletter(r.Context(), email, false)
	if errors.Is(err, repository.ErrNotFound) {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Email não encontrado", "")
		return
	}
	if err != nil {
		h.logger.Error("newsletter opt-out failed",
			zap.String("request_id", middleware.RequestIDFromContext(r.Context())),
			zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, errProcessingFailed, "")
		return
	}

	h.metrics.NewsletterOptOut()
	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Message: "Inscrição na newsletter cancelada"})
}
