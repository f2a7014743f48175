package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"CODIGOCERTO_BACK-END/internal/config"
	"CODIGOCERTO_BACK-END/internal/dto"
	"CODIGOCERTO_BACK-END/internal/middleware"
	"CODIGOCERTO_BACK-END/internal/models"
	"CODIGOCERTO_BACK-END/internal/repository"
	"CODIGOCERTO_BACK-END/internal/utils"
)

const (
	defaultApplicantsLimit = 50
	maxApplicantsLimit     = 200
)

// AdminHandler handles the admin login and the applicant listing
type AdminHandler struct {
	store     repository.Store
	admin     config.AdminConfig
	jwt       *config.JWTConfig
	validator *utils.Validator
	logger    *zap.Logger
}

// NewAdminHandler creates a new AdminHandler instance
func NewAdminHandler(store repository.Store, admin config.AdminConfig, jwtCfg *config.JWTConfig, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		store:     store,
		admin:     admin,
		jwt:       jwtCfg,
		validator: utils.NewValidator(),
		logger:    logger,
	}
}

// Login handles admin login
// @Summary Admin login
// @Description Exchanges the admin credentials for a bearer token
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Admin credentials"
// @Success 200 {object} dto.AdminLoginResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/admin/login [post]
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, errInvalidPayload, err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, errInvalidPayload, err.Error())
		return
	}

	if !h.checkCredentials(req.Email, req.Password) {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Credenciais inválidas", "")
		return
	}

	token, err := middleware.GenerateAdminToken(h.admin.Email, h.jwt)
	if err != nil {
		h.logger.Error("generate admin token", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, errProcessingFailed, "")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.AdminLoginResponse{
		Token:     token,
		ExpiresIn: h.jwt.AccessTokenTTL.String(),
	})
}

func (h *AdminHandler) checkCredentials(email, password string) bool {
	if h.admin.Email == "" || h.admin.PasswordHash == "" {
		return false
	}
	emailOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(email)), []byte(strings.ToLower(h.admin.Email))) == 1
	passwordOK := bcrypt.CompareHashAndPassword([]byte(h.admin.PasswordHash), []byte(password)) == nil
	return emailOK && passwordOK
}

// ListApplicants lists registered applicants, newest first
// @Summary List applicants
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param tipo query string false "mentor or voluntario"
// @Param limit query int false "Page size (default 50, max 200)"
// @Param offset query int false "Rows to skip"
// @Success 200 {object} dto.ApplicantsListResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/admin/applicants [get]
func (h *AdminHandler) ListApplicants(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filter, msg := parseListFilter(r)
	if msg != "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Parâmetros inválidos", msg)
		return
	}

	applicants, err := h.store.ListApplicants(r.Context(), filter)
	if err != nil {
		h.logger.Error("list applicants",
			zap.String("request_id", middleware.RequestIDFromContext(r.Context())),
			zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, errProcessingFailed, "")
		return
	}

	resp := dto.ApplicantsListResponse{
		Applicants: make([]dto.ApplicantResponse, 0, len(applicants)),
		Pagination: dto.ApplicantsPagination{Limit: filter.Limit, Offset: filter.Offset, Count: len(applicants)},
	}
	for _, a := range applicants {
		resp.Applicants = append(resp.Applicants, dto.NewApplicantResponse(a))
	}

	utils.WriteJSONResponse(w, http.StatusOK, resp)
}

// parseListFilter reads tipo, limit and offset. A non-empty message means the query is invalid.
func parseListFilter(r *http.Request) (repository.ListFilter, string) {
	q := r.URL.Query()
	filter := repository.ListFilter{Limit: defaultApplicantsLimit}

	if tipo := q.Get("tipo"); tipo != "" {
		kind, ok := models.ParseKind(tipo)
		if !ok {
			return filter, "tipo deve ser mentor ou voluntario"
		}
		filter.Kind = kind
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return filter, "limit deve ser um inteiro positivo"
		}
		filter.Limit = min(limit, maxApplicantsLimit)
	}

	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return filter, "offset deve ser um inteiro não negativo"
		}
		filter.Offset = offset
	}

	return filter, ""
}
