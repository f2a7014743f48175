package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"CODIGOCERTO_BACK-END/internal/dto"
	"CODIGOCERTO_BACK-END/internal/emails"
	"CODIGOCERTO_BACK-END/internal/metrics"
	"CODIGOCERTO_BACK-END/internal/middleware"
	"CODIGOCERTO_BACK-END/internal/models"
	"CODIGOCERTO_BACK-END/internal/notify"
	"CODIGOCERTO_BACK-END/internal/repository"
	"CODIGOCERTO_BACK-END/internal/utils"
)

const (
	errInvalidPayload   = "Dados inválidos"
	errEmailRegistered  = "Email já cadastrado"
	errPhoneRegistered  = "Telefone já cadastrado"
	errProcessingFailed = "Erro ao processar requisição"

	maxSignupBodyBytes = 1 << 20
)

// EmailRenderer renders the confirmation email for an applicant kind
type EmailRenderer interface {
	Render(kind models.Kind, v emails.View) (subject, body string, err error)
}

// SignupHandler handles volunteer and mentor sign-ups
type SignupHandler struct {
	store     repository.Store
	renderer  EmailRenderer
	mailer    utils.Mailer
	notifier  notify.AdminNotifier
	validator *utils.Validator
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewSignupHandler creates a new SignupHandler instance
func NewSignupHandler(
	store repository.Store,
	renderer EmailRenderer,
	mailer utils.Mailer,
	notifier notify.AdminNotifier,
	m *metrics.Metrics,
	logger *zap.Logger,
) *SignupHandler {
	return &SignupHandler{
		store:     store,
		renderer:  renderer,
		mailer:    mailer,
		notifier:  notifier,
		validator: utils.NewValidator(),
		metrics:   m,
		logger:    logger,
	}
}

// Signup registers a volunteer or mentor
// @Summary Register a volunteer or mentor
// @Description Validates the form, stores the applicant, emails a confirmation and notifies the admins
// @Tags cadastro
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Sign-up form"
// @Success 201 "Created, empty body"
// @Failure 400 {object} dto.ErrorResponse "Invalid data, email or phone already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/cadastro [post]
func (h *SignupHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.SignupRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		h.metrics.Submission("", metrics.OutcomeInvalid)
		utils.WriteErrorResponse(w, http.StatusBadRequest, errInvalidPayload, "corpo da requisição inválido: "+err.Error())
		return
	}

	kind, _ := models.ParseKind(req.Kind)
	if err := h.validator.Struct(req); err != nil {
		h.metrics.Submission(string(kind), metrics.OutcomeInvalid)
		utils.WriteErrorResponse(w, http.StatusBadRequest, errInvalidPayload, err.Error())
		return
	}

	ctx := r.Context()
	log := h.logger.With(
		zap.String("request_id", middleware.RequestIDFromContext(ctx)),
		zap.String("kind", string(kind)),
	)

	// Friendly per-field checks. The unique constraints below remain the final word.
	if _, err := h.store.FindUserByEmail(ctx, req.Email); err == nil {
		h.rejectDuplicate(w, kind, metrics.OutcomeDuplicateEmail, errEmailRegistered)
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		h.fail(w, log, kind, metrics.StageStore, err)
		return
	}

	if _, err := h.store.FindUserByPhone(ctx, *req.Phone); err == nil {
		h.rejectDuplicate(w, kind, metrics.OutcomeDuplicatePhone, errPhoneRegistered)
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		h.fail(w, log, kind, metrics.StageStore, err)
		return
	}

	user, info := newApplicantRecords(req, kind)
	if err := h.store.CreateApplicant(ctx, user, info); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			h.rejectDuplicate(w, kind, metrics.OutcomeDuplicateEmail, errEmailRegistered)
		case errors.Is(err, repository.ErrDuplicatePhone):
			h.rejectDuplicate(w, kind, metrics.OutcomeDuplicatePhone, errPhoneRegistered)
		default:
			h.fail(w, log, kind, metrics.StageStore, err)
		}
		return
	}
	log = log.With(zap.String("user_id", user.ID.String()))

	subject, body, err := h.renderer.Render(kind, emails.View{Name: user.Name, Email: user.Email})
	if err != nil {
		h.fail(w, log, kind, metrics.StageRender, err)
		return
	}

	if err := h.mailer.Send(ctx, user.Email, subject, body); err != nil {
		h.fail(w, log, kind, metrics.StageMail, err)
		return
	}

	if err := h.notifier.NotifyAdmin(ctx, models.Applicant{User: *user, Info: *info}); err != nil {
		h.fail(w, log, kind, metrics.StageNotify, err)
		return
	}

	h.metrics.Submission(string(kind), metrics.OutcomeCreated)
	log.Info("applicant registered")
	w.WriteHeader(http.StatusCreated)
}

// decodeJSONBody decodes exactly one JSON value from the request body
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSignupBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("dados extras após o objeto JSON")
	}
	return nil
}

// newApplicantRecords derives the identity and profile rows from a validated request
func newApplicantRecords(req dto.SignupRequest, kind models.Kind) (*models.User, *models.UserInfo) {
	user := &models.User{
		Name:  req.Name,
		Email: req.Email,
		Phone: *req.Phone,
	}

	info := &models.UserInfo{
		Country:      *req.Country,
		DesiredRole:  *req.DesiredRole,
		Availability: *req.Availability,
		LinkedIn:     *req.LinkedIn,
		IsMentor:     kind == models.KindMentor,
		Experience:   models.NoExperience,
	}
	if kind == models.KindVolunteer && req.Lead != nil {
		info.WillingToLead = *req.Lead
	}
	if req.Experience != nil && *req.Experience != "" {
		info.Experience = *req.Experience
	}

	return user, info
}

func (h *SignupHandler) rejectDuplicate(w http.ResponseWriter, kind models.Kind, outcome, msg string) {
	h.metrics.Submission(string(kind), outcome)
	utils.WriteErrorResponse(w, http.StatusBadRequest, msg, "")
}

// fail answers with the generic server error. The stage only reaches logs and metrics.
func (h *SignupHandler) fail(w http.ResponseWriter, log *zap.Logger, kind models.Kind, stage string, err error) {
	log.Error("signup failed", zap.String("stage", stage), zap.Error(err))
	h.metrics.Failure(stage)
	h.metrics.Submission(string(kind), metrics.OutcomeError)
	utils.WriteErrorResponse(w, http.StatusInternalServerError, errProcessingFailed, "")
}
