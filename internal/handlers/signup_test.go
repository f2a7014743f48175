package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"CODIGOCERTO_BACK-END/internal/dto"
	"CODIGOCERTO_BACK-END/internal/emails"
	"CODIGOCERTO_BACK-END/internal/metrics"
	"CODIGOCERTO_BACK-END/internal/models"
	"CODIGOCERTO_BACK-END/internal/repository"
)

const anaPayload = `{
	"nome": "Ana Silva",
	"email": "ana@x.com",
	"telefone": "+551199999999",
	"pais": "BR",
	"funcaoPretendida": "dev",
	"disponibilidade": "noites",
	"linkedin": "li/ana",
	"tipo": "mentor"
}`

type signupFixture struct {
	store    *memStore
	mailer   *fakeMailer
	notifier *fakeNotifier
	metrics  *metrics.Metrics
	logs     *observer.ObservedLogs
	handler  *SignupHandler
}

func newSignupFixture(t *testing.T) *signupFixture {
	t.Helper()
	renderer, err := emails.NewRenderer("https://api.codigocerto.dev", func(email string) (string, error) {
		return "tok", nil
	})
	require.NoError(t, err)

	core, logs := observer.New(zapcore.InfoLevel)
	f := &signupFixture{
		store:    &memStore{},
		mailer:   &fakeMailer{},
		notifier: &fakeNotifier{},
		metrics:  metrics.New(),
		logs:     logs,
	}
	f.handler = NewSignupHandler(f.store, renderer, f.mailer, f.notifier, f.metrics, zap.New(core))
	return f
}

func (f *signupFixture) post(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/cadastro", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.Signup(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

// payload returns a valid submission with the given fields replaced or, for nil values, removed
func payload(t *testing.T, overrides map[string]any) string {
	t.Helper()
	fields := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(anaPayload), &fields))
	for k, v := range overrides {
		if v == nil {
			delete(fields, k)
			continue
		}
		fields[k] = v
	}
	b, err := json.Marshal(fields)
	require.NoError(t, err)
	return string(b)
}

func TestSignupMentorScenario(t *testing.T) {
	f := newSignupFixture(t)

	rec := f.post(anaPayload)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Body.String())

	require.Equal(t, 1, f.store.count())
	stored := f.store.applicants[0]
	assert.Equal(t, "Ana Silva", stored.User.Name)
	assert.Equal(t, "ana@x.com", stored.User.Email)
	assert.Equal(t, "+551199999999", stored.User.Phone)
	assert.Equal(t, stored.User.ID, stored.Info.UserID)
	assert.Equal(t, "BR", stored.Info.Country)
	assert.Equal(t, "dev", stored.Info.DesiredRole)
	assert.Equal(t, "noites", stored.Info.Availability)
	assert.Equal(t, "li/ana", stored.Info.LinkedIn)
	assert.True(t, stored.Info.IsMentor)
	assert.False(t, stored.Info.WillingToLead)
	assert.Equal(t, "Nenhuma informada", stored.Info.Experience)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "ana@x.com", f.mailer.sent[0].to)
	assert.Equal(t, emails.SubjectMentor, f.mailer.sent[0].subject)
	assert.Contains(t, f.mailer.sent[0].body, "Ana Silva!")

	require.Len(t, f.notifier.notified, 1)
	assert.Equal(t, stored, f.notifier.notified[0])

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SubmissionsTotal.WithLabelValues("mentor", metrics.OutcomeCreated)))
}

func TestSignupVolunteerProfileDefaults(t *testing.T) {
	tests := []struct {
		name       string
		overrides  map[string]any
		wantLead   bool
		wantMentor bool
		wantExp    string
		wantSubj   string
	}{
		{
			name:      "volunteer willing to lead",
			overrides: map[string]any{"tipo": "voluntario", "liderar": true},
			wantLead:  true,
			wantExp:   "Nenhuma informada",
			wantSubj:  emails.SubjectVolunteer,
		},
		{
			name:      "volunteer alias without lead flag",
			overrides: map[string]any{"tipo": "volunteer"},
			wantExp:   "Nenhuma informada",
			wantSubj:  emails.SubjectVolunteer,
		},
		{
			name:       "mentor lead flag is ignored",
			overrides:  map[string]any{"tipo": "mentor", "liderar": true},
			wantMentor: true,
			wantExp:    "Nenhuma informada",
			wantSubj:   emails.SubjectMentor,
		},
		{
			name:       "experience kept when given",
			overrides:  map[string]any{"experiencia": "5 anos com Go"},
			wantMentor: true,
			wantExp:    "5 anos com Go",
			wantSubj:   emails.SubjectMentor,
		},
		{
			name:       "empty experience gets placeholder",
			overrides:  map[string]any{"experiencia": ""},
			wantMentor: true,
			wantExp:    "Nenhuma informada",
			wantSubj:   emails.SubjectMentor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSignupFixture(t)

			rec := f.post(payload(t, tt.overrides))

			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			require.Equal(t, 1, f.store.count())
			info := f.store.applicants[0].Info
			assert.Equal(t, tt.wantLead, info.WillingToLead)
			assert.Equal(t, tt.wantMentor, info.IsMentor)
			assert.Equal(t, tt.wantExp, info.Experience)
			require.Len(t, f.mailer.sent, 1)
			assert.Equal(t, tt.wantSubj, f.mailer.sent[0].subject)
		})
	}
}

func TestSignupVolunteerEmailCarriesUnsubscribeLink(t *testing.T) {
	f := newSignupFixture(t)

	rec := f.post(payload(t, map[string]any{"tipo": "voluntario"}))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, f.mailer.sent, 1)
	assert.Contains(t, f.mailer.sent[0].body, "/update-newsletter?email=ana%40x.com")
}

func TestSignupRejectsInvalidPayloadWithoutSideEffects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing name", payload(t, map[string]any{"nome": nil}), "nome: campo obrigatório"},
		{"short name", payload(t, map[string]any{"nome": "Al"}), "nome: deve ter pelo menos 3 caracteres"},
		{"malformed email", payload(t, map[string]any{"email": "ana-at-x.com"}), "email: email inválido"},
		{"missing phone", payload(t, map[string]any{"telefone": nil}), "telefone: campo obrigatório"},
		{"missing country", payload(t, map[string]any{"pais": nil}), "pais: campo obrigatório"},
		{"missing linkedin", payload(t, map[string]any{"linkedin": nil}), "linkedin: campo obrigatório"},
		{"missing kind", payload(t, map[string]any{"tipo": nil}), "tipo: campo obrigatório"},
		{"unknown kind", payload(t, map[string]any{"tipo": "admin"}), "tipo: deve ser um de"},
		{"lead flag with wrong type", payload(t, map[string]any{"liderar": "sim"}), "corpo da requisição inválido"},
		{"malformed json", `{"nome": "Ana"`, "corpo da requisição inválido"},
		{"trailing data", payload(t, nil) + ` garbage`, "dados extras"},
		{"second object", payload(t, nil) + `{}`, "dados extras"},
		{"stray closing brace", payload(t, nil) + `}`, "dados extras"},
		{"empty body", ``, "corpo da requisição inválido"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSignupFixture(t)

			rec := f.post(tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, "Dados inválidos", resp.Error)
			assert.Contains(t, resp.Message, tt.want)

			assert.Zero(t, f.store.count())
			assert.Empty(t, f.mailer.sent)
			assert.Empty(t, f.notifier.notified)
		})
	}
}

func TestSignupAcceptsEmptyFreeTextFields(t *testing.T) {
	f := newSignupFixture(t)

	rec := f.post(payload(t, map[string]any{
		"pais":             "",
		"funcaoPretendida": "",
		"disponibilidade":  "",
		"linkedin":         "",
	}) + "\n")

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Equal(t, 1, f.store.count())
	info := f.store.applicants[0].Info
	assert.Empty(t, info.Country)
	assert.Empty(t, info.LinkedIn)
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newSignupFixture(t)
	require.Equal(t, http.StatusCreated, f.post(anaPayload).Code)

	rec := f.post(payload(t, map[string]any{
		"nome":     "Outra Ana",
		"telefone": "+552188888888",
		"tipo":     "voluntario",
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, dto.ErrorResponse{Error: "Email já cadastrado"}, decodeError(t, rec))
	assert.Equal(t, 1, f.store.count())
	assert.Len(t, f.mailer.sent, 1)
	assert.Len(t, f.notifier.notified, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SubmissionsTotal.WithLabelValues("voluntario", metrics.OutcomeDuplicateEmail)))
}

func TestSignupDuplicatePhone(t *testing.T) {
	f := newSignupFixture(t)
	require.Equal(t, http.StatusCreated, f.post(anaPayload).Code)

	rec := f.post(payload(t, map[string]any{"email": "bruno@x.com"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, dto.ErrorResponse{Error: "Telefone já cadastrado"}, decodeError(t, rec))
	assert.Equal(t, 1, f.store.count())
	assert.Len(t, f.mailer.sent, 1)
}

func TestSignupEmailCheckedBeforePhone(t *testing.T) {
	f := newSignupFixture(t)
	require.Equal(t, http.StatusCreated, f.post(anaPayload).Code)

	rec := f.post(anaPayload)

	assert.Equal(t, "Email já cadastrado", decodeError(t, rec).Error)
}

func TestSignupUniqueConstraintRace(t *testing.T) {
	tests := []struct {
		createErr error
		want      string
	}{
		{createErr: repository.ErrDuplicateEmail, want: "Email já cadastrado"},
		{createErr: repository.ErrDuplicatePhone, want: "Telefone já cadastrado"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			f := newSignupFixture(t)
			// lookups pass, the concurrent insert wins at the constraint
			f.store.createErr = tt.createErr

			rec := f.post(anaPayload)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, decodeError(t, rec).Error)
			assert.Empty(t, f.mailer.sent)
			assert.Empty(t, f.notifier.notified)
		})
	}
}

func TestSignupInternalFailures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name       string
		setup      func(*signupFixture)
		stage      string
		wantStored int
		wantMails  int
	}{
		{
			name:  "lookup fails",
			setup: func(f *signupFixture) { f.store.findErr = boom },
			stage: metrics.StageStore,
		},
		{
			name:  "insert fails",
			setup: func(f *signupFixture) { f.store.createErr = boom },
			stage: metrics.StageStore,
		},
		{
			name:       "render fails",
			setup:      func(f *signupFixture) { f.handler.renderer = failingRenderer{err: boom} },
			stage:      metrics.StageRender,
			wantStored: 1,
		},
		{
			name:       "mail fails",
			setup:      func(f *signupFixture) { f.mailer.err = boom },
			stage:      metrics.StageMail,
			wantStored: 1,
		},
		{
			name:       "notify fails",
			setup:      func(f *signupFixture) { f.notifier.err = boom },
			stage:      metrics.StageNotify,
			wantStored: 1,
			wantMails:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSignupFixture(t)
			tt.setup(f)

			rec := f.post(anaPayload)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, dto.ErrorResponse{Error: "Erro ao processar requisição"}, decodeError(t, rec))
			assert.Equal(t, tt.wantStored, f.store.count(), "committed rows are not rolled back")
			assert.Len(t, f.mailer.sent, tt.wantMails)
			assert.Empty(t, f.notifier.notified)

			assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SubmissionFailuresTotal.WithLabelValues(tt.stage)))
			entries := f.logs.FilterMessage("signup failed").All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.stage, entries[0].ContextMap()["stage"])
			assert.Equal(t, "boom", entries[0].ContextMap()["error"])
		})
	}
}

func TestSignupMethodNotAllowed(t *testing.T) {
	f := newSignupFixture(t)
	rec := httptest.NewRecorder()

	f.handler.Signup(rec, httptest.NewRequest(http.MethodGet, "/api/cadastro", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNewApplicantRecords(t *testing.T) {
	lead := true
	exp := "Go"
	phone, country, empty := "+5511", "BR", ""
	req := dto.SignupRequest{
		Name:         "Ana Silva",
		Email:        "ana@x.com",
		Phone:        &phone,
		Country:      &country,
		DesiredRole:  &empty,
		Availability: &empty,
		LinkedIn:     &empty,
		Lead:         &lead,
		Experience:   &exp,
	}

	user, info := newApplicantRecords(req, models.KindVolunteer)
	assert.Equal(t, "Ana Silva", user.Name)
	assert.Equal(t, "+5511", user.Phone)
	assert.Equal(t, "BR", info.Country)
	assert.Empty(t, info.LinkedIn)
	assert.True(t, info.WillingToLead)
	assert.False(t, info.IsMentor)
	assert.Equal(t, "Go", info.Experience)

	_, info = newApplicantRecords(req, models.KindMentor)
	assert.False(t, info.WillingToLead)
	assert.True(t, info.IsMentor)
}
