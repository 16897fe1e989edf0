package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/colposcopia/colpo-api/internal/config"
	"github.com/colposcopia/colpo-api/internal/domain"
	"github.com/colposcopia/colpo-api/internal/domain/appointment"
	"github.com/colposcopia/colpo-api/internal/domain/exam"
	"github.com/colposcopia/colpo-api/internal/domain/patient"
	"github.com/colposcopia/colpo-api/internal/report"
	"github.com/colposcopia/colpo-api/internal/service"
	"github.com/colposcopia/colpo-api/internal/storage"
	"github.com/colposcopia/colpo-api/pkg/auth"
	"github.com/colposcopia/colpo-api/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testCollector is shared across all router fixtures; prometheus forbids
// registering the same metric twice in one process.
var testCollector = metrics.NewCollector("handlertest")

func init() {
	gin.SetMode(gin.TestMode)
}

type stubPatientRepo struct {
	patients map[uint]*patient.Patient
}

func (s *stubPatientRepo) Create(ctx context.Context, p *patient.Patient) error {
	p.ID = uint(len(s.patients) + 1)
	s.patients[p.ID] = p
	return nil
}

func (s *stubPatientRepo) GetByID(ctx context.Context, id uint) (*patient.Patient, error) {
	p, ok := s.patients[id]
	if !ok {
		return nil, patient.ErrPatientNotFound
	}
	return p, nil
}

func (s *stubPatientRepo) Update(ctx context.Context, id uint, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	return s.GetByID(ctx, id)
}

func (s *stubPatientRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := s.patients[id]; !ok {
		return patient.ErrPatientNotFound
	}
	delete(s.patients, id)
	return nil
}

func (s *stubPatientRepo) List(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	out := &patient.PagedPatients{Page: q.Page, PageSize: q.PageSize}
	for _, p := range s.patients {
		out.Patients = append(out.Patients, p)
		out.TotalCount++
	}
	return out, nil
}

type stubExamRepo struct {
	records map[uint]*exam.Record
	nextID  uint
}

func (s *stubExamRepo) Create(ctx context.Context, r *exam.Record) error {
	s.nextID++
	r.ID = s.nextID
	s.records[r.ID] = r
	return nil
}

func (s *stubExamRepo) GetByID(ctx context.Context, id uint) (*exam.Record, error) {
	r, ok := s.records[id]
	if !ok {
		return nil, exam.ErrExamNotFound
	}
	return r, nil
}

func (s *stubExamRepo) Update(ctx context.Context, r *exam.Record) error {
	s.records[r.ID] = r
	return nil
}

func (s *stubExamRepo) Delete(ctx context.Context, id uint) error {
	delete(s.records, id)
	return nil
}

func (s *stubExamRepo) ListByPatient(ctx context.Context, q *exam.ListByPatientQuery) ([]*exam.Record, error) {
	var out []*exam.Record
	for _, r := range s.records {
		if r.PatientID == q.PatientID {
			out = append(out, r)
		}
	}
	return out, nil
}

type stubAppointmentRepo struct {
	items map[uint]*appointment.Appointment
}

func (s *stubAppointmentRepo) Create(ctx context.Context, a *appointment.Appointment) error {
	a.ID = uint(len(s.items) + 1)
	s.items[a.ID] = a
	return nil
}

func (s *stubAppointmentRepo) GetByID(ctx context.Context, id uint) (*appointment.Appointment, error) {
	a, ok := s.items[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	return a, nil
}

func (s *stubAppointmentRepo) Update(ctx context.Context, id uint, cmd *appointment.UpdateAppointmentCommand) (*appointment.Appointment, error) {
	return s.GetByID(ctx, id)
}

func (s *stubAppointmentRepo) Delete(ctx context.Context, id uint) error {
	delete(s.items, id)
	return nil
}

func (s *stubAppointmentRepo) List(ctx context.Context, q *appointment.ListAppointmentsQuery) ([]*appointment.Appointment, error) {
	var out []*appointment.Appointment
	for _, a := range s.items {
		out = append(out, a)
	}
	return out, nil
}

type stubUserRepo struct {
	users map[uint]*domain.User
}

func (s *stubUserRepo) Create(ctx context.Context, u *domain.User) error {
	u.ID = uint(len(s.users) + 1)
	s.users[u.ID] = u
	return nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, service.ErrInvalidCredentials
}

func (s *stubUserRepo) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, service.ErrInvalidCredentials
	}
	return u, nil
}

func (s *stubUserRepo) RecordLogin(ctx context.Context, id uint, at time.Time) error {
	return nil
}

type recordingAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (r *recordingAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recordingAuditRepo) all() []*domain.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.AuditLog(nil), r.entries...)
}

type testEnv struct {
	router    *gin.Engine
	patients  *stubPatientRepo
	auditRepo *recordingAuditRepo
	audit     *service.AuditService
	jwt       *auth.JWTManager
}

func newTestEnv(t *testing.T, mutate func(cfg *config.Config)) *testEnv {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{Name: "colpo-api", Environment: "test", Version: "test"},
		Auth: config.AuthConfig{
			Enabled:         false,
			JWTSecret:       "test-secret-at-least-32-characters-long",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
			Issuer:          "colpo-api-test",
		},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"https://clinic.example", "https://admin.example"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
			MaxAge:         12 * time.Hour,
		},
		Upload: config.UploadConfig{
			Backend:      "local",
			Dir:          t.TempDir(),
			MaxSizeBytes: 1 << 20,
		},
	}
	if mutate != nil {
		mutate(cfg)
	}

	log := zap.NewNop()
	patients := &stubPatientRepo{patients: map[uint]*patient.Patient{
		1: {ID: 1, Name: "MARIA PEREZ", Referrer: "DRA. LOPEZ"},
	}}
	exams := &stubExamRepo{records: map[uint]*exam.Record{}}
	appointments := &stubAppointmentRepo{items: map[uint]*appointment.Appointment{}}
	users := &stubUserRepo{users: map[uint]*domain.User{}}
	auditRepo := &recordingAuditRepo{}

	audit := service.NewAuditService(auditRepo, testCollector, log)
	t.Cleanup(audit.Shutdown)

	jwtManager := auth.NewJWTManager(cfg.Auth)
	store, err := storage.NewLocalStore(cfg.Upload.Dir)
	require.NoError(t, err)

	router := NewRouter(RouterDeps{
		Config:      cfg,
		Logger:      log,
		Collector:   testCollector,
		JWTManager:  jwtManager,
		Auth:        NewAuthHandler(service.NewAuthService(users, jwtManager, audit, log)),
		Patient:     NewPatientHandler(service.NewPatientService(patients, exams, audit, log), testCollector),
		Exam:        NewExamHandler(service.NewExamService(exams, patients, audit, log), report.NewRenderer(cfg.Report, cfg.Upload, log), testCollector),
		Appointment: NewAppointmentHandler(service.NewAppointmentService(appointments, patients, audit, log), testCollector),
		Upload:      NewUploadHandler(store, cfg.Upload, testCollector, log),
	})

	return &testEnv{
		router:    router,
		patients:  patients,
		auditRepo: auditRepo,
		audit:     audit,
		jwt:       jwtManager,
	}
}

func (e *testEnv) do(method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestPatientErrorMapping(t *testing.T) {
	env := newTestEnv(t, nil)

	t.Run("unknown patient is 404", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/v1/patients/999", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "patient not found", resp.Error)
	})

	t.Run("malformed id is 400", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/v1/patients/abc", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("create without a name is 400", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/v1/patients", []byte(`{"birth_date":"1990-01-01"}`), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("valid create is 201", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/v1/patients",
			[]byte(`{"name":"ANA GOMEZ","birth_date":"1992-05-04"}`), nil)
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestExamValidationSurfacesFieldList(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(http.MethodPost, "/api/v1/patients/1/exams",
		[]byte(`{"study_date":"2026-01-10","gestas":"abc"}`), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation failed", resp.Error)
	require.NotEmpty(t, resp.Fields)
	assert.Contains(t, resp.Fields[0], "gestas")
}

func TestAuthenticateMiddleware(t *testing.T) {
	t.Run("disabled auth passes anonymous requests through", func(t *testing.T) {
		env := newTestEnv(t, nil)
		w := env.do(http.MethodGet, "/api/v1/patients", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("enabled auth rejects missing and bad tokens", func(t *testing.T) {
		env := newTestEnv(t, func(cfg *config.Config) { cfg.Auth.Enabled = true })

		w := env.do(http.MethodGet, "/api/v1/patients", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = env.do(http.MethodGet, "/api/v1/patients", nil, map[string]string{
			"Authorization": "Bearer not-a-token",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("enabled auth accepts a valid access token", func(t *testing.T) {
		env := newTestEnv(t, func(cfg *config.Config) { cfg.Auth.Enabled = true })

		pair, err := env.jwt.GenerateTokenPair(&auth.Claims{UserID: 1, Email: "doc@clinic"})
		require.NoError(t, err)

		w := env.do(http.MethodGet, "/api/v1/patients", nil, map[string]string{
			"Authorization": "Bearer " + pair.AccessToken,
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCORSEchoesSingleConfiguredOrigin(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, origin := range []string{"https://clinic.example", "https://admin.example"} {
		w := env.do(http.MethodGet, "/health", nil, map[string]string{"Origin": origin})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
	}

	t.Run("preflight", func(t *testing.T) {
		w := env.do(http.MethodOptions, "/api/v1/patients", nil, map[string]string{
			"Origin":                        "https://clinic.example",
			"Access-Control-Request-Method": "POST",
		})
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://clinic.example", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unlisted origin gets no allow header", func(t *testing.T) {
		w := env.do(http.MethodGet, "/health", nil, map[string]string{"Origin": "https://evil.example"})
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestUploadEndpoint(t *testing.T) {
	multipartBody := func(t *testing.T, filename string, content []byte) ([]byte, string) {
		t.Helper()
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())
		return buf.Bytes(), mw.FormDataContentType()
	}

	t.Run("stores an image and returns its path", func(t *testing.T) {
		env := newTestEnv(t, nil)
		body, contentType := multipartBody(t, "colpo.jpg", []byte("fake image bytes"))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", bytes.NewReader(body))
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"url":"/static/`)
		assert.Contains(t, w.Body.String(), ".jpg")
	})

	t.Run("rejects unsupported extensions", func(t *testing.T) {
		env := newTestEnv(t, nil)
		body, contentType := multipartBody(t, "notes.txt", []byte("not an image"))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", bytes.NewReader(body))
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects files over the size limit", func(t *testing.T) {
		env := newTestEnv(t, func(cfg *config.Config) { cfg.Upload.MaxSizeBytes = 4 })
		body, contentType := multipartBody(t, "big.jpg", []byte("more than four bytes"))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", bytes.NewReader(body))
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestAuditEntriesCarryRequestID(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(http.MethodPost, "/api/v1/patients",
		[]byte(`{"name":"ANA GOMEZ","birth_date":"1992-05-04"}`),
		map[string]string{"X-Request-ID": "req-http-42"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "req-http-42", w.Header().Get("X-Request-ID"))

	env.audit.Shutdown()

	entries := env.auditRepo.all()
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1]
	assert.Equal(t, domain.AuditAction("create"), last.Action)
	assert.Equal(t, "req-http-42", last.RequestID)
}
