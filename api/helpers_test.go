package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/garnizeh/jobboard/api"
	"github.com/garnizeh/jobboard/internal/config"
	"github.com/garnizeh/jobboard/internal/events"
	"github.com/garnizeh/jobboard/internal/storage"
	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository/mock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
)

const testSecret = "testsecret"

func init() {
	api.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// notifier collects events synchronously.
type notifier struct {
	events.Recorder
}

func (n *notifier) Notify(ctx context.Context, e events.Event) error {
	return n.Publish(ctx, e)
}

type env struct {
	store  *mock.Store
	events *notifier
	files  *storage.LocalStore
	router *mux.Router
}

func newEnv(t *testing.T) *env {
	t.Helper()
	files, err := storage.NewLocalStore(t.TempDir(), "/files", nil)
	if err != nil {
		t.Fatalf("local store: %v", err)
	}
	cfg := &config.Config{
		JWTSecret:     testSecret,
		TokenDuration: time.Hour,
		Storage:       config.StorageConfig{Driver: config.StorageLocal, PublicBaseURL: "/files"},
	}
	e := &env{store: mock.NewStore(), events: &notifier{}, files: files}
	e.router = api.SetupRoutes(cfg, "test", "now", api.Deps{Store: e.store, Notifier: e.events, Files: files})
	return e
}

func tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.ID,
		"role":    u.Role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func (e *env) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %T: %v (body %s)", out, err, w.Body.String())
	}
	return out
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("want status %d got %d: %s", want, w.Code, w.Body.String())
	}
}

func (e *env) company(t *testing.T, email, name string) (*models.User, *models.Company) {
	t.Helper()
	u := &models.User{Email: email, Role: models.RoleCompany}
	c := &models.Company{CompanyName: name}
	if err := e.store.RegisterCompany(context.Background(), u, c); err != nil {
		t.Fatalf("register company: %v", err)
	}
	return u, c
}

func (e *env) candidate(t *testing.T, email, first, last string) (*models.User, *models.Candidate) {
	t.Helper()
	u := &models.User{Email: email, Role: models.RoleCandidate}
	c := &models.Candidate{FirstName: first, LastName: last}
	if err := e.store.RegisterCandidate(context.Background(), u, c); err != nil {
		t.Fatalf("register candidate: %v", err)
	}
	return u, c
}

func (e *env) admin(t *testing.T) *models.User {
	t.Helper()
	u := &models.User{Email: "admin@example.com", Role: models.RoleAdmin}
	if _, err := e.store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	return u
}

func (e *env) job(t *testing.T, companyID int64, title string, expires *time.Time) *models.Job {
	t.Helper()
	j := &models.Job{Title: title, Description: "d", CompanyID: companyID, ExpirationDate: expires, Created: time.Now()}
	id, err := e.store.CreateJob(context.Background(), j)
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	j.ID = id
	return j
}

func decodeJSON[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("decode %T: %v (body %s)", out, err, b)
	}
	return out
}
