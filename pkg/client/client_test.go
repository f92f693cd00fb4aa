package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/garnizeh/jobboard/pkg/client"
	"github.com/garnizeh/jobboard/pkg/dto"
)

type recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}

type fixture struct {
	srv     *httptest.Server
	client  *client.Client
	store   *client.MemoryStore
	session *client.Session
	notes   *recorder
	nav     *client.MemoryNavigator
}

func newFixture(t *testing.T, h http.HandlerFunc) *fixture {
	t.Helper()
	srv := httptest.NewServer(h)
	store := client.NewMemoryStore()
	f := &fixture{
		srv:     srv,
		store:   store,
		session: client.NewSession(store),
		notes:   &recorder{},
		nav:     client.NewMemoryNavigator("/jobs"),
	}
	c, err := client.NewClient(client.Config{BaseURL: srv.URL, Timeout: 2 * time.Second}, srv.Client(), client.Deps{
		Session:   f.session,
		Notifier:  f.notes,
		Navigator: f.nav,
	})
	if err != nil {
		srv.Close()
		t.Fatalf("NewClient: %v", err)
	}
	f.client = c
	t.Cleanup(func() {
		c.Close()
		srv.Close()
	})
	return f
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	if err := f.session.Save("tok-123", &dto.UserDto{ID: 1, Email: "a@b.c", Role: "Company"}); err != nil {
		t.Fatalf("save session: %v", err)
	}
}

func statusHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestDo_AttachesBearerToken(t *testing.T) {
	var gotAuth []string
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	})
	ctx := context.Background()

	if _, err := f.client.Do(ctx, client.Request{Path: "/job"}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	f.login(t)
	if _, err := f.client.Do(ctx, client.Request{Path: "/job"}); err != nil {
		t.Fatalf("Do: %v", err)
	}

	if gotAuth[0] != "" {
		t.Fatalf("expected no Authorization header without a session, got %q", gotAuth[0])
	}
	if gotAuth[1] != "Bearer tok-123" {
		t.Fatalf("expected bearer token, got %q", gotAuth[1])
	}
}

func TestDo_StatusDispatch(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		path      string
		loggedIn  bool
		wantKind  client.Kind
		wantNotes []string
	}{
		{name: "Forbidden_Fallback", status: 403, body: `{}`, path: "/job/1", loggedIn: true, wantKind: client.KindForbidden, wantNotes: []string{client.MsgForbidden}},
		{name: "Forbidden_Message", status: 403, body: `{"message":"Not your job"}`, path: "/job/1", loggedIn: true, wantKind: client.KindForbidden, wantNotes: []string{"Not your job"}},
		{name: "NotFound_Fallback", status: 404, body: ``, path: "/job/9", wantKind: client.KindNotFound, wantNotes: []string{client.MsgNotFound}},
		{name: "NotFound_Message", status: 404, body: `{"message":"Job not found"}`, path: "/job/9", wantKind: client.KindNotFound, wantNotes: []string{"Job not found"}},
		{name: "BadRequest_Multi", status: 400, body: `[{"description":"A"},"B"]`, path: "/job", wantKind: client.KindValidation, wantNotes: []string{"A", "B"}},
		{name: "BadRequest_Errors", status: 400, body: `{"title":"One or more validation errors occurred.","errors":{"email":["required"],"age":"invalid"}}`, path: "/account/register", wantKind: client.KindValidation, wantNotes: []string{"required, invalid"}},
		{name: "BadRequest_NoFallbackText", status: 400, body: `{}`, path: "/job", wantKind: client.KindValidation, wantNotes: []string{client.DefaultErrorMessage}},
		{name: "Server_Fallback", status: 502, body: `<html>bad gateway</html>`, path: "/job", wantKind: client.KindServer, wantNotes: []string{"<html>bad gateway</html>"}},
		{name: "Server_EmptyBody", status: 500, body: ``, path: "/job", wantKind: client.KindServer, wantNotes: []string{client.MsgServer}},
		{name: "Other", status: 409, body: `{"title":"Conflict"}`, path: "/job", wantKind: client.KindHTTP, wantNotes: []string{"Conflict"}},
		{name: "Unauthorized_NoToken_Fallback", status: 401, body: ``, path: "/job", wantKind: client.KindUnauthorized, wantNotes: []string{client.MsgUnauthorized}},
		{name: "Unauthorized_NoToken_Message", status: 401, body: "Missing Authorization header\n", path: "/application/my", wantKind: client.KindUnauthorized, wantNotes: []string{"Missing Authorization header"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, statusHandler(tt.status, tt.body))
			if tt.loggedIn {
				f.login(t)
			}

			resp, err := f.client.Do(context.Background(), client.Request{Path: tt.path})
			if resp != nil {
				t.Fatalf("expected nil response on failure")
			}
			var apiErr *client.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T %v", err, err)
			}
			if apiErr.Kind != tt.wantKind || apiErr.StatusCode != tt.status {
				t.Fatalf("want kind %v status %d, got %v %d", tt.wantKind, tt.status, apiErr.Kind, apiErr.StatusCode)
			}
			if got := f.notes.all(); !reflect.DeepEqual(got, tt.wantNotes) {
				t.Fatalf("notifications: want %q got %q", tt.wantNotes, got)
			}
			if string(apiErr.Body) != tt.body {
				t.Fatalf("original body not preserved: %q", apiErr.Body)
			}
			if len(f.nav.Redirects()) != 0 {
				t.Fatalf("unexpected redirect %v", f.nav.Redirects())
			}
		})
	}
}

func TestDo_LoginUnauthorizedKeepsSession(t *testing.T) {
	f := newFixture(t, statusHandler(401, "Credentials not found\n"))
	f.login(t)

	_, err := f.client.Do(context.Background(), client.Request{Method: http.MethodPost, Path: "/account/login", Body: dto.LoginRequest{Email: "x", Password: "y"}})
	if !client.IsKind(err, client.KindUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if f.session.Token() != "tok-123" || f.session.User() == nil {
		t.Fatalf("login 401 must not clear the session")
	}
	if got := f.notes.all(); !reflect.DeepEqual(got, []string{"Credentials not found"}) {
		t.Fatalf("unexpected notifications %q", got)
	}
	if len(f.nav.Redirects()) != 0 {
		t.Fatalf("login 401 must not redirect")
	}
}

func TestDo_EnrichmentUnauthorizedIsSilent(t *testing.T) {
	for _, path := range []string{"/company/my-company", "/candidate/all"} {
		t.Run(path, func(t *testing.T) {
			f := newFixture(t, statusHandler(401, `{"message":"Invalid or expired token"}`))
			f.login(t)

			_, err := f.client.Do(context.Background(), client.Request{Path: path})
			var apiErr *client.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %v", err)
			}
			if !apiErr.Suppressed || apiErr.StatusCode != 401 || apiErr.Kind != client.KindUnauthorized {
				t.Fatalf("expected suppressed 401, got %#v", apiErr)
			}
			if string(apiErr.Body) != `{"message":"Invalid or expired token"}` {
				t.Fatalf("original payload must be carried, got %q", apiErr.Body)
			}
			if len(f.notes.all()) != 0 {
				t.Fatalf("no toast expected, got %q", f.notes.all())
			}
			if len(f.nav.Redirects()) != 0 {
				t.Fatalf("no redirect expected")
			}
			if f.session.Token() != "tok-123" {
				t.Fatalf("session must stay intact")
			}
		})
	}
}

func TestDo_SessionExpiryClearsAndRedirectsOnce(t *testing.T) {
	f := newFixture(t, statusHandler(401, `{"message":"Invalid or expired token"}`))
	f.login(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := f.client.Do(ctx, client.Request{Path: "/application/my"}); err == nil {
			t.Fatalf("expected error on call %d", i)
		}
	}

	if _, ok := f.store.Get(client.KeyToken); ok {
		t.Fatalf("token must be removed")
	}
	if _, ok := f.store.Get(client.KeyUser); ok {
		t.Fatalf("user must be removed")
	}
	if got := f.nav.Redirects(); !reflect.DeepEqual(got, []string{"/login"}) {
		t.Fatalf("expected exactly one redirect to /login, got %v", got)
	}
	notes := f.notes.all()
	if len(notes) == 0 || notes[0] != client.MsgSessionExpired {
		t.Fatalf("expected session expired toast first, got %q", notes)
	}
}

func TestDo_SessionExpiryOnLoginViewDoesNotRedirect(t *testing.T) {
	f := newFixture(t, statusHandler(401, ``))
	f.login(t)
	f.nav.Navigate("/login")

	_, err := f.client.Do(context.Background(), client.Request{Path: "/job/my-jobs"})
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || !apiErr.SessionCleared {
		t.Fatalf("expected session to be cleared, got %v", err)
	}
	if len(f.nav.Redirects()) != 0 {
		t.Fatalf("already on login view, got redirects %v", f.nav.Redirects())
	}
}

func TestDo_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	notes := &recorder{}
	c, err := client.NewClient(client.Config{BaseURL: url, Timeout: time.Second}, &http.Client{Timeout: time.Second}, client.Deps{Notifier: notes})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer c.Close()

	_, err = c.Do(context.Background(), client.Request{Path: "/job"})
	if !client.IsKind(err, client.KindNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if got := notes.all(); !reflect.DeepEqual(got, []string{client.MsgNetwork}) {
		t.Fatalf("unexpected notifications %q", got)
	}
}

func TestDo_SetupError(t *testing.T) {
	called := false
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	_, err := f.client.Do(context.Background(), client.Request{Method: http.MethodPost, Path: "/job", Body: make(chan int)})
	if !client.IsKind(err, client.KindSetup) {
		t.Fatalf("expected setup error, got %v", err)
	}
	if called {
		t.Fatalf("request must not be sent")
	}
	if got := f.notes.all(); !reflect.DeepEqual(got, []string{client.MsgUnexpected}) {
		t.Fatalf("unexpected notifications %q", got)
	}
}

func TestLogin_EnrichesCompanyName(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/account/login":
			_, _ = w.Write([]byte(`{"token":"t1","user":{"id":5,"email":"hr@acme.io","role":"Company"}}`))
		case "/company/my-company":
			if r.Header.Get("Authorization") != "Bearer t1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"id":2,"userId":5,"companyName":"Acme"}`))
		default:
			http.NotFound(w, r)
		}
	})

	user, err := f.client.Login(context.Background(), "hr@acme.io", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Name != "Acme" {
		t.Fatalf("expected enriched name, got %q", user.Name)
	}
	if cached := f.session.User(); cached == nil || cached.Name != "Acme" {
		t.Fatalf("enriched user not stored: %#v", cached)
	}
	if f.session.Token() != "t1" {
		t.Fatalf("token not stored")
	}
}

func TestLogin_CandidateEnrichmentFailureKeepsUser(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/account/login":
			_, _ = w.Write([]byte(`{"token":"t2","user":{"id":8,"email":"ada@x.io","role":"Candidate"}}`))
		case strings.HasPrefix(r.URL.Path, "/candidate/all"):
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"nope"}`))
		}
	})

	user, err := f.client.Login(context.Background(), "ada@x.io", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Name != "" || user.ID != 8 {
		t.Fatalf("user should be unchanged, got %#v", user)
	}
	if f.session.Token() != "t2" {
		t.Fatalf("session must survive failed enrichment")
	}
	if len(f.notes.all()) != 0 || len(f.nav.Redirects()) != 0 {
		t.Fatalf("enrichment failure must be silent")
	}
}

func TestLogin_CandidateEnrichment(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/account/login":
			_, _ = w.Write([]byte(`{"token":"t3","user":{"id":8,"email":"ada@x.io","role":"Candidate"}}`))
		case "/candidate/all":
			_, _ = w.Write([]byte(`[{"id":1,"userId":3,"firstName":"Bob"},{"id":2,"userId":8,"firstName":"Ada","lastName":"Lovelace"}]`))
		}
	})

	user, err := f.client.Login(context.Background(), "ada@x.io", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Name != "Ada Lovelace" {
		t.Fatalf("expected candidate full name, got %q", user.Name)
	}
}

func TestLogout_ClearsAndRedirects(t *testing.T) {
	f := newFixture(t, statusHandler(200, `{"message":"signed out"}`))
	f.login(t)

	if err := f.client.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if f.session.Token() != "" || f.session.User() != nil {
		t.Fatalf("session not cleared")
	}
	if got := f.nav.Redirects(); !reflect.DeepEqual(got, []string{"/login"}) {
		t.Fatalf("unexpected redirects %v", got)
	}
}

func TestClient_CloseIdempotent(t *testing.T) {
	c, err := client.NewClient(client.DefaultConfig(), nil, client.Deps{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	if _, err := client.NewClient(client.Config{BaseURL: "not a url"}, nil, client.Deps{}); err == nil {
		t.Fatalf("expected invalid base url error")
	}
}
