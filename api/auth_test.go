package api_test

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/garnizeh/jobboard/pkg/dto"
	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func checkToken(t *testing.T, tok string, wantRole string) {
	t.Helper()
	parsed, err := jwt.Parse(tok, func(token *jwt.Token) (any, error) { return []byte(testSecret), nil })
	if err != nil {
		t.Fatalf("invalid token: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["role"] != wantRole {
		t.Fatalf("want role claim %q got %v", wantRole, claims["role"])
	}
	if _, ok := claims["user_id"].(float64); !ok {
		t.Fatalf("missing user_id claim: %v", claims)
	}
}

func TestAuthHandlers(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       any
		prepare    func(t *testing.T, e *env)
		wantStatus int
		checkBody  func(t *testing.T, b []byte)
	}{
		{
			name:       "Register_InvalidRequest",
			path:       "/account/register",
			body:       "not a json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Register_MissingEmail",
			path:       "/account/register",
			body:       map[string]string{"password": "s3cret!", "role": "Candidate", "firstName": "A", "lastName": "B"},
			wantStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte(`"email"`)) || !bytes.Contains(b, []byte("One or more validation errors occurred.")) {
					t.Fatalf("expected validation body naming email, got %s", b)
				}
			},
		},
		{
			name:       "Register_AdminNotAllowed",
			path:       "/account/register",
			body:       map[string]string{"email": "root@example.com", "password": "s3cret!", "role": "Admin"},
			wantStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte(`"role"`)) {
					t.Fatalf("expected role error, got %s", b)
				}
			},
		},
		{
			name:       "Register_CandidateNeedsNames",
			path:       "/account/register",
			body:       map[string]string{"email": "ada@example.com", "password": "s3cret!", "role": "Candidate"},
			wantStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte("First name is required.")) || !bytes.Contains(b, []byte("Last name is required.")) {
					t.Fatalf("unexpected body %s", b)
				}
			},
		},
		{
			name:       "Register_Candidate",
			path:       "/account/register",
			body:       map[string]string{"email": "ada@example.com", "password": "s3cret!", "role": "Candidate", "firstName": "Ada", "lastName": "Lovelace"},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				ar := decodeJSON[dto.AuthResponse](t, b)
				checkToken(t, ar.Token, models.RoleCandidate)
				if ar.User.Name != "Ada Lovelace" || ar.User.Email != "ada@example.com" {
					t.Fatalf("unexpected user %+v", ar.User)
				}
			},
		},
		{
			name:       "Register_Company",
			path:       "/account/register",
			body:       map[string]string{"email": "hr@acme.com", "password": "s3cret!", "role": "Company", "companyName": "Acme"},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				ar := decodeJSON[dto.AuthResponse](t, b)
				checkToken(t, ar.Token, models.RoleCompany)
				if ar.User.Name != "Acme" {
					t.Fatalf("unexpected user %+v", ar.User)
				}
			},
		},
		{
			name: "Register_DuplicateEmail",
			path: "/account/register",
			body: map[string]string{"email": "dup@example.com", "password": "s3cret!", "role": "Company", "companyName": "Dup"},
			prepare: func(t *testing.T, e *env) {
				e.company(t, "dup@example.com", "First")
			},
			wantStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte(`"message"`)) {
					t.Fatalf("expected message body, got %s", b)
				}
			},
		},
		{
			name:       "Login_MissingPassword",
			path:       "/account/login",
			body:       map[string]string{"email": "missing@example.com"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Login_MissingUser",
			path:       "/account/login",
			body:       map[string]string{"email": "missing@example.com", "password": "nop"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "Login_Success",
			path: "/account/login",
			body: map[string]string{"email": "bob@example.com", "password": "hunter2"},
			prepare: func(t *testing.T, e *env) {
				hash, _ := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.DefaultCost)
				u := &models.User{Email: "bob@example.com", Role: models.RoleCandidate, PasswordHash: string(hash)}
				if err := e.store.RegisterCandidate(context.Background(), u, &models.Candidate{FirstName: "Bob", LastName: "Builder"}); err != nil {
					t.Fatalf("seed: %v", err)
				}
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				ar := decodeJSON[dto.AuthResponse](t, b)
				checkToken(t, ar.Token, models.RoleCandidate)
				if ar.User.Name != "Bob Builder" {
					t.Fatalf("unexpected user %+v", ar.User)
				}
			},
		},
		{
			name: "Login_WrongPassword",
			path: "/account/login",
			body: map[string]string{"email": "c@example.com", "password": "wrongpw"},
			prepare: func(t *testing.T, e *env) {
				hash, _ := bcrypt.GenerateFromPassword([]byte("rightpw"), bcrypt.DefaultCost)
				if _, err := e.store.CreateUser(context.Background(), &models.User{Email: "c@example.com", Role: models.RoleAdmin, PasswordHash: string(hash)}); err != nil {
					t.Fatalf("seed: %v", err)
				}
			},
			wantStatus: http.StatusUnauthorized,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte("Invalid email or password.")) {
					t.Fatalf("unexpected body %s", b)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			if tt.prepare != nil {
				tt.prepare(t, e)
			}
			w := e.do(t, http.MethodPost, tt.path, "", tt.body)
			expectStatus(t, w, tt.wantStatus)
			if tt.checkBody != nil {
				tt.checkBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestLogoutAndMe(t *testing.T) {
	e := newEnv(t)
	u, _ := e.company(t, "hr@acme.com", "Acme")
	tok := tokenFor(t, u)

	w := e.do(t, http.MethodPost, "/account/logout", "", nil)
	expectStatus(t, w, http.StatusUnauthorized)

	w = e.do(t, http.MethodPost, "/account/logout", tok, nil)
	expectStatus(t, w, http.StatusOK)
	if !bytes.Contains(w.Body.Bytes(), []byte("signed out")) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	w = e.do(t, http.MethodGet, "/account/me", tok, nil)
	expectStatus(t, w, http.StatusOK)
	me := decodeBody[dto.UserDto](t, w)
	if me.ID != u.ID || me.Role != models.RoleCompany || me.Name != "Acme" {
		t.Fatalf("unexpected me %+v", me)
	}
}
