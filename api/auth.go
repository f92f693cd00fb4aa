package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/garnizeh/jobboard/internal/mapper"
	"github.com/garnizeh/jobboard/pkg/dto"
	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	repo          repository.Store
	jwtSecret     string
	tokenDuration time.Duration
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(repo repository.Store, jwtSecret string, tokenDuration time.Duration) *AuthHandler {
	return &AuthHandler{repo: repo, jwtSecret: jwtSecret, tokenDuration: tokenDuration}
}

func (h *AuthHandler) issueToken(u *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.ID,
		"role":    u.Role,
		"email":   u.Email,
		"exp":     time.Now().Add(h.tokenDuration).Unix(),
	})
	return token.SignedString([]byte(h.jwtSecret))
}

// displayName is the company name or the candidate's full name.
func displayName(ctx context.Context, repo repository.Store, u *models.User) (string, error) {
	switch u.Role {
	case models.RoleCompany:
		c, err := repo.GetCompanyByUserID(ctx, u.ID)
		if err != nil || c == nil {
			return "", err
		}
		return c.CompanyName, nil
	case models.RoleCandidate:
		c, err := repo.GetCandidateByUserID(ctx, u.ID)
		if err != nil || c == nil {
			return "", err
		}
		return dto.FullName(c.FirstName, c.LastName), nil
	}
	return "", nil
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, u *models.User) {
	tokenStr, err := h.issueToken(u)
	if err != nil {
		serverError(w, r, "sign token", err)
		return
	}
	name, err := displayName(r.Context(), h.repo, u)
	if err != nil {
		serverError(w, r, "load display name", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.AuthResponse{Token: tokenStr, User: mapper.User(u, name)})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decode(w, r, "register", &req) {
		return
	}

	errs := map[string][]string{}
	switch req.Role {
	case models.RoleCandidate:
		if strings.TrimSpace(req.FirstName) == "" {
			errs["firstName"] = append(errs["firstName"], "First name is required.")
		}
		if strings.TrimSpace(req.LastName) == "" {
			errs["lastName"] = append(errs["lastName"], "Last name is required.")
		}
	case models.RoleCompany:
		if strings.TrimSpace(req.CompanyName) == "" {
			errs["companyName"] = append(errs["companyName"], "Company name is required.")
		}
	}
	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	// Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		serverError(w, r, "hash password", err)
		return
	}

	ctx := r.Context()
	user := &models.User{
		Email:        strings.TrimSpace(req.Email),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		PasswordHash: string(hash),
		Role:         req.Role,
		Created:      time.Now().UTC(),
	}

	if req.Role == models.RoleCompany {
		err = h.repo.RegisterCompany(ctx, user, &models.Company{CompanyName: strings.TrimSpace(req.CompanyName)})
	} else {
		err = h.repo.RegisterCandidate(ctx, user, &models.Candidate{
			FirstName: strings.TrimSpace(req.FirstName),
			LastName:  strings.TrimSpace(req.LastName),
		})
	}
	if errors.Is(err, repository.ErrDuplicate) {
		writeError(w, http.StatusBadRequest, "An account with this email already exists.")
		return
	}
	if err != nil {
		serverError(w, r, "register user", err)
		return
	}

	logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	h.respondWithToken(w, r, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decode(w, r, "login", &req) {
		return
	}

	user, err := h.repo.GetUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		serverError(w, r, "lookup user", err)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	h.respondWithToken(w, r, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	// For stateless JWT, signout is client-side (just delete token)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, `{"message":"signed out"}`)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	c, _ := callerFrom(r)
	user, err := h.repo.GetUserByID(r.Context(), c.UserID)
	if err != nil {
		serverError(w, r, "load user", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found.")
		return
	}
	name, err := displayName(r.Context(), h.repo, user)
	if err != nil {
		serverError(w, r, "load display name", err)
		return
	}
	writeJSON(w, http.StatusOK, mapper.User(user, name))
}
