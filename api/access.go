package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/garnizeh/jobboard/internal/events"
	"github.com/garnizeh/jobboard/internal/loader"
	"github.com/garnizeh/jobboard/internal/storage"
	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
)

// Notifier queues domain events for asynchronous delivery.
type Notifier interface {
	Notify(ctx context.Context, e events.Event) error
}

// base carries what every resource handler needs.
type base struct {
	repo   repository.Store
	load   *loader.Loader
	files  storage.Store
	notify Notifier
}

func newBase(repo repository.Store, files storage.Store, notify Notifier) base {
	return base{repo: repo, load: loader.New(repo), files: files, notify: notify}
}

func (c caller) isAdmin() bool { return c.Role == models.RoleAdmin }

// ownsCompany reports whether the caller is the account behind companyID.
func (b base) ownsCompany(ctx context.Context, c caller, companyID int64) (bool, error) {
	company, err := b.repo.GetCompanyByID(ctx, companyID)
	if err != nil || company == nil {
		return false, err
	}
	return company.UserID == c.UserID, nil
}

// canManageCompany is ownsCompany or admin.
func (b base) canManageCompany(ctx context.Context, c caller, companyID int64) (bool, error) {
	if c.isAdmin() {
		return true, nil
	}
	return b.ownsCompany(ctx, c, companyID)
}

// callerCandidate returns the candidate profile of the caller, nil when the
// account has none.
func (b base) callerCandidate(ctx context.Context, c caller) (*models.Candidate, error) {
	if c.Role != models.RoleCandidate {
		return nil, nil
	}
	return b.repo.GetCandidateByUserID(ctx, c.UserID)
}

func (b base) publish(ctx context.Context, e events.Event) {
	if b.notify == nil {
		return
	}
	if err := b.notify.Notify(ctx, e); err != nil {
		logger.Error("queue event", "type", e.Type, "err", err)
	}
}

func forbidden(w http.ResponseWriter) {
	writeError(w, http.StatusForbidden, "You do not have permission to perform this action.")
}

// writeRepoError maps repository sentinel errors to responses. what names the
// resource in messages, e.g. "Company".
func writeRepoError(w http.ResponseWriter, r *http.Request, err error, what string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, what+" not found.")
	case errors.Is(err, repository.ErrDuplicate):
		writeError(w, http.StatusBadRequest, what+" already exists.")
	case errors.Is(err, repository.ErrInvalidReference):
		writeError(w, http.StatusBadRequest, "A referenced record does not exist.")
	default:
		serverError(w, r, "store "+what, err)
	}
}
