package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/garnizeh/jobboard/internal/events"
	"github.com/garnizeh/jobboard/internal/mapper"
	"github.com/garnizeh/jobboard/pkg/dto"
	"github.com/garnizeh/jobboard/pkg/expiry"
	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
)

type ApplicationHandler struct {
	base
	now func() time.Time
}

func NewApplicationHandler(repo repository.Store, notify Notifier) *ApplicationHandler {
	return &ApplicationHandler{base: newBase(repo, nil, notify), now: time.Now}
}

func (h *ApplicationHandler) toDto(ctx context.Context, a *models.JobApplication) (dto.JobApplicationDto, error) {
	if err := h.load.Application(ctx, a); err != nil {
		return dto.JobApplicationDto{}, err
	}
	return mapper.JobApplication(a), nil
}

func (h *ApplicationHandler) respondList(w http.ResponseWriter, r *http.Request, apps []models.JobApplication) {
	out := make([]dto.JobApplicationDto, 0, len(apps))
	for i := range apps {
		d, err := h.toDto(r.Context(), &apps[i])
		if err != nil {
			serverError(w, r, "load application", err)
			return
		}
		out = append(out, d)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ApplicationHandler) event(typ string, a *models.JobApplication) events.Event {
	e := events.New(typ)
	e.ApplicationID = a.ID
	e.JobID = a.JobID
	e.CandidateID = a.CandidateID
	e.Status = a.Status
	if a.Job != nil {
		e.JobTitle = a.Job.Title
		e.CompanyID = a.Job.CompanyID
	}
	return e
}

// candidateOrReject resolves the caller's candidate profile.
func (h *ApplicationHandler) candidateOrReject(w http.ResponseWriter, r *http.Request) (*models.Candidate, bool) {
	who, _ := callerFrom(r)
	cand, err := h.callerCandidate(r.Context(), who)
	if err != nil {
		serverError(w, r, "load candidate", err)
		return nil, false
	}
	if cand == nil {
		writeError(w, http.StatusBadRequest, "Complete your candidate profile first.")
		return nil, false
	}
	return cand, true
}

func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req dto.ApplyRequest
	if !decode(w, r, "apply", &req) {
		return
	}
	cand, ok := h.candidateOrReject(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	job, err := h.repo.GetJobByID(ctx, req.JobID)
	if err != nil {
		serverError(w, r, "load job", err)
		return
	}
	if job == nil {
		writeError(w, http.StatusNotFound, "Job not found.")
		return
	}
	if expiry.Expired(job.ExpirationDate, h.now()) {
		writeError(w, http.StatusBadRequest, "This job is no longer accepting applications.")
		return
	}

	if req.ResumeID != nil {
		resume, err := h.repo.GetResumeByID(ctx, *req.ResumeID)
		if err != nil {
			serverError(w, r, "load resume", err)
			return
		}
		if resume == nil || resume.CandidateID != cand.ID {
			writeValidation(w, map[string][]string{"resumeId": {"Resume not found."}})
			return
		}
	}

	a := &models.JobApplication{
		JobID:       job.ID,
		CandidateID: cand.ID,
		ResumeID:    req.ResumeID,
		Status:      models.ApplicationStatusPending,
		AppliedAt:   h.now().UTC(),
		Notes:       req.Notes,
	}
	id, err := h.repo.CreateApplication(ctx, a)
	if errors.Is(err, repository.ErrDuplicate) {
		writeError(w, http.StatusBadRequest, "You have already applied to this job.")
		return
	}
	if err != nil {
		writeRepoError(w, r, err, "Application")
		return
	}
	a.ID = id

	d, err := h.toDto(ctx, a)
	if err != nil {
		serverError(w, r, "load application", err)
		return
	}
	h.publish(ctx, h.event(events.ApplicationSubmitted, a))
	writeJSON(w, http.StatusCreated, d)
}

func (h *ApplicationHandler) Mine(w http.ResponseWriter, r *http.Request) {
	cand, ok := h.candidateOrReject(w, r)
	if !ok {
		return
	}
	apps, err := h.repo.ListApplicationsByCandidate(r.Context(), cand.ID)
	if err != nil {
		serverError(w, r, "list applications", err)
		return
	}
	h.respondList(w, r, apps)
}

func (h *ApplicationHandler) ByJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(w, r, "jobId")
	if !ok {
		return
	}
	job, err := h.repo.GetJobByID(r.Context(), jobID)
	if err != nil {
		serverError(w, r, "load job", err)
		return
	}
	if job == nil {
		writeError(w, http.StatusNotFound, "Job not found.")
		return
	}
	who, _ := callerFrom(r)
	allowed, err := h.canManageCompany(r.Context(), who, job.CompanyID)
	if err != nil {
		serverError(w, r, "check job owner", err)
		return
	}
	if !allowed {
		forbidden(w)
		return
	}
	apps, err := h.repo.ListApplicationsByJob(r.Context(), jobID)
	if err != nil {
		serverError(w, r, "list applications", err)
		return
	}
	h.respondList(w, r, apps)
}

func (h *ApplicationHandler) fetch(w http.ResponseWriter, r *http.Request) (*models.JobApplication, bool) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return nil, false
	}
	a, err := h.repo.GetApplicationByID(r.Context(), id)
	if err != nil {
		serverError(w, r, "load application", err)
		return nil, false
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "Application not found.")
		return nil, false
	}
	if err := h.load.Application(r.Context(), a); err != nil {
		serverError(w, r, "load application", err)
		return nil, false
	}
	return a, true
}

// UpdateStatus lets the hiring company move an application along.
func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	a, ok := h.fetch(w, r)
	if !ok {
		return
	}
	who, _ := callerFrom(r)
	allowed := who.isAdmin()
	if !allowed && a.Job != nil && a.Job.Company != nil {
		allowed = a.Job.Company.UserID == who.UserID
	}
	if !allowed {
		forbidden(w)
		return
	}

	var req dto.StatusRequest
	if !decode(w, r, "status", &req) {
		return
	}
	if err := h.repo.UpdateApplicationStatus(r.Context(), a.ID, req.Status); err != nil {
		writeRepoError(w, r, err, "Application")
		return
	}
	changed := a.Status != req.Status
	a.Status = req.Status

	if changed {
		h.publish(r.Context(), h.event(events.ApplicationStatusChanged, a))
	}
	writeJSON(w, http.StatusOK, mapper.JobApplication(a))
}

func (h *ApplicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	a, ok := h.fetch(w, r)
	if !ok {
		return
	}
	who, _ := callerFrom(r)
	if !who.isAdmin() && (a.Candidate == nil || a.Candidate.UserID != who.UserID) {
		forbidden(w)
		return
	}
	if err := h.repo.DeleteApplication(r.Context(), a.ID); err != nil {
		writeRepoError(w, r, err, "Application")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
