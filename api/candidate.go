package api

import (
	"context"
	"net/http"

	"github.com/garnizeh/jobboard/internal/mapper"
	"github.com/garnizeh/jobboard/pkg/dto"
	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
)

type CandidateHandler struct {
	base
}

func NewCandidateHandler(repo repository.Store) *CandidateHandler {
	return &CandidateHandler{base: newBase(repo, nil, nil)}
}

func (h *CandidateHandler) toDto(ctx context.Context, c *models.Candidate) (dto.CandidateDto, error) {
	if err := h.load.Candidate(ctx, c); err != nil {
		return dto.CandidateDto{}, err
	}
	return mapper.Candidate(c), nil
}

func (h *CandidateHandler) respond(w http.ResponseWriter, r *http.Request, status int, c *models.Candidate) {
	d, err := h.toDto(r.Context(), c)
	if err != nil {
		serverError(w, r, "load candidate", err)
		return
	}
	writeJSON(w, status, d)
}

func (h *CandidateHandler) fetch(w http.ResponseWriter, r *http.Request) (*models.Candidate, bool) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return nil, false
	}
	c, err := h.repo.GetCandidateByID(r.Context(), id)
	if err != nil {
		serverError(w, r, "load candidate", err)
		return nil, false
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "Candidate not found.")
		return nil, false
	}
	return c, true
}

func (h *CandidateHandler) fetchManaged(w http.ResponseWriter, r *http.Request) (*models.Candidate, bool) {
	c, ok := h.fetch(w, r)
	if !ok {
		return nil, false
	}
	who, _ := callerFrom(r)
	if !who.isAdmin() && c.UserID != who.UserID {
		forbidden(w)
		return nil, false
	}
	return c, true
}

func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.repo.ListCandidates(r.Context())
	if err != nil {
		serverError(w, r, "list candidates", err)
		return
	}
	out := make([]dto.CandidateDto, 0, len(candidates))
	for i := range candidates {
		d, err := h.toDto(r.Context(), &candidates[i])
		if err != nil {
			serverError(w, r, "load candidate", err)
			return
		}
		out = append(out, d)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CandidateHandler) Me(w http.ResponseWriter, r *http.Request) {
	who, _ := callerFrom(r)
	c, err := h.repo.GetCandidateByUserID(r.Context(), who.UserID)
	if err != nil {
		serverError(w, r, "load candidate", err)
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "Candidate not found.")
		return
	}
	h.respond(w, r, http.StatusOK, c)
}

func (h *CandidateHandler) Get(w http.ResponseWriter, r *http.Request) {
	if c, ok := h.fetch(w, r); ok {
		h.respond(w, r, http.StatusOK, c)
	}
}

func (h *CandidateHandler) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := h.fetchManaged(w, r)
	if !ok {
		return
	}
	var req dto.CandidateRequest
	if !decode(w, r, "candidate", &req) {
		return
	}
	mapper.CandidateFromRequest(&req, c)
	if err := h.repo.UpdateCandidate(r.Context(), c); err != nil {
		writeRepoError(w, r, err, "Candidate")
		return
	}
	h.respond(w, r, http.StatusOK, c)
}

func (h *CandidateHandler) SetSkills(w http.ResponseWriter, r *http.Request) {
	c, ok := h.fetchManaged(w, r)
	if !ok {
		return
	}
	var req dto.SkillIDsRequest
	if !decode(w, r, "skillIds", &req) {
		return
	}
	if err := h.repo.SetCandidateSkills(r.Context(), c.ID, req.SkillIDs); err != nil {
		writeRepoError(w, r, err, "Candidate")
		return
	}
	h.respond(w, r, http.StatusOK, c)
}

func (h *CandidateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	c, ok := h.fetch(w, r)
	if !ok {
		return
	}
	if err := h.repo.DeleteCandidate(r.Context(), c.ID); err != nil {
		writeRepoError(w, r, err, "Candidate")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
