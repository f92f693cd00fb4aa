package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/garnizeh/jobboard/internal/mapper"
	"github.com/garnizeh/jobboard/internal/storage"
	"github.com/garnizeh/jobboard/pkg/dto"
	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
)

type ResumeHandler struct {
	base
}

func NewResumeHandler(repo repository.Store, files storage.Store) *ResumeHandler {
	return &ResumeHandler{base: newBase(repo, files, nil)}
}

func (h *ResumeHandler) candidate(w http.ResponseWriter, r *http.Request) (*models.Candidate, bool) {
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

func (h *ResumeHandler) Mine(w http.ResponseWriter, r *http.Request) {
	cand, ok := h.candidate(w, r)
	if !ok {
		return
	}
	resumes, err := h.repo.ListResumesByCandidate(r.Context(), cand.ID)
	if err != nil {
		serverError(w, r, "list resumes", err)
		return
	}
	writeJSON(w, http.StatusOK, mapper.Slice(resumes, mapper.Resume))
}

func (h *ResumeHandler) save(w http.ResponseWriter, r *http.Request, res *models.Resume) bool {
	id, err := h.repo.CreateResume(r.Context(), res)
	if err != nil {
		writeRepoError(w, r, err, "Resume")
		return false
	}
	res.ID = id
	writeJSON(w, http.StatusCreated, mapper.Resume(res))
	return true
}

// Create registers a resume hosted elsewhere.
func (h *ResumeHandler) Create(w http.ResponseWriter, r *http.Request) {
	cand, ok := h.candidate(w, r)
	if !ok {
		return
	}
	var req dto.ResumeRequest
	if !decode(w, r, "resume", &req) {
		return
	}
	res := &models.Resume{CandidateID: cand.ID, UploadedAt: time.Now().UTC()}
	mapper.ResumeFromRequest(&req, res)
	h.save(w, r, res)
}

// Upload stores a multipart "file" and registers it. The optional form value
// isDefault marks it as the default resume.
func (h *ResumeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	cand, ok := h.candidate(w, r)
	if !ok {
		return
	}
	obj, name, ok := h.storeUpload(w, r, storage.ResumeKind)
	if !ok {
		return
	}
	isDefault, _ := strconv.ParseBool(r.FormValue("isDefault"))
	res := &models.Resume{
		CandidateID: cand.ID,
		FileName:    name,
		FileURL:     obj.URL,
		FileKey:     obj.Key,
		IsDefault:   isDefault,
		UploadedAt:  time.Now().UTC(),
	}
	if !h.save(w, r, res) {
		h.discardFile(r, obj.Key)
	}
}

func (h *ResumeHandler) fetch(w http.ResponseWriter, r *http.Request) (*models.Resume, bool) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return nil, false
	}
	res, err := h.repo.GetResumeByID(r.Context(), id)
	if err != nil {
		serverError(w, r, "load resume", err)
		return nil, false
	}
	if res == nil {
		writeError(w, http.StatusNotFound, "Resume not found.")
		return nil, false
	}
	return res, true
}

func (h *ResumeHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	cand, ok := h.candidate(w, r)
	if !ok {
		return
	}
	res, ok := h.fetch(w, r)
	if !ok {
		return
	}
	if res.CandidateID != cand.ID {
		forbidden(w)
		return
	}
	if err := h.repo.SetDefaultResume(r.Context(), cand.ID, res.ID); err != nil {
		writeRepoError(w, r, err, "Resume")
		return
	}
	res.IsDefault = true
	writeJSON(w, http.StatusOK, mapper.Resume(res))
}

func (h *ResumeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	res, ok := h.fetch(w, r)
	if !ok {
		return
	}
	who, _ := callerFrom(r)
	if !who.isAdmin() {
		cand, err := h.callerCandidate(r.Context(), who)
		if err != nil {
			serverError(w, r, "load candidate", err)
			return
		}
		if cand == nil || cand.ID != res.CandidateID {
			forbidden(w)
			return
		}
	}
	if err := h.repo.DeleteResume(r.Context(), res.ID); err != nil {
		writeRepoError(w, r, err, "Resume")
		return
	}
	h.discardFile(r, res.FileKey)
	w.WriteHeader(http.StatusNoContent)
}
