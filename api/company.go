package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/garnizeh/jobboard/internal/mapper"
	"github.com/garnizeh/jobboard/internal/storage"
	"github.com/garnizeh/jobboard/pkg/dto"
	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
)

type CompanyHandler struct {
	base
}

func NewCompanyHandler(repo repository.Store, files storage.Store) *CompanyHandler {
	return &CompanyHandler{base: newBase(repo, files, nil)}
}

func (h *CompanyHandler) toDto(ctx context.Context, c *models.Company) (dto.CompanyDto, error) {
	if err := h.load.Company(ctx, c); err != nil {
		return dto.CompanyDto{}, err
	}
	return mapper.Company(c), nil
}

// fetch loads the company named by the {id} path variable, writing 404 when
// it does not exist.
func (h *CompanyHandler) fetch(w http.ResponseWriter, r *http.Request) (*models.Company, bool) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return nil, false
	}
	c, err := h.repo.GetCompanyByID(r.Context(), id)
	if err != nil {
		serverError(w, r, "load company", err)
		return nil, false
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "Company not found.")
		return nil, false
	}
	return c, true
}

// fetchManaged is fetch plus an owner-or-admin check.
func (h *CompanyHandler) fetchManaged(w http.ResponseWriter, r *http.Request) (*models.Company, bool) {
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

func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	companies, err := h.repo.ListCompanies(r.Context())
	if err != nil {
		serverError(w, r, "list companies", err)
		return
	}
	out := make([]dto.CompanyDto, 0, len(companies))
	for i := range companies {
		d, err := h.toDto(r.Context(), &companies[i])
		if err != nil {
			serverError(w, r, "load company", err)
			return
		}
		out = append(out, d)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.fetch(w, r)
	if !ok {
		return
	}
	d, err := h.toDto(r.Context(), c)
	if err != nil {
		serverError(w, r, "load company", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *CompanyHandler) Mine(w http.ResponseWriter, r *http.Request) {
	who, _ := callerFrom(r)
	c, err := h.repo.GetCompanyByUserID(r.Context(), who.UserID)
	if err != nil {
		serverError(w, r, "load company", err)
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "Company not found.")
		return
	}
	d, err := h.toDto(r.Context(), c)
	if err != nil {
		serverError(w, r, "load company", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CompanyRequest
	if !decode(w, r, "company", &req) {
		return
	}
	who, _ := callerFrom(r)

	c := &models.Company{UserID: who.UserID}
	if who.isAdmin() && req.UserID > 0 {
		c.UserID = req.UserID
	}
	mapper.CompanyFromRequest(&req, c)

	id, err := h.repo.CreateCompany(r.Context(), c)
	if errors.Is(err, repository.ErrDuplicate) {
		writeError(w, http.StatusBadRequest, "A company profile already exists for this account.")
		return
	}
	if err != nil {
		writeRepoError(w, r, err, "Company")
		return
	}
	c.ID = id

	d, err := h.toDto(r.Context(), c)
	if err != nil {
		serverError(w, r, "load company", err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := h.fetchManaged(w, r)
	if !ok {
		return
	}
	var req dto.CompanyRequest
	if !decode(w, r, "company", &req) {
		return
	}
	uploadedKey, uploadedURL := c.LogoKey, c.LogoURL
	mapper.CompanyFromRequest(&req, c)
	// a logo URL set by hand replaces the uploaded file
	if c.LogoURL != uploadedURL {
		c.LogoKey = ""
	}
	if err := h.repo.UpdateCompany(r.Context(), c); err != nil {
		writeRepoError(w, r, err, "Company")
		return
	}
	if c.LogoKey != uploadedKey {
		h.discardFile(r, uploadedKey)
	}
	d, err := h.toDto(r.Context(), c)
	if err != nil {
		serverError(w, r, "load company", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	c, ok := h.fetchManaged(w, r)
	if !ok {
		return
	}
	if err := h.repo.DeleteCompany(r.Context(), c.ID); err != nil {
		writeRepoError(w, r, err, "Company")
		return
	}
	h.discardFile(r, c.LogoKey)
	w.WriteHeader(http.StatusNoContent)
}

func (h *CompanyHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	c, ok := h.fetchManaged(w, r)
	if !ok {
		return
	}
	obj, _, ok := h.storeUpload(w, r, storage.LogoKind)
	if !ok {
		return
	}
	previous := c.LogoKey
	c.LogoURL, c.LogoKey = obj.URL, obj.Key
	if err := h.repo.UpdateCompany(r.Context(), c); err != nil {
		h.discardFile(r, obj.Key)
		writeRepoError(w, r, err, "Company")
		return
	}
	h.discardFile(r, previous)

	d, err := h.toDto(r.Context(), c)
	if err != nil {
		serverError(w, r, "load company", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
