package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/garnizeh/jobboard/internal/loader"
	"github.com/garnizeh/jobboard/internal/mapper"
	"github.com/garnizeh/jobboard/pkg/dto"
	"github.com/garnizeh/jobboard/pkg/expiry"
	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type JobHandler struct {
	base
	now func() time.Time
}

func NewJobHandler(repo repository.Store) *JobHandler {
	return &JobHandler{base: newBase(repo, nil, nil), now: time.Now}
}

// toDto maps j for the viewer; applications are only loaded for the owning
// company and admins.
func (h *JobHandler) toDto(ctx context.Context, viewer caller, j *models.Job) (dto.JobDto, error) {
	see := false
	if viewer.UserID != 0 {
		var err error
		if see, err = h.canManageCompany(ctx, viewer, j.CompanyID); err != nil {
			return dto.JobDto{}, err
		}
	}
	if err := h.load.Job(ctx, j, loader.JobOptions{Applications: see}); err != nil {
		return dto.JobDto{}, err
	}
	return mapper.Job(j), nil
}

func (h *JobHandler) respond(w http.ResponseWriter, r *http.Request, status int, j *models.Job) {
	viewer, _ := callerFrom(r)
	d, err := h.toDto(r.Context(), viewer, j)
	if err != nil {
		serverError(w, r, "load job", err)
		return
	}
	writeJSON(w, status, d)
}

func (h *JobHandler) fetch(w http.ResponseWriter, r *http.Request) (*models.Job, bool) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return nil, false
	}
	j, err := h.repo.GetJobByID(r.Context(), id)
	if err != nil {
		serverError(w, r, "load job", err)
		return nil, false
	}
	if j == nil {
		writeError(w, http.StatusNotFound, "Job not found.")
		return nil, false
	}
	return j, true
}

func (h *JobHandler) fetchManaged(w http.ResponseWriter, r *http.Request) (*models.Job, bool) {
	j, ok := h.fetch(w, r)
	if !ok {
		return nil, false
	}
	who, _ := callerFrom(r)
	allowed, err := h.canManageCompany(r.Context(), who, j.CompanyID)
	if err != nil {
		serverError(w, r, "check job owner", err)
		return nil, false
	}
	if !allowed {
		forbidden(w)
		return nil, false
	}
	return j, true
}

// parseFilter reads the listing query. It writes a validation response on bad
// input.
func (h *JobHandler) parseFilter(w http.ResponseWriter, r *http.Request) (models.JobFilter, bool) {
	var f models.JobFilter
	errs := map[string][]string{}
	for name, dst := range map[string]*int64{
		"companyId":  &f.CompanyID,
		"industryId": &f.IndustryID,
		"countryId":  &f.CountryID,
		"cityId":     &f.CityID,
	} {
		v, err := queryID(r, name)
		if err != nil {
			errs[name] = append(errs[name], err.Error())
		}
		*dst = v
	}

	q := r.URL.Query()
	f.Limit = defaultPageSize
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageSize {
			errs["limit"] = append(errs["limit"], "limit must be between 1 and "+strconv.Itoa(maxPageSize))
		}
		f.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs["offset"] = append(errs["offset"], "offset must not be negative")
		}
		f.Offset = n
	}
	if v := q.Get("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			errs["active"] = append(errs["active"], "active must be true or false")
		}
		if active {
			today := expiry.StartOfDay(h.now())
			f.NotExpiredBefore = &today
		}
	}
	if len(errs) > 0 {
		writeValidation(w, errs)
		return f, false
	}
	return f, true
}

func (h *JobHandler) page(w http.ResponseWriter, r *http.Request, f models.JobFilter) {
	jobs, total, err := h.repo.ListJobs(r.Context(), f)
	if err != nil {
		serverError(w, r, "list jobs", err)
		return
	}
	viewer, _ := callerFrom(r)
	items := make([]dto.JobDto, 0, len(jobs))
	for i := range jobs {
		d, err := h.toDto(r.Context(), viewer, &jobs[i])
		if err != nil {
			serverError(w, r, "load job", err)
			return
		}
		items = append(items, d)
	}
	writeJSON(w, http.StatusOK, dto.Page[dto.JobDto]{Total: total, Limit: f.Limit, Offset: f.Offset, Items: items})
}

func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	f, ok := h.parseFilter(w, r)
	if !ok {
		return
	}
	h.page(w, r, f)
}

// Mine lists the postings of the caller's company.
func (h *JobHandler) Mine(w http.ResponseWriter, r *http.Request) {
	f, ok := h.parseFilter(w, r)
	if !ok {
		return
	}
	who, _ := callerFrom(r)
	company, err := h.repo.GetCompanyByUserID(r.Context(), who.UserID)
	if err != nil {
		serverError(w, r, "load company", err)
		return
	}
	if company == nil {
		writeError(w, http.StatusNotFound, "Company not found.")
		return
	}
	f.CompanyID = company.ID
	h.page(w, r, f)
}

func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	if j, ok := h.fetch(w, r); ok {
		h.respond(w, r, http.StatusOK, j)
	}
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.JobRequest
	if !decode(w, r, "job", &req) {
		return
	}
	who, _ := callerFrom(r)

	j := &models.Job{Created: h.now().UTC()}
	mapper.JobFromRequest(&req, j)

	if who.isAdmin() {
		if req.CompanyID <= 0 {
			writeValidation(w, map[string][]string{"companyId": {"companyId is required."}})
			return
		}
		j.CompanyID = req.CompanyID
	} else {
		company, err := h.repo.GetCompanyByUserID(r.Context(), who.UserID)
		if err != nil {
			serverError(w, r, "load company", err)
			return
		}
		if company == nil {
			writeError(w, http.StatusBadRequest, "Create a company profile before posting jobs.")
			return
		}
		j.CompanyID = company.ID
	}

	id, err := h.repo.CreateJobWithSkills(r.Context(), j, req.SkillIDs)
	if err != nil {
		writeRepoError(w, r, err, "Job")
		return
	}
	j.ID = id
	logger.Info("job created", "job_id", id, "company_id", j.CompanyID)
	h.respond(w, r, http.StatusCreated, j)
}

func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	j, ok := h.fetchManaged(w, r)
	if !ok {
		return
	}
	var req dto.JobRequest
	if !decode(w, r, "job", &req) {
		return
	}
	mapper.JobFromRequest(&req, j)
	if err := h.repo.UpdateJobWithSkills(r.Context(), j, req.SkillIDs); err != nil {
		writeRepoError(w, r, err, "Job")
		return
	}
	h.respond(w, r, http.StatusOK, j)
}

func (h *JobHandler) SetSkills(w http.ResponseWriter, r *http.Request) {
	j, ok := h.fetchManaged(w, r)
	if !ok {
		return
	}
	var req dto.SkillIDsRequest
	if !decode(w, r, "skillIds", &req) {
		return
	}
	if err := h.repo.SetJobSkills(r.Context(), j.ID, req.SkillIDs); err != nil {
		writeRepoError(w, r, err, "Job")
		return
	}
	h.respond(w, r, http.StatusOK, j)
}

func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	j, ok := h.fetchManaged(w, r)
	if !ok {
		return
	}
	if err := h.repo.DeleteJob(r.Context(), j.ID); err != nil {
		writeRepoError(w, r, err, "Job")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
