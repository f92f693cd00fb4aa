package api

import (
	"net/http"
	"strings"

	"github.com/garnizeh/jobboard/internal/mapper"
	"github.com/garnizeh/jobboard/pkg/dto"
	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
)

// ReferenceHandler serves the lookup tables. Reads are public, writes are
// admin only.
type ReferenceHandler struct {
	base
}

func NewReferenceHandler(repo repository.Store) *ReferenceHandler {
	return &ReferenceHandler{base: newBase(repo, nil, nil)}
}

// countries

func (h *ReferenceHandler) ListCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.repo.ListCountries(r.Context())
	if err != nil {
		serverError(w, r, "list countries", err)
		return
	}
	writeJSON(w, http.StatusOK, mapper.Slice(countries, mapper.Country))
}

func (h *ReferenceHandler) CreateCountry(w http.ResponseWriter, r *http.Request) {
	var req dto.CountryRequest
	if !decode(w, r, "country", &req) {
		return
	}
	c := &models.Country{Name: strings.TrimSpace(req.Name), Code: strings.ToUpper(strings.TrimSpace(req.Code))}
	id, err := h.repo.CreateCountry(r.Context(), c)
	if err != nil {
		writeRepoError(w, r, err, "Country")
		return
	}
	c.ID = id
	writeJSON(w, http.StatusCreated, mapper.Country(c))
}

func (h *ReferenceHandler) UpdateCountry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.CountryRequest
	if !decode(w, r, "country", &req) {
		return
	}
	c := &models.Country{ID: id, Name: strings.TrimSpace(req.Name), Code: strings.ToUpper(strings.TrimSpace(req.Code))}
	if err := h.repo.UpdateCountry(r.Context(), c); err != nil {
		writeRepoError(w, r, err, "Country")
		return
	}
	writeJSON(w, http.StatusOK, mapper.Country(c))
}

func (h *ReferenceHandler) DeleteCountry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.repo.DeleteCountry(r.Context(), id); err != nil {
		writeRepoError(w, r, err, "Country")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// cities

func (h *ReferenceHandler) cities(w http.ResponseWriter, r *http.Request, countryID int64) {
	cities, err := h.repo.ListCities(r.Context(), countryID)
	if err != nil {
		serverError(w, r, "list cities", err)
		return
	}
	out := make([]dto.CityDto, 0, len(cities))
	for i := range cities {
		if err := h.load.City(r.Context(), &cities[i]); err != nil {
			serverError(w, r, "load city", err)
			return
		}
		out = append(out, mapper.City(&cities[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// ListCities lists every city, or those of ?countryId=.
func (h *ReferenceHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	countryID, err := queryID(r, "countryId")
	if err != nil {
		writeValidation(w, map[string][]string{"countryId": {err.Error()}})
		return
	}
	h.cities(w, r, countryID)
}

func (h *ReferenceHandler) CountryCities(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	country, err := h.repo.GetCountryByID(r.Context(), id)
	if err != nil {
		serverError(w, r, "load country", err)
		return
	}
	if country == nil {
		writeError(w, http.StatusNotFound, "Country not found.")
		return
	}
	h.cities(w, r, id)
}

func (h *ReferenceHandler) cityResponse(w http.ResponseWriter, r *http.Request, status int, c *models.City) {
	if err := h.load.City(r.Context(), c); err != nil {
		serverError(w, r, "load city", err)
		return
	}
	writeJSON(w, status, mapper.City(c))
}

func (h *ReferenceHandler) CreateCity(w http.ResponseWriter, r *http.Request) {
	var req dto.CityRequest
	if !decode(w, r, "city", &req) {
		return
	}
	c := &models.City{Name: strings.TrimSpace(req.Name), CountryID: req.CountryID}
	id, err := h.repo.CreateCity(r.Context(), c)
	if err != nil {
		writeRepoError(w, r, err, "City")
		return
	}
	c.ID = id
	h.cityResponse(w, r, http.StatusCreated, c)
}

func (h *ReferenceHandler) UpdateCity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.CityRequest
	if !decode(w, r, "city", &req) {
		return
	}
	c := &models.City{ID: id, Name: strings.TrimSpace(req.Name), CountryID: req.CountryID}
	if err := h.repo.UpdateCity(r.Context(), c); err != nil {
		writeRepoError(w, r, err, "City")
		return
	}
	h.cityResponse(w, r, http.StatusOK, c)
}

func (h *ReferenceHandler) DeleteCity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.repo.DeleteCity(r.Context(), id); err != nil {
		writeRepoError(w, r, err, "City")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// industries

func (h *ReferenceHandler) ListIndustries(w http.ResponseWriter, r *http.Request) {
	industries, err := h.repo.ListIndustries(r.Context())
	if err != nil {
		serverError(w, r, "list industries", err)
		return
	}
	writeJSON(w, http.StatusOK, mapper.Slice(industries, mapper.Industry))
}

func (h *ReferenceHandler) CreateIndustry(w http.ResponseWriter, r *http.Request) {
	var req dto.NameRequest
	if !decode(w, r, "name", &req) {
		return
	}
	i := &models.Industry{Name: strings.TrimSpace(req.Name)}
	id, err := h.repo.CreateIndustry(r.Context(), i)
	if err != nil {
		writeRepoError(w, r, err, "Industry")
		return
	}
	i.ID = id
	writeJSON(w, http.StatusCreated, mapper.Industry(i))
}

func (h *ReferenceHandler) UpdateIndustry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.NameRequest
	if !decode(w, r, "name", &req) {
		return
	}
	i := &models.Industry{ID: id, Name: strings.TrimSpace(req.Name)}
	if err := h.repo.UpdateIndustry(r.Context(), i); err != nil {
		writeRepoError(w, r, err, "Industry")
		return
	}
	writeJSON(w, http.StatusOK, mapper.Industry(i))
}

func (h *ReferenceHandler) DeleteIndustry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.repo.DeleteIndustry(r.Context(), id); err != nil {
		writeRepoError(w, r, err, "Industry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// skills

func (h *ReferenceHandler) ListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.repo.ListSkills(r.Context())
	if err != nil {
		serverError(w, r, "list skills", err)
		return
	}
	writeJSON(w, http.StatusOK, mapper.Slice(skills, mapper.Skill))
}

func (h *ReferenceHandler) CreateSkill(w http.ResponseWriter, r *http.Request) {
	var req dto.NameRequest
	if !decode(w, r, "name", &req) {
		return
	}
	s := &models.Skill{Name: strings.TrimSpace(req.Name)}
	id, err := h.repo.CreateSkill(r.Context(), s)
	if err != nil {
		writeRepoError(w, r, err, "Skill")
		return
	}
	s.ID = id
	writeJSON(w, http.StatusCreated, mapper.Skill(s))
}

func (h *ReferenceHandler) UpdateSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.NameRequest
	if !decode(w, r, "name", &req) {
		return
	}
	s := &models.Skill{ID: id, Name: strings.TrimSpace(req.Name)}
	if err := h.repo.UpdateSkill(r.Context(), s); err != nil {
		writeRepoError(w, r, err, "Skill")
		return
	}
	writeJSON(w, http.StatusOK, mapper.Skill(s))
}

func (h *ReferenceHandler) DeleteSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.repo.DeleteSkill(r.Context(), id); err != nil {
		writeRepoError(w, r, err, "Skill")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
