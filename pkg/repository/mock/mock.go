package mock

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
)

// Store is an in-memory repository.Store for tests. Set Err to make every
// call fail; the maps may be seeded directly.
type Store struct {
	mu sync.Mutex

	Err error

	Users        map[int64]*models.User
	Companies    map[int64]*models.Company
	Candidates   map[int64]*models.Candidate
	Jobs         map[int64]*models.Job
	Applications map[int64]*models.JobApplication
	Resumes      map[int64]*models.Resume
	Countries    map[int64]*models.Country
	Cities       map[int64]*models.City
	Industries   map[int64]*models.Industry
	Skills       map[int64]*models.Skill

	CandidateSkills map[int64][]int64
	JobSkills       map[int64][]int64

	nextID int64
}

var _ repository.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		Users:           map[int64]*models.User{},
		Companies:       map[int64]*models.Company{},
		Candidates:      map[int64]*models.Candidate{},
		Jobs:            map[int64]*models.Job{},
		Applications:    map[int64]*models.JobApplication{},
		Resumes:         map[int64]*models.Resume{},
		Countries:       map[int64]*models.Country{},
		Cities:          map[int64]*models.City{},
		Industries:      map[int64]*models.Industry{},
		Skills:          map[int64]*models.Skill{},
		CandidateSkills: map[int64][]int64{},
		JobSkills:       map[int64][]int64{},
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func sortedValues[T any](m map[int64]*T, keep func(*T) bool) []T {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := []T{}
	for _, k := range keys {
		if keep == nil || keep(m[k]) {
			out = append(out, *m[k])
		}
	}
	return out
}

// users

func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return clone(s.Users[id]), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.Users {
		if strings.EqualFold(u.Email, email) {
			return clone(u), nil
		}
	}
	return nil, nil
}

func (s *Store) insertUser(u *models.User) error {
	for _, existing := range s.Users {
		if strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrDuplicate
		}
	}
	u.ID = s.id()
	s.Users[u.ID] = clone(u)
	return nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	if err := s.insertUser(u); err != nil {
		return 0, err
	}
	return u.ID, nil
}

func (s *Store) RegisterCandidate(ctx context.Context, u *models.User, c *models.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if err := s.insertUser(u); err != nil {
		return err
	}
	c.UserID = u.ID
	c.ID = s.id()
	s.Candidates[c.ID] = clone(c)
	return nil
}

func (s *Store) RegisterCompany(ctx context.Context, u *models.User, c *models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if err := s.insertUser(u); err != nil {
		return err
	}
	c.UserID = u.ID
	c.ID = s.id()
	s.Companies[c.ID] = clone(c)
	return nil
}

// companies

func (s *Store) CreateCompany(ctx context.Context, c *models.Company) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	for _, existing := range s.Companies {
		if existing.UserID == c.UserID {
			return 0, repository.ErrDuplicate
		}
	}
	c.ID = s.id()
	s.Companies[c.ID] = clone(c)
	return c.ID, nil
}

func (s *Store) GetCompanyByID(ctx context.Context, id int64) (*models.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return clone(s.Companies[id]), nil
}

func (s *Store) GetCompanyByUserID(ctx context.Context, userID int64) (*models.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, c := range s.Companies {
		if c.UserID == userID {
			return clone(c), nil
		}
	}
	return nil, nil
}

func (s *Store) ListCompanies(ctx context.Context) ([]models.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return sortedValues(s.Companies, nil), nil
}

func (s *Store) UpdateCompany(ctx context.Context, c *models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Companies[c.ID]; !ok {
		return repository.ErrNotFound
	}
	s.Companies[c.ID] = clone(c)
	return nil
}

func (s *Store) DeleteCompany(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Companies[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.Companies, id)
	return nil
}

// candidates

func (s *Store) GetCandidateByID(ctx context.Context, id int64) (*models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return clone(s.Candidates[id]), nil
}

func (s *Store) GetCandidateByUserID(ctx context.Context, userID int64) (*models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, c := range s.Candidates {
		if c.UserID == userID {
			return clone(c), nil
		}
	}
	return nil, nil
}

func (s *Store) ListCandidates(ctx context.Context) ([]models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return sortedValues(s.Candidates, nil), nil
}

func (s *Store) UpdateCandidate(ctx context.Context, c *models.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Candidates[c.ID]; !ok {
		return repository.ErrNotFound
	}
	s.Candidates[c.ID] = clone(c)
	return nil
}

func (s *Store) DeleteCandidate(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	c, ok := s.Candidates[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(s.Users, c.UserID)
	delete(s.Candidates, id)
	delete(s.CandidateSkills, id)
	return nil
}

func (s *Store) ListCandidateSkills(ctx context.Context, candidateID int64) ([]models.CandidateSkill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []models.CandidateSkill{}
	for _, sid := range s.CandidateSkills[candidateID] {
		out = append(out, models.CandidateSkill{CandidateID: candidateID, SkillID: sid})
	}
	return out, nil
}

func (s *Store) SetCandidateSkills(ctx context.Context, candidateID int64, skillIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	links, err := s.skillLinks(skillIDs)
	if err != nil {
		return err
	}
	s.CandidateSkills[candidateID] = links
	return nil
}

// skillLinks dedupes ids and rejects unknown skills, as the foreign keys do.
func (s *Store) skillLinks(ids []int64) ([]int64, error) {
	out := make([]int64, 0, len(ids))
	seen := map[int64]bool{}
	for _, id := range ids {
		if _, ok := s.Skills[id]; !ok {
			return nil, repository.ErrInvalidReference
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, nil
}

// checkJobRefs mirrors the jobs table foreign keys.
func (s *Store) checkJobRefs(j *models.Job) error {
	if _, ok := s.Companies[j.CompanyID]; !ok {
		return repository.ErrInvalidReference
	}
	if j.IndustryID != nil && s.Industries[*j.IndustryID] == nil {
		return repository.ErrInvalidReference
	}
	if j.CountryID != nil && s.Countries[*j.CountryID] == nil {
		return repository.ErrInvalidReference
	}
	if j.CityID != nil && s.Cities[*j.CityID] == nil {
		return repository.ErrInvalidReference
	}
	return nil
}

// jobs

func (s *Store) CreateJob(ctx context.Context, j *models.Job) (int64, error) {
	return s.CreateJobWithSkills(ctx, j, nil)
}

func (s *Store) CreateJobWithSkills(ctx context.Context, j *models.Job, skillIDs []int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	if err := s.checkJobRefs(j); err != nil {
		return 0, err
	}
	links, err := s.skillLinks(skillIDs)
	if err != nil {
		return 0, err
	}
	j.ID = s.id()
	s.Jobs[j.ID] = clone(j)
	if len(links) > 0 {
		s.JobSkills[j.ID] = links
	}
	return j.ID, nil
}

func (s *Store) GetJobByID(ctx context.Context, id int64) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return clone(s.Jobs[id]), nil
}

func (s *Store) ListJobs(ctx context.Context, f models.JobFilter) ([]models.Job, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, 0, s.Err
	}
	match := func(want int64, got *int64) bool {
		return want == 0 || (got != nil && *got == want)
	}
	all := sortedValues(s.Jobs, func(j *models.Job) bool {
		if f.CompanyID > 0 && j.CompanyID != f.CompanyID {
			return false
		}
		if f.NotExpiredBefore != nil && j.ExpirationDate != nil && j.ExpirationDate.Before(*f.NotExpiredBefore) {
			return false
		}
		return match(f.IndustryID, j.IndustryID) && match(f.CountryID, j.CountryID) && match(f.CityID, j.CityID)
	})
	total := int64(len(all))
	if f.Offset > 0 {
		if f.Offset >= len(all) {
			return []models.Job{}, total, nil
		}
		all = all[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(all) {
		all = all[:f.Limit]
	}
	return all, total, nil
}

func (s *Store) UpdateJob(ctx context.Context, j *models.Job) error {
	return s.UpdateJobWithSkills(ctx, j, nil)
}

func (s *Store) UpdateJobWithSkills(ctx context.Context, j *models.Job, skillIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Jobs[j.ID]; !ok {
		return repository.ErrNotFound
	}
	if err := s.checkJobRefs(j); err != nil {
		return err
	}
	var links []int64
	if skillIDs != nil {
		var err error
		if links, err = s.skillLinks(skillIDs); err != nil {
			return err
		}
	}
	s.Jobs[j.ID] = clone(j)
	if skillIDs != nil {
		s.JobSkills[j.ID] = links
	}
	return nil
}

func (s *Store) DeleteJob(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Jobs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.Jobs, id)
	delete(s.JobSkills, id)
	for aid, a := range s.Applications {
		if a.JobID == id {
			delete(s.Applications, aid)
		}
	}
	return nil
}

func (s *Store) ListJobSkills(ctx context.Context, jobID int64) ([]models.JobSkill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []models.JobSkill{}
	for _, sid := range s.JobSkills[jobID] {
		out = append(out, models.JobSkill{JobID: jobID, SkillID: sid})
	}
	return out, nil
}

func (s *Store) SetJobSkills(ctx context.Context, jobID int64, skillIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Jobs[jobID]; !ok {
		return repository.ErrInvalidReference
	}
	links, err := s.skillLinks(skillIDs)
	if err != nil {
		return err
	}
	s.JobSkills[jobID] = links
	return nil
}

// applications

func (s *Store) CreateApplication(ctx context.Context, a *models.JobApplication) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	for _, existing := range s.Applications {
		if existing.JobID == a.JobID && existing.CandidateID == a.CandidateID {
			return 0, repository.ErrDuplicate
		}
	}
	if a.Status == "" {
		a.Status = models.ApplicationStatusPending
	}
	a.ID = s.id()
	s.Applications[a.ID] = clone(a)
	return a.ID, nil
}

func (s *Store) GetApplicationByID(ctx context.Context, id int64) (*models.JobApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return clone(s.Applications[id]), nil
}

func (s *Store) ListApplicationsByJob(ctx context.Context, jobID int64) ([]models.JobApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return sortedValues(s.Applications, func(a *models.JobApplication) bool { return a.JobID == jobID }), nil
}

func (s *Store) ListApplicationsByCandidate(ctx context.Context, candidateID int64) ([]models.JobApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return sortedValues(s.Applications, func(a *models.JobApplication) bool { return a.CandidateID == candidateID }), nil
}

func (s *Store) UpdateApplicationStatus(ctx context.Context, id int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	a, ok := s.Applications[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	return nil
}

func (s *Store) DeleteApplication(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Applications[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.Applications, id)
	return nil
}

// resumes

func (s *Store) CreateResume(ctx context.Context, r *models.Resume) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	if r.IsDefault {
		for _, existing := range s.Resumes {
			if existing.CandidateID == r.CandidateID {
				existing.IsDefault = false
			}
		}
	}
	r.ID = s.id()
	s.Resumes[r.ID] = clone(r)
	return r.ID, nil
}

func (s *Store) GetResumeByID(ctx context.Context, id int64) (*models.Resume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return clone(s.Resumes[id]), nil
}

func (s *Store) ListResumesByCandidate(ctx context.Context, candidateID int64) ([]models.Resume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return sortedValues(s.Resumes, func(r *models.Resume) bool { return r.CandidateID == candidateID }), nil
}

func (s *Store) SetDefaultResume(ctx context.Context, candidateID, resumeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	target, ok := s.Resumes[resumeID]
	if !ok || target.CandidateID != candidateID {
		return repository.ErrNotFound
	}
	for _, r := range s.Resumes {
		if r.CandidateID == candidateID {
			r.IsDefault = r.ID == resumeID
		}
	}
	return nil
}

func (s *Store) DeleteResume(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Resumes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.Resumes, id)
	return nil
}

// reference data

func (s *Store) CreateCountry(ctx context.Context, c *models.Country) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	for _, existing := range s.Countries {
		if strings.EqualFold(existing.Code, c.Code) {
			return 0, repository.ErrDuplicate
		}
	}
	c.ID = s.id()
	s.Countries[c.ID] = clone(c)
	return c.ID, nil
}

func (s *Store) GetCountryByID(ctx context.Context, id int64) (*models.Country, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return clone(s.Countries[id]), nil
}

func (s *Store) ListCountries(ctx context.Context) ([]models.Country, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return sortedValues(s.Countries, nil), nil
}

func (s *Store) UpdateCountry(ctx context.Context, c *models.Country) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Countries[c.ID]; !ok {
		return repository.ErrNotFound
	}
	s.Countries[c.ID] = clone(c)
	return nil
}

func (s *Store) DeleteCountry(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Countries[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.Countries, id)
	return nil
}

func (s *Store) CreateCity(ctx context.Context, c *models.City) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	if _, ok := s.Countries[c.CountryID]; !ok {
		return 0, repository.ErrInvalidReference
	}
	c.ID = s.id()
	s.Cities[c.ID] = clone(c)
	return c.ID, nil
}

func (s *Store) GetCityByID(ctx context.Context, id int64) (*models.City, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return clone(s.Cities[id]), nil
}

func (s *Store) ListCities(ctx context.Context, countryID int64) ([]models.City, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return sortedValues(s.Cities, func(c *models.City) bool { return countryID == 0 || c.CountryID == countryID }), nil
}

func (s *Store) UpdateCity(ctx context.Context, c *models.City) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Cities[c.ID]; !ok {
		return repository.ErrNotFound
	}
	s.Cities[c.ID] = clone(c)
	return nil
}

func (s *Store) DeleteCity(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Cities[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.Cities, id)
	return nil
}

func (s *Store) CreateIndustry(ctx context.Context, i *models.Industry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	i.ID = s.id()
	s.Industries[i.ID] = clone(i)
	return i.ID, nil
}

func (s *Store) GetIndustryByID(ctx context.Context, id int64) (*models.Industry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return clone(s.Industries[id]), nil
}

func (s *Store) ListIndustries(ctx context.Context) ([]models.Industry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return sortedValues(s.Industries, nil), nil
}

func (s *Store) UpdateIndustry(ctx context.Context, i *models.Industry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Industries[i.ID]; !ok {
		return repository.ErrNotFound
	}
	s.Industries[i.ID] = clone(i)
	return nil
}

func (s *Store) DeleteIndustry(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Industries[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.Industries, id)
	return nil
}

func (s *Store) CreateSkill(ctx context.Context, sk *models.Skill) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	sk.ID = s.id()
	s.Skills[sk.ID] = clone(sk)
	return sk.ID, nil
}

func (s *Store) GetSkillByID(ctx context.Context, id int64) (*models.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return clone(s.Skills[id]), nil
}

func (s *Store) ListSkills(ctx context.Context) ([]models.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return sortedValues(s.Skills, nil), nil
}

func (s *Store) UpdateSkill(ctx context.Context, sk *models.Skill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Skills[sk.ID]; !ok {
		return repository.ErrNotFound
	}
	s.Skills[sk.ID] = clone(sk)
	return nil
}

func (s *Store) DeleteSkill(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Skills[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.Skills, id)
	return nil
}
