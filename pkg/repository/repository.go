package repository

import (
	"context"
	"errors"

	"github.com/garnizeh/jobboard/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
// Getters return nil, nil when the row does not exist.

var (
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")

	// ErrNotFound is returned by updates and deletes that matched no row.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidReference is returned when a foreign key points nowhere.
	ErrInvalidReference = errors.New("invalid reference")
)

type UserRepo interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// RegisterCandidate stores the user and its candidate profile atomically,
	// filling in the generated IDs.
	RegisterCandidate(ctx context.Context, u *models.User, c *models.Candidate) error
	// RegisterCompany stores the user and its company profile atomically.
	RegisterCompany(ctx context.Context, u *models.User, c *models.Company) error
	CreateUser(ctx context.Context, u *models.User) (int64, error)
}

type CompanyRepo interface {
	CreateCompany(ctx context.Context, c *models.Company) (int64, error)
	GetCompanyByID(ctx context.Context, id int64) (*models.Company, error)
	GetCompanyByUserID(ctx context.Context, userID int64) (*models.Company, error)
	ListCompanies(ctx context.Context) ([]models.Company, error)
	UpdateCompany(ctx context.Context, c *models.Company) error
	DeleteCompany(ctx context.Context, id int64) error
}

type CandidateRepo interface {
	GetCandidateByID(ctx context.Context, id int64) (*models.Candidate, error)
	GetCandidateByUserID(ctx context.Context, userID int64) (*models.Candidate, error)
	ListCandidates(ctx context.Context) ([]models.Candidate, error)
	UpdateCandidate(ctx context.Context, c *models.Candidate) error
	DeleteCandidate(ctx context.Context, id int64) error
	ListCandidateSkills(ctx context.Context, candidateID int64) ([]models.CandidateSkill, error)
	SetCandidateSkills(ctx context.Context, candidateID int64, skillIDs []int64) error
}

type JobRepo interface {
	CreateJob(ctx context.Context, j *models.Job) (int64, error)
	// CreateJobWithSkills creates the job and its skill links atomically. An
	// unknown company or skill returns ErrInvalidReference and stores nothing.
	CreateJobWithSkills(ctx context.Context, j *models.Job, skillIDs []int64) (int64, error)
	GetJobByID(ctx context.Context, id int64) (*models.Job, error)
	// ListJobs returns one page of jobs, newest first, and the total count
	// matching the filter.
	ListJobs(ctx context.Context, f models.JobFilter) ([]models.Job, int64, error)
	UpdateJob(ctx context.Context, j *models.Job) error
	// UpdateJobWithSkills is UpdateJob plus, when skillIDs is non-nil, a
	// replacement of the job's skills, all or nothing.
	UpdateJobWithSkills(ctx context.Context, j *models.Job, skillIDs []int64) error
	DeleteJob(ctx context.Context, id int64) error
	ListJobSkills(ctx context.Context, jobID int64) ([]models.JobSkill, error)
	SetJobSkills(ctx context.Context, jobID int64, skillIDs []int64) error
}

type ApplicationRepo interface {
	// CreateApplication returns ErrDuplicate when the candidate already
	// applied to the job.
	CreateApplication(ctx context.Context, a *models.JobApplication) (int64, error)
	GetApplicationByID(ctx context.Context, id int64) (*models.JobApplication, error)
	ListApplicationsByJob(ctx context.Context, jobID int64) ([]models.JobApplication, error)
	ListApplicationsByCandidate(ctx context.Context, candidateID int64) ([]models.JobApplication, error)
	UpdateApplicationStatus(ctx context.Context, id int64, status string) error
	DeleteApplication(ctx context.Context, id int64) error
}

type ResumeRepo interface {
	// CreateResume stores r; when r.IsDefault is set every other resume of
	// the candidate loses its default flag.
	CreateResume(ctx context.Context, r *models.Resume) (int64, error)
	GetResumeByID(ctx context.Context, id int64) (*models.Resume, error)
	ListResumesByCandidate(ctx context.Context, candidateID int64) ([]models.Resume, error)
	SetDefaultResume(ctx context.Context, candidateID, resumeID int64) error
	DeleteResume(ctx context.Context, id int64) error
}

// ReferenceRepo covers the lookup tables: countries, cities, industries and skills.
type ReferenceRepo interface {
	CreateCountry(ctx context.Context, c *models.Country) (int64, error)
	GetCountryByID(ctx context.Context, id int64) (*models.Country, error)
	ListCountries(ctx context.Context) ([]models.Country, error)
	UpdateCountry(ctx context.Context, c *models.Country) error
	DeleteCountry(ctx context.Context, id int64) error

	CreateCity(ctx context.Context, c *models.City) (int64, error)
	GetCityByID(ctx context.Context, id int64) (*models.City, error)
	// ListCities returns the cities of countryID, or all cities when it is 0.
	ListCities(ctx context.Context, countryID int64) ([]models.City, error)
	UpdateCity(ctx context.Context, c *models.City) error
	DeleteCity(ctx context.Context, id int64) error

	CreateIndustry(ctx context.Context, i *models.Industry) (int64, error)
	GetIndustryByID(ctx context.Context, id int64) (*models.Industry, error)
	ListIndustries(ctx context.Context) ([]models.Industry, error)
	UpdateIndustry(ctx context.Context, i *models.Industry) error
	DeleteIndustry(ctx context.Context, id int64) error

	CreateSkill(ctx context.Context, s *models.Skill) (int64, error)
	GetSkillByID(ctx context.Context, id int64) (*models.Skill, error)
	ListSkills(ctx context.Context) ([]models.Skill, error)
	UpdateSkill(ctx context.Context, s *models.Skill) error
	DeleteSkill(ctx context.Context, id int64) error
}

// Store groups every repository; the SQLite implementation satisfies it.
type Store interface {
	UserRepo
	CompanyRepo
	CandidateRepo
	JobRepo
	ApplicationRepo
	ResumeRepo
	ReferenceRepo
}
