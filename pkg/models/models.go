package models

import "time"

// Domain models matching the database schema in db/migrations/0001_init.sql.
// Relation fields (pointers and slices without a db tag) are filled by
// internal/loader; repositories only populate the scalar columns.

const (
	RoleAdmin     = "Admin"
	RoleCandidate = "Candidate"
	RoleCompany   = "Company"
)

const (
	ApplicationStatusPending  = "Pending"
	ApplicationStatusReviewed = "Reviewed"
	ApplicationStatusAccepted = "Accepted"
	ApplicationStatusRejected = "Rejected"
)

// ValidApplicationStatus reports whether s is one of the known application states.
func ValidApplicationStatus(s string) bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusReviewed, ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	}
	return false
}

// User is the account record every profile hangs off.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PhoneNumber  string    `json:"phone_number" db:"phone_number"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	Created      time.Time `json:"created" db:"created"`
}

type Country struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Code string `json:"code" db:"code"`
}

type City struct {
	ID        int64  `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	CountryID int64  `json:"country_id" db:"country_id"`

	Country *Country `json:"-"`
}

type Industry struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Skill struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Company struct {
	ID          int64  `json:"id" db:"id"`
	UserID      int64  `json:"user_id" db:"user_id"`
	CompanyName string `json:"company_name" db:"company_name"`
	Description string `json:"description" db:"description"`
	Website     string `json:"website" db:"website"`
	CountryID   *int64 `json:"country_id,omitempty" db:"country_id"`
	CityID      *int64 `json:"city_id,omitempty" db:"city_id"`
	LogoURL     string `json:"logo_url" db:"logo_url"`
	LogoKey     string `json:"-" db:"logo_key"`

	User    *User    `json:"-"`
	Country *Country `json:"-"`
	City    *City    `json:"-"`
}

type Candidate struct {
	ID        int64  `json:"id" db:"id"`
	UserID    int64  `json:"user_id" db:"user_id"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`

	User   *User            `json:"-"`
	Skills []CandidateSkill `json:"-"`
}

// CandidateSkill links a candidate to a skill. Skill is nil when the
// referenced skill row no longer exists.
type CandidateSkill struct {
	CandidateID int64 `json:"candidate_id" db:"candidate_id"`
	SkillID     int64 `json:"skill_id" db:"skill_id"`

	Skill *Skill `json:"-"`
}

type Job struct {
	ID             int64      `json:"id" db:"id"`
	Title          string     `json:"title" db:"title"`
	Description    string     `json:"description" db:"description"`
	Salary         string     `json:"salary" db:"salary"`
	EmploymentType string     `json:"employment_type" db:"employment_type"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty" db:"expiration_date"`
	CompanyID      int64      `json:"company_id" db:"company_id"`
	IndustryID     *int64     `json:"industry_id,omitempty" db:"industry_id"`
	CountryID      *int64     `json:"country_id,omitempty" db:"country_id"`
	CityID         *int64     `json:"city_id,omitempty" db:"city_id"`
	Created        time.Time  `json:"created" db:"created"`

	Company      *Company         `json:"-"`
	Industry     *Industry        `json:"-"`
	Country      *Country         `json:"-"`
	City         *City            `json:"-"`
	Skills       []JobSkill       `json:"-"`
	Applications []JobApplication `json:"-"`
}

type JobSkill struct {
	JobID   int64 `json:"job_id" db:"job_id"`
	SkillID int64 `json:"skill_id" db:"skill_id"`

	Skill *Skill `json:"-"`
}

type JobApplication struct {
	ID          int64     `json:"id" db:"id"`
	JobID       int64     `json:"job_id" db:"job_id"`
	CandidateID int64     `json:"candidate_id" db:"candidate_id"`
	ResumeID    *int64    `json:"resume_id,omitempty" db:"resume_id"`
	Status      string    `json:"status" db:"status"`
	AppliedAt   time.Time `json:"applied_at" db:"applied_at"`
	Notes       string    `json:"notes" db:"notes"`

	Job       *Job       `json:"-"`
	Candidate *Candidate `json:"-"`
}

type Resume struct {
	ID          int64     `json:"id" db:"id"`
	CandidateID int64     `json:"candidate_id" db:"candidate_id"`
	FileName    string    `json:"file_name" db:"file_name"`
	FileURL     string    `json:"file_url" db:"file_url"`
	FileKey     string    `json:"-" db:"file_key"`
	IsDefault   bool      `json:"is_default" db:"is_default"`
	UploadedAt  time.Time `json:"uploaded_at" db:"uploaded_at"`
}

// JobFilter narrows job listings. Zero values mean "any".
type JobFilter struct {
	CompanyID  int64
	IndustryID int64
	CountryID  int64
	CityID     int64

	// NotExpiredBefore drops jobs whose expiration date is earlier than it.
	NotExpiredBefore *time.Time

	Limit  int
	Offset int
}
