// Package dto holds the flat transport shapes served by the api package and
// consumed by pkg/client. Relation identifiers are accompanied by display names
// so callers never have to walk the relational graph.
package dto

import "time"

type UserDto struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
	Name        string `json:"name,omitempty"`
}

type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDto `json:"user"`
}

type CountryDto struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type CityDto struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	CountryID   int64   `json:"countryId"`
	CountryName *string `json:"countryName"`
}

type IndustryDto struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type SkillDto struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CompanyDto struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"userId"`
	CompanyName string  `json:"companyName"`
	Description string  `json:"description"`
	Website     string  `json:"website"`
	CountryID   *int64  `json:"countryId"`
	CountryName *string `json:"countryName"`
	CityID      *int64  `json:"cityId"`
	CityName    *string `json:"cityName"`
	LogoURL     string  `json:"logoUrl"`
}

type CandidateDto struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Email       *string    `json:"email"`
	PhoneNumber *string    `json:"phoneNumber"`
	Skills      []SkillDto `json:"skills"`
}

type JobSkillDto struct {
	SkillID   int64  `json:"skillId"`
	SkillName string `json:"skillName"`
}

// ApplicationSummaryDto is the per-application row embedded in a JobDto.
type ApplicationSummaryDto struct {
	ID                 int64     `json:"id"`
	CandidateID        int64     `json:"candidateId"`
	CandidateFirstName string    `json:"candidateFirstName"`
	CandidateLastName  string    `json:"candidateLastName"`
	CandidateFullName  string    `json:"candidateFullName"`
	CandidateEmail     string    `json:"candidateEmail"`
	ResumeID           *int64    `json:"resumeId"`
	Status             string    `json:"status"`
	AppliedAt          time.Time `json:"appliedAt"`
	Notes              string    `json:"notes"`
}

type JobDto struct {
	ID             int64                   `json:"id"`
	Title          string                  `json:"title"`
	Description    string                  `json:"description"`
	Salary         string                  `json:"salary"`
	EmploymentType string                  `json:"employmentType"`
	ExpirationDate *time.Time              `json:"expirationDate"`
	CreatedAt      time.Time               `json:"createdAt"`
	CompanyID      int64                   `json:"companyId"`
	CompanyName    *string                 `json:"companyName"`
	CompanyLogoURL *string                 `json:"companyLogoUrl"`
	IndustryID     *int64                  `json:"industryId"`
	IndustryName   *string                 `json:"industryName"`
	CountryID      *int64                  `json:"countryId"`
	CountryName    *string                 `json:"countryName"`
	CityID         *int64                  `json:"cityId"`
	CityName       *string                 `json:"cityName"`
	Skills         []JobSkillDto           `json:"skills"`
	Applications   []ApplicationSummaryDto `json:"applications"`
}

type JobApplicationDto struct {
	ID            int64     `json:"id"`
	JobID         int64     `json:"jobId"`
	JobTitle      string    `json:"jobTitle"`
	CompanyName   string    `json:"companyName"`
	CandidateID   int64     `json:"candidateId"`
	CandidateName string    `json:"candidateName"`
	ResumeID      *int64    `json:"resumeId"`
	Status        string    `json:"status"`
	AppliedAt     time.Time `json:"appliedAt"`
	Notes         string    `json:"notes"`
}

type ResumeDto struct {
	ID          int64     `json:"id"`
	CandidateID int64     `json:"candidateId"`
	FileName    string    `json:"fileName"`
	FileURL     string    `json:"fileUrl"`
	IsDefault   bool      `json:"isDefault"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// Request bodies. Shapes are validated against the JSON schemas in
// api/schemas.go before decoding.

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	CompanyName string `json:"companyName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CompanyRequest struct {
	CompanyName string `json:"companyName"`
	Description string `json:"description"`
	Website     string `json:"website"`
	CountryID   *int64 `json:"countryId"`
	CityID      *int64 `json:"cityId"`
	LogoURL     string `json:"logoUrl"`
	// UserID is honoured only for admins creating a company on behalf of an account.
	UserID int64 `json:"userId"`
}

type CandidateRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type SkillIDsRequest struct {
	SkillIDs []int64 `json:"skillIds"`
}

type JobRequest struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Salary         string  `json:"salary"`
	EmploymentType string  `json:"employmentType"`
	ExpirationDate *Date   `json:"expirationDate"`
	IndustryID     *int64  `json:"industryId"`
	CountryID      *int64  `json:"countryId"`
	CityID         *int64  `json:"cityId"`
	SkillIDs       []int64 `json:"skillIds"`
	// CompanyID is honoured only for admins.
	CompanyID int64 `json:"companyId"`
}

type ApplyRequest struct {
	JobID    int64  `json:"jobId"`
	ResumeID *int64 `json:"resumeId"`
	Notes    string `json:"notes"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type ResumeRequest struct {
	FileName  string `json:"fileName"`
	FileURL   string `json:"fileUrl"`
	IsDefault bool   `json:"isDefault"`
}

type CountryRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type CityRequest struct {
	Name      string `json:"name"`
	CountryID int64  `json:"countryId"`
}

type NameRequest struct {
	Name string `json:"name"`
}

// Page wraps list responses that support pagination.
type Page[T any] struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Items  []T   `json:"items"`
}
