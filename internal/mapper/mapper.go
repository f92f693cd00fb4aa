// Package mapper projects hydrated domain graphs from pkg/models into the flat
// transport objects of pkg/dto.
//
// Projection is best-effort: a missing parent reference becomes nil and a
// missing nested leaf becomes its zero value. No function here returns an error.
package mapper

import (
	"github.com/garnizeh/jobboard/pkg/dto"
	"github.com/garnizeh/jobboard/pkg/models"
)

// Optional-reference resolvers. Each takes the related entity as loaded (nil when
// the row is absent) and returns a default-safe scalar.

func countryName(c *models.Country) *string {
	if c == nil {
		return nil
	}
	return ptr(c.Name)
}

func cityName(c *models.City) *string {
	if c == nil {
		return nil
	}
	return ptr(c.Name)
}

func industryName(i *models.Industry) *string {
	if i == nil {
		return nil
	}
	return ptr(i.Name)
}

func companyName(c *models.Company) *string {
	if c == nil {
		return nil
	}
	return ptr(c.CompanyName)
}

func companyLogoURL(c *models.Company) *string {
	if c == nil {
		return nil
	}
	return ptr(c.LogoURL)
}

func userEmail(u *models.User) *string {
	if u == nil {
		return nil
	}
	return ptr(u.Email)
}

func userPhone(u *models.User) *string {
	if u == nil {
		return nil
	}
	return ptr(u.PhoneNumber)
}

func skillName(s *models.Skill) string {
	if s == nil {
		return ""
	}
	return s.Name
}

func candidateFirstName(c *models.Candidate) string {
	if c == nil {
		return ""
	}
	return c.FirstName
}

func candidateLastName(c *models.Candidate) string {
	if c == nil {
		return ""
	}
	return c.LastName
}

func candidateEmail(c *models.Candidate) string {
	if c == nil || c.User == nil {
		return ""
	}
	return c.User.Email
}

func ptr[T any](v T) *T { return &v }

// Company converts a company with its optional country and city.
func Company(c *models.Company) dto.CompanyDto {
	return dto.CompanyDto{
		ID:          c.ID,
		UserID:      c.UserID,
		CompanyName: c.CompanyName,
		Description: c.Description,
		Website:     c.Website,
		CountryID:   c.CountryID,
		CountryName: countryName(c.Country),
		CityID:      c.CityID,
		CityName:    cityName(c.City),
		LogoURL:     c.LogoURL,
	}
}

// Candidate converts a candidate; email and phone come from the linked account.
func Candidate(c *models.Candidate) dto.CandidateDto {
	skills := make([]dto.SkillDto, 0, len(c.Skills))
	for _, cs := range c.Skills {
		if cs.Skill == nil {
			skills = append(skills, dto.SkillDto{ID: 0, Name: ""})
			continue
		}
		skills = append(skills, dto.SkillDto{ID: cs.Skill.ID, Name: cs.Skill.Name})
	}

	return dto.CandidateDto{
		ID:          c.ID,
		UserID:      c.UserID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       userEmail(c.User),
		PhoneNumber: userPhone(c.User),
		Skills:      skills,
	}
}

// JobSkill converts a single job/skill link.
func JobSkill(js *models.JobSkill) dto.JobSkillDto {
	return dto.JobSkillDto{
		SkillID:   js.SkillID,
		SkillName: skillName(js.Skill),
	}
}

// ApplicationSummary converts an application for embedding in a JobDto.
func ApplicationSummary(a *models.JobApplication) dto.ApplicationSummaryDto {
	first := candidateFirstName(a.Candidate)
	last := candidateLastName(a.Candidate)
	return dto.ApplicationSummaryDto{
		ID:                 a.ID,
		CandidateID:        a.CandidateID,
		CandidateFirstName: first,
		CandidateLastName:  last,
		CandidateFullName:  dto.FullName(first, last),
		CandidateEmail:     candidateEmail(a.Candidate),
		ResumeID:           a.ResumeID,
		Status:             a.Status,
		AppliedAt:          a.AppliedAt,
		Notes:              a.Notes,
	}
}

// Job converts a job with its company, lookups, skills and applications.
func Job(j *models.Job) dto.JobDto {
	skills := make([]dto.JobSkillDto, 0, len(j.Skills))
	for i := range j.Skills {
		skills = append(skills, JobSkill(&j.Skills[i]))
	}
	apps := make([]dto.ApplicationSummaryDto, 0, len(j.Applications))
	for i := range j.Applications {
		apps = append(apps, ApplicationSummary(&j.Applications[i]))
	}

	return dto.JobDto{
		ID:             j.ID,
		Title:          j.Title,
		Description:    j.Description,
		Salary:         j.Salary,
		EmploymentType: j.EmploymentType,
		ExpirationDate: j.ExpirationDate,
		CreatedAt:      j.Created,
		CompanyID:      j.CompanyID,
		CompanyName:    companyName(j.Company),
		CompanyLogoURL: companyLogoURL(j.Company),
		IndustryID:     j.IndustryID,
		IndustryName:   industryName(j.Industry),
		CountryID:      j.CountryID,
		CountryName:    countryName(j.Country),
		CityID:         j.CityID,
		CityName:       cityName(j.City),
		Skills:         skills,
		Applications:   apps,
	}
}

// JobApplication converts an application for the candidate/company listings.
func JobApplication(a *models.JobApplication) dto.JobApplicationDto {
	out := dto.JobApplicationDto{
		ID:            a.ID,
		JobID:         a.JobID,
		CandidateID:   a.CandidateID,
		CandidateName: dto.FullName(candidateFirstName(a.Candidate), candidateLastName(a.Candidate)),
		ResumeID:      a.ResumeID,
		Status:        a.Status,
		AppliedAt:     a.AppliedAt,
		Notes:         a.Notes,
	}
	if a.Job != nil {
		out.JobTitle = a.Job.Title
		if a.Job.Company != nil {
			out.CompanyName = a.Job.Company.CompanyName
		}
	}
	return out
}

func Resume(r *models.Resume) dto.ResumeDto {
	return dto.ResumeDto{
		ID:          r.ID,
		CandidateID: r.CandidateID,
		FileName:    r.FileName,
		FileURL:     r.FileURL,
		IsDefault:   r.IsDefault,
		UploadedAt:  r.UploadedAt,
	}
}

func Country(c *models.Country) dto.CountryDto {
	return dto.CountryDto{ID: c.ID, Name: c.Name, Code: c.Code}
}

func City(c *models.City) dto.CityDto {
	return dto.CityDto{ID: c.ID, Name: c.Name, CountryID: c.CountryID, CountryName: countryName(c.Country)}
}

func Industry(i *models.Industry) dto.IndustryDto {
	return dto.IndustryDto{ID: i.ID, Name: i.Name}
}

func Skill(s *models.Skill) dto.SkillDto {
	return dto.SkillDto{ID: s.ID, Name: s.Name}
}

// User converts an account. name is the display name resolved by the caller
// (company name or candidate full name) and may be empty.
func User(u *models.User, name string) dto.UserDto {
	return dto.UserDto{ID: u.ID, Email: u.Email, PhoneNumber: u.PhoneNumber, Role: u.Role, Name: name}
}

// Slice converts every element of in with fn, always returning a non-nil slice
// so empty lists serialize as [].
func Slice[M any, D any](in []M, fn func(*M) D) []D {
	out := make([]D, 0, len(in))
	for i := range in {
		out = append(out, fn(&in[i]))
	}
	return out
}
