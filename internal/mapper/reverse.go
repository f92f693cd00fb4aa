package mapper

import (
	"strings"

	"github.com/garnizeh/jobboard/pkg/dto"
	"github.com/garnizeh/jobboard/pkg/models"
)

// Reverse mappings copy scalar fields only. Ownership and relation linkage
// (user, company) are set by the handler after its own lookups.

func CompanyFromRequest(req *dto.CompanyRequest, into *models.Company) {
	into.CompanyName = strings.TrimSpace(req.CompanyName)
	into.Description = req.Description
	into.Website = strings.TrimSpace(req.Website)
	into.CountryID = req.CountryID
	into.CityID = req.CityID
	if req.LogoURL != "" {
		into.LogoURL = req.LogoURL
	}
}

func CandidateFromRequest(req *dto.CandidateRequest, into *models.Candidate) {
	into.FirstName = strings.TrimSpace(req.FirstName)
	into.LastName = strings.TrimSpace(req.LastName)
}

func JobFromRequest(req *dto.JobRequest, into *models.Job) {
	into.Title = strings.TrimSpace(req.Title)
	into.Description = req.Description
	into.Salary = req.Salary
	into.EmploymentType = req.EmploymentType
	into.ExpirationDate = req.ExpirationDate.TimePtr()
	into.IndustryID = req.IndustryID
	into.CountryID = req.CountryID
	into.CityID = req.CityID
}

func ResumeFromRequest(req *dto.ResumeRequest, into *models.Resume) {
	into.FileName = req.FileName
	into.FileURL = req.FileURL
	into.IsDefault = req.IsDefault
}
