package mapper_test

import (
	"testing"
	"time"

	"github.com/garnizeh/jobboard/internal/mapper"
	"github.com/garnizeh/jobboard/pkg/models"
)

func i64(v int64) *int64 { return &v }

func TestCompany_OptionalReferences(t *testing.T) {
	c := &models.Company{ID: 1, CompanyName: "Acme", CountryID: i64(3), CityID: i64(9)}

	got := mapper.Company(c)
	if got.CountryName != nil || got.CityName != nil {
		t.Fatalf("expected nil names without loaded relations, got %v %v", got.CountryName, got.CityName)
	}
	if got.CountryID == nil || *got.CountryID != 3 {
		t.Fatalf("countryId not copied: %v", got.CountryID)
	}

	c.Country = &models.Country{ID: 3, Name: "Portugal", Code: "PT"}
	c.City = &models.City{ID: 9, Name: "Lisbon", CountryID: 3}
	got = mapper.Company(c)
	if got.CountryName == nil || *got.CountryName != "Portugal" {
		t.Fatalf("countryName: got %v", got.CountryName)
	}
	if got.CityName == nil || *got.CityName != "Lisbon" {
		t.Fatalf("cityName: got %v", got.CityName)
	}
}

func TestCandidate_AccountAndSkills(t *testing.T) {
	c := &models.Candidate{
		ID: 4, UserID: 10, FirstName: "Ada", LastName: "Lovelace",
		Skills: []models.CandidateSkill{
			{CandidateID: 4, SkillID: 1, Skill: &models.Skill{ID: 1, Name: "Go"}},
			{CandidateID: 4, SkillID: 2},
			{CandidateID: 4, SkillID: 3, Skill: &models.Skill{ID: 3, Name: "SQL"}},
		},
	}

	got := mapper.Candidate(c)
	if got.Email != nil || got.PhoneNumber != nil {
		t.Fatalf("expected nil contact fields without account, got %v %v", got.Email, got.PhoneNumber)
	}
	if len(got.Skills) != 3 {
		t.Fatalf("expected 3 skills, got %d", len(got.Skills))
	}
	if got.Skills[0].Name != "Go" || got.Skills[2].Name != "SQL" {
		t.Fatalf("skill order not preserved: %#v", got.Skills)
	}
	if got.Skills[1].ID != 0 || got.Skills[1].Name != "" {
		t.Fatalf("dangling skill should map to {0, \"\"}, got %#v", got.Skills[1])
	}

	c.User = &models.User{ID: 10, Email: "ada@example.com", PhoneNumber: "555"}
	got = mapper.Candidate(c)
	if got.Email == nil || *got.Email != "ada@example.com" {
		t.Fatalf("email: got %v", got.Email)
	}
	if got.PhoneNumber == nil || *got.PhoneNumber != "555" {
		t.Fatalf("phone: got %v", got.PhoneNumber)
	}
}

func TestJob_NilCompany(t *testing.T) {
	j := &models.Job{ID: 7, Title: "Backend Engineer", CompanyID: 99}

	got := mapper.Job(j)
	if got.CompanyName != nil {
		t.Fatalf("expected nil companyName, got %q", *got.CompanyName)
	}
	if got.CompanyLogoURL != nil {
		t.Fatalf("expected nil companyLogoUrl, got %q", *got.CompanyLogoURL)
	}
	if got.IndustryName != nil || got.CountryName != nil || got.CityName != nil {
		t.Fatalf("expected nil lookup names")
	}
	if got.Skills == nil || got.Applications == nil {
		t.Fatalf("expected empty, non-nil slices")
	}
}

func TestJob_FullGraph(t *testing.T) {
	applied := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	j := &models.Job{
		ID: 7, Title: "Backend Engineer", CompanyID: 1,
		Company:  &models.Company{ID: 1, CompanyName: "Acme", LogoURL: "/files/logos/a.png"},
		Industry: &models.Industry{ID: 2, Name: "Software"},
		Country:  &models.Country{ID: 3, Name: "Portugal"},
		City:     &models.City{ID: 4, Name: "Porto"},
		Skills: []models.JobSkill{
			{JobID: 7, SkillID: 1, Skill: &models.Skill{ID: 1, Name: "Go"}},
			{JobID: 7, SkillID: 5},
		},
		Applications: []models.JobApplication{
			{ID: 1, CandidateID: 4, Status: models.ApplicationStatusPending, AppliedAt: applied, Candidate: &models.Candidate{
				FirstName: "Ada", LastName: "Lovelace", User: &models.User{Email: "ada@example.com"},
			}},
			{ID: 2, CandidateID: 5, Status: models.ApplicationStatusPending, Candidate: &models.Candidate{FirstName: "Solo"}},
			{ID: 3, CandidateID: 6, Status: models.ApplicationStatusRejected},
		},
	}

	got := mapper.Job(j)
	if *got.CompanyName != "Acme" || *got.CompanyLogoURL != "/files/logos/a.png" {
		t.Fatalf("company fields: %v %v", *got.CompanyName, *got.CompanyLogoURL)
	}
	if *got.IndustryName != "Software" || *got.CountryName != "Portugal" || *got.CityName != "Porto" {
		t.Fatalf("lookup names wrong: %#v", got)
	}
	if got.Skills[0].SkillName != "Go" || got.Skills[1].SkillName != "" || got.Skills[1].SkillID != 5 {
		t.Fatalf("skills: %#v", got.Skills)
	}

	cases := []struct {
		idx                    int
		first, last, full, mail string
	}{
		{0, "Ada", "Lovelace", "Ada Lovelace", "ada@example.com"},
		{1, "Solo", "", "Solo", ""},
		{2, "", "", "", ""},
	}
	for _, c := range cases {
		a := got.Applications[c.idx]
		if a.CandidateFirstName != c.first || a.CandidateLastName != c.last || a.CandidateFullName != c.full || a.CandidateEmail != c.mail {
			t.Fatalf("application %d: got %#v", c.idx, a)
		}
	}
	if !got.Applications[0].AppliedAt.Equal(applied) {
		t.Fatalf("appliedAt not copied")
	}
}

func TestJobSkill_NilSkill(t *testing.T) {
	got := mapper.JobSkill(&models.JobSkill{JobID: 1, SkillID: 12})
	if got.SkillName != "" {
		t.Fatalf("expected empty skillName, got %q", got.SkillName)
	}
	if got.SkillID != 12 {
		t.Fatalf("expected skillId 12, got %d", got.SkillID)
	}
}

func TestJobApplication_DefaultsWhenJobMissing(t *testing.T) {
	got := mapper.JobApplication(&models.JobApplication{ID: 1, JobID: 3, Status: "Pending"})
	if got.JobTitle != "" || got.CompanyName != "" || got.CandidateName != "" {
		t.Fatalf("expected empty defaults, got %#v", got)
	}

	got = mapper.JobApplication(&models.JobApplication{
		ID: 1, JobID: 3,
		Job:       &models.Job{Title: "SRE", Company: &models.Company{CompanyName: "Acme"}},
		Candidate: &models.Candidate{FirstName: " Ada", LastName: ""},
	})
	if got.JobTitle != "SRE" || got.CompanyName != "Acme" || got.CandidateName != "Ada" {
		t.Fatalf("unexpected mapping: %#v", got)
	}
}

func TestResume_ScalarCopy(t *testing.T) {
	at := time.Now().UTC()
	r := &models.Resume{ID: 1, CandidateID: 2, FileName: "cv.pdf", FileURL: "https://cdn/cv.pdf", IsDefault: true, UploadedAt: at}
	got := mapper.Resume(r)
	if got.ID != 1 || got.CandidateID != 2 || got.FileURL != r.FileURL || !got.IsDefault || got.FileName != "cv.pdf" || !got.UploadedAt.Equal(at) {
		t.Fatalf("unexpected resume dto: %#v", got)
	}
}

func TestSlice_EmptyIsNonNil(t *testing.T) {
	out := mapper.Slice([]models.Skill(nil), mapper.Skill)
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", out)
	}
}
