// Package loader fills the relation fields of domain models from the
// repositories. Missing related rows leave the relation nil; only repository
// errors are returned.
package loader

import (
	"context"
	"fmt"

	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
)

type Loader struct {
	repo repository.Store
}

func New(repo repository.Store) *Loader {
	return &Loader{repo: repo}
}

// JobOptions selects the optional parts of a job graph.
type JobOptions struct {
	Applications bool
}

func (l *Loader) place(ctx context.Context, countryID, cityID *int64) (*models.Country, *models.City, error) {
	var country *models.Country
	var city *models.City
	var err error
	if countryID != nil {
		if country, err = l.repo.GetCountryByID(ctx, *countryID); err != nil {
			return nil, nil, fmt.Errorf("load country: %w", err)
		}
	}
	if cityID != nil {
		if city, err = l.repo.GetCityByID(ctx, *cityID); err != nil {
			return nil, nil, fmt.Errorf("load city: %w", err)
		}
	}
	return country, city, nil
}

func (l *Loader) Company(ctx context.Context, c *models.Company) error {
	if c == nil {
		return nil
	}
	user, err := l.repo.GetUserByID(ctx, c.UserID)
	if err != nil {
		return fmt.Errorf("load company user: %w", err)
	}
	c.User = user
	c.Country, c.City, err = l.place(ctx, c.CountryID, c.CityID)
	return err
}

func (l *Loader) Candidate(ctx context.Context, c *models.Candidate) error {
	if c == nil {
		return nil
	}
	user, err := l.repo.GetUserByID(ctx, c.UserID)
	if err != nil {
		return fmt.Errorf("load candidate user: %w", err)
	}
	c.User = user

	links, err := l.repo.ListCandidateSkills(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("load candidate skills: %w", err)
	}
	for i := range links {
		if links[i].Skill, err = l.repo.GetSkillByID(ctx, links[i].SkillID); err != nil {
			return fmt.Errorf("load skill %d: %w", links[i].SkillID, err)
		}
	}
	c.Skills = links
	return nil
}

func (l *Loader) City(ctx context.Context, c *models.City) error {
	if c == nil {
		return nil
	}
	country, err := l.repo.GetCountryByID(ctx, c.CountryID)
	if err != nil {
		return fmt.Errorf("load city country: %w", err)
	}
	c.Country = country
	return nil
}

// Job loads company, industry, location and skills, plus applications with
// their candidates when opts.Applications is set.
func (l *Loader) Job(ctx context.Context, j *models.Job, opts JobOptions) error {
	if j == nil {
		return nil
	}
	company, err := l.repo.GetCompanyByID(ctx, j.CompanyID)
	if err != nil {
		return fmt.Errorf("load job company: %w", err)
	}
	j.Company = company

	if j.IndustryID != nil {
		if j.Industry, err = l.repo.GetIndustryByID(ctx, *j.IndustryID); err != nil {
			return fmt.Errorf("load industry: %w", err)
		}
	}
	if j.Country, j.City, err = l.place(ctx, j.CountryID, j.CityID); err != nil {
		return err
	}

	skills, err := l.repo.ListJobSkills(ctx, j.ID)
	if err != nil {
		return fmt.Errorf("load job skills: %w", err)
	}
	for i := range skills {
		if skills[i].Skill, err = l.repo.GetSkillByID(ctx, skills[i].SkillID); err != nil {
			return fmt.Errorf("load skill %d: %w", skills[i].SkillID, err)
		}
	}
	j.Skills = skills

	j.Applications = nil
	if !opts.Applications {
		return nil
	}
	apps, err := l.repo.ListApplicationsByJob(ctx, j.ID)
	if err != nil {
		return fmt.Errorf("load job applications: %w", err)
	}
	for i := range apps {
		if err := l.applicant(ctx, &apps[i]); err != nil {
			return err
		}
	}
	j.Applications = apps
	return nil
}

func (l *Loader) applicant(ctx context.Context, a *models.JobApplication) error {
	cand, err := l.repo.GetCandidateByID(ctx, a.CandidateID)
	if err != nil {
		return fmt.Errorf("load applicant: %w", err)
	}
	if cand != nil {
		if cand.User, err = l.repo.GetUserByID(ctx, cand.UserID); err != nil {
			return fmt.Errorf("load applicant user: %w", err)
		}
	}
	a.Candidate = cand
	return nil
}

// Application loads the job with its company and the candidate with its account.
func (l *Loader) Application(ctx context.Context, a *models.JobApplication) error {
	if a == nil {
		return nil
	}
	job, err := l.repo.GetJobByID(ctx, a.JobID)
	if err != nil {
		return fmt.Errorf("load application job: %w", err)
	}
	if job != nil {
		if job.Company, err = l.repo.GetCompanyByID(ctx, job.CompanyID); err != nil {
			return fmt.Errorf("load application company: %w", err)
		}
	}
	a.Job = job
	return l.applicant(ctx, a)
}
