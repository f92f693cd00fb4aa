package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/garnizeh/jobboard/pkg/dto"
	"github.com/garnizeh/jobboard/pkg/models"
)

func call[T any](ctx context.Context, c *Client, req Request) (*T, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	var out T
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", req.Method, req.Path, err)
	}
	return &out, nil
}

// Login authenticates, stores token and user in the session and enriches the
// cached user with a display name.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.UserDto, error) {
	auth, err := call[dto.AuthResponse](ctx, c, Request{
		Method: http.MethodPost,
		Path:   "/account/login",
		Body:   dto.LoginRequest{Email: email, Password: password},
	})
	if err != nil {
		return nil, err
	}
	return c.startSession(ctx, auth)
}

// Register creates an account and logs it in.
func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserDto, error) {
	auth, err := call[dto.AuthResponse](ctx, c, Request{Method: http.MethodPost, Path: "/account/register", Body: req})
	if err != nil {
		return nil, err
	}
	return c.startSession(ctx, auth)
}

func (c *Client) startSession(ctx context.Context, auth *dto.AuthResponse) (*dto.UserDto, error) {
	user := auth.User
	if err := c.session.Save(auth.Token, &user); err != nil {
		return nil, err
	}
	return c.EnrichUser(ctx)
}

// Logout tells the server, then clears the session and returns to the login view.
func (c *Client) Logout(ctx context.Context) error {
	if c.session.Token() != "" {
		if _, err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/account/logout"}); err != nil {
			logger.Warn("client: server logout failed", "err", err)
		}
	}
	if err := c.session.Clear(); err != nil {
		return err
	}
	if c.nav.Location() != c.cfg.LoginPath {
		c.nav.Redirect(c.cfg.LoginPath)
	}
	return nil
}

// EnrichUser resolves the display name of the cached user: the company name
// for company accounts, first and last name for candidates. Lookup failures
// leave the cached user as it was.
func (c *Client) EnrichUser(ctx context.Context) (*dto.UserDto, error) {
	user := c.session.User()
	if user == nil {
		return nil, ErrNoSession
	}

	switch user.Role {
	case models.RoleCompany:
		company, err := c.MyCompany(ctx)
		if err != nil {
			logger.Debug("client: company enrichment skipped", "err", err)
			return user, nil
		}
		user.Name = company.CompanyName
	case models.RoleCandidate:
		candidates, err := c.ListCandidates(ctx)
		if err != nil {
			logger.Debug("client: candidate enrichment skipped", "err", err)
			return user, nil
		}
		for _, cand := range candidates {
			if cand.UserID == user.ID {
				user.Name = dto.FullName(cand.FirstName, cand.LastName)
				break
			}
		}
	default:
		return user, nil
	}

	if err := c.session.SetUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (c *Client) Me(ctx context.Context) (*dto.UserDto, error) {
	return call[dto.UserDto](ctx, c, Request{Path: "/account/me"})
}

func (c *Client) MyCompany(ctx context.Context) (*dto.CompanyDto, error) {
	return call[dto.CompanyDto](ctx, c, Request{Path: myCompanyEndpoint})
}

func (c *Client) ListCandidates(ctx context.Context) ([]dto.CandidateDto, error) {
	out, err := call[[]dto.CandidateDto](ctx, c, Request{Path: "/candidate/all"})
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// JobQuery filters ListJobs. Zero values are omitted.
type JobQuery struct {
	CompanyID  int64
	IndustryID int64
	CountryID  int64
	CityID     int64
	ActiveOnly bool
	Limit      int
	Offset     int
}

func (q JobQuery) values() url.Values {
	v := url.Values{}
	set := func(k string, n int64) {
		if n > 0 {
			v.Set(k, strconv.FormatInt(n, 10))
		}
	}
	set("companyId", q.CompanyID)
	set("industryId", q.IndustryID)
	set("countryId", q.CountryID)
	set("cityId", q.CityID)
	set("limit", int64(q.Limit))
	set("offset", int64(q.Offset))
	if q.ActiveOnly {
		v.Set("active", "true")
	}
	return v
}

func (c *Client) ListJobs(ctx context.Context, q JobQuery) (*dto.Page[dto.JobDto], error) {
	return call[dto.Page[dto.JobDto]](ctx, c, Request{Path: "/job", Query: q.values()})
}

func (c *Client) GetJob(ctx context.Context, id int64) (*dto.JobDto, error) {
	return call[dto.JobDto](ctx, c, Request{Path: "/job/" + strconv.FormatInt(id, 10)})
}

func (c *Client) CreateJob(ctx context.Context, req dto.JobRequest) (*dto.JobDto, error) {
	return call[dto.JobDto](ctx, c, Request{Method: http.MethodPost, Path: "/job", Body: req})
}

func (c *Client) Apply(ctx context.Context, req dto.ApplyRequest) (*dto.JobApplicationDto, error) {
	return call[dto.JobApplicationDto](ctx, c, Request{Method: http.MethodPost, Path: "/application", Body: req})
}

func (c *Client) MyApplications(ctx context.Context) ([]dto.JobApplicationDto, error) {
	out, err := call[[]dto.JobApplicationDto](ctx, c, Request{Path: "/application/my"})
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func (c *Client) MyResumes(ctx context.Context) ([]dto.ResumeDto, error) {
	out, err := call[[]dto.ResumeDto](ctx, c, Request{Path: "/resume/my"})
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func (c *Client) ListCountries(ctx context.Context) ([]dto.CountryDto, error) {
	out, err := call[[]dto.CountryDto](ctx, c, Request{Path: "/country"})
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func (c *Client) ListSkills(ctx context.Context) ([]dto.SkillDto, error) {
	out, err := call[[]dto.SkillDto](ctx, c, Request{Path: "/skill"})
	if err != nil {
		return nil, err
	}
	return *out, nil
}
