package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/garnizeh/jobboard/pkg/client"
	"github.com/garnizeh/jobboard/pkg/dto"
	"github.com/garnizeh/jobboard/pkg/expiry"
	"github.com/garnizeh/jobboard/pkg/models"
)

var errUsage = errors.New("usage")

type app struct {
	client *client.Client
	out    io.Writer
	now    func() time.Time
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.register(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		if err := a.client.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Signed out.")
		return nil
	case "whoami":
		return a.whoami()
	case "jobs":
		return a.jobs(ctx, args)
	case "job":
		return a.job(ctx, args)
	case "apply":
		return a.apply(ctx, args)
	case "applications":
		return a.applications(ctx)
	case "my-company":
		return a.myCompany(ctx)
	}
	return errUsage
}

func subcommand(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (a *app) register(ctx context.Context, args []string) error {
	var req dto.RegisterRequest
	fs := subcommand("register")
	fs.StringVar(&req.Role, "role", models.RoleCandidate, "")
	fs.StringVar(&req.Email, "email", "", "")
	fs.StringVar(&req.Password, "password", "", "")
	fs.StringVar(&req.PhoneNumber, "phone", "", "")
	fs.StringVar(&req.FirstName, "first", "", "")
	fs.StringVar(&req.LastName, "last", "", "")
	fs.StringVar(&req.CompanyName, "company", "", "")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	user, err := a.client.Register(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s.\n", displayName(user))
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := subcommand("login")
	email := fs.String("email", "", "")
	password := fs.String("password", "", "")
	if err := fs.Parse(args); err != nil || *email == "" {
		return errUsage
	}
	user, err := a.client.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s (%s).\n", displayName(user), user.Role)
	return nil
}

func (a *app) whoami() error {
	user := a.client.Session().User()
	if user == nil {
		return client.ErrNoSession
	}
	fmt.Fprintf(a.out, "%s <%s> %s\n", displayName(user), user.Email, user.Role)
	return nil
}

func displayName(u *dto.UserDto) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

func (a *app) jobs(ctx context.Context, args []string) error {
	var q client.JobQuery
	fs := subcommand("jobs")
	fs.BoolVar(&q.ActiveOnly, "active", false, "")
	fs.Int64Var(&q.CompanyID, "company", 0, "")
	fs.IntVar(&q.Limit, "limit", 0, "")
	fs.IntVar(&q.Offset, "offset", 0, "")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	page, err := a.client.ListJobs(ctx, q)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCOMPANY\tLOCATION\tEXPIRES")
	for _, j := range page.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", j.ID, j.Title, deref(j.CompanyName), location(j), a.badge(j.ExpirationDate))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d of %d jobs\n", len(page.Items), page.Total)
	return nil
}

func (a *app) job(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return errUsage
	}
	j, err := a.client.GetJob(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s\n%s\n", j.Title, strings.Repeat("=", len(j.Title)))
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(a.out, "%-10s %s\n", label+":", value)
		}
	}
	field("Company", deref(j.CompanyName))
	field("Industry", deref(j.IndustryName))
	field("Location", location(*j))
	field("Type", j.EmploymentType)
	field("Salary", j.Salary)
	field("Expires", a.badge(j.ExpirationDate))
	if len(j.Skills) > 0 {
		names := make([]string, 0, len(j.Skills))
		for _, s := range j.Skills {
			names = append(names, s.SkillName)
		}
		field("Skills", strings.Join(names, ", "))
	}
	if len(j.Applications) > 0 {
		field("Applied", strconv.Itoa(len(j.Applications)))
	}
	fmt.Fprintf(a.out, "\n%s\n", j.Description)
	return nil
}

func (a *app) apply(ctx context.Context, args []string) error {
	fs := subcommand("apply")
	resume := fs.Int64("resume", 0, "")
	notes := fs.String("notes", "", "")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return errUsage
	}
	jobID, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return errUsage
	}
	req := dto.ApplyRequest{JobID: jobID, Notes: *notes}
	if *resume > 0 {
		req.ResumeID = resume
	}
	ap, err := a.client.Apply(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Applied to %q at %s (application %d, %s).\n", ap.JobTitle, ap.CompanyName, ap.ID, ap.Status)
	return nil
}

func (a *app) applications(ctx context.Context) error {
	apps, err := a.client.MyApplications(ctx)
	if err != nil {
		return err
	}
	if len(apps) == 0 {
		fmt.Fprintln(a.out, "No applications yet.")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tJOB\tCOMPANY\tSTATUS\tAPPLIED")
	for _, ap := range apps {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", ap.ID, ap.JobTitle, ap.CompanyName, ap.Status, ap.AppliedAt.Local().Format("2006-01-02"))
	}
	return tw.Flush()
}

func (a *app) myCompany(ctx context.Context) error {
	c, err := a.client.MyCompany(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (id %d)\n", c.CompanyName, c.ID)
	if c.Website != "" {
		fmt.Fprintln(a.out, c.Website)
	}
	if c.Description != "" {
		fmt.Fprintf(a.out, "\n%s\n", c.Description)
	}
	return nil
}

func (a *app) badge(date *time.Time) string {
	b := expiry.BadgeForDate(date, a.now())
	if b == nil {
		return "-"
	}
	return b.Label
}

func location(j dto.JobDto) string {
	parts := make([]string, 0, 2)
	if s := deref(j.CityName); s != "" {
		parts = append(parts, s)
	}
	if s := deref(j.CountryName); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
