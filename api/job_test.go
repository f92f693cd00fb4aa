package api_test

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/garnizeh/jobboard/pkg/dto"
	"github.com/garnizeh/jobboard/pkg/models"
)

func TestJobCreateAndList(t *testing.T) {
	e := newEnv(t)
	owner, company := e.company(t, "hr@acme.com", "Acme")
	candUser, _ := e.candidate(t, "ada@example.com", "Ada", "Lovelace")
	go1, _ := e.store.CreateSkill(context.Background(), &models.Skill{Name: "Go"})

	body := map[string]any{
		"title":          "Backend Engineer",
		"description":    "Build APIs",
		"employmentType": "Full-time",
		"skillIds":       []int64{go1},
	}
	expectStatus(t, e.do(t, http.MethodPost, "/job", tokenFor(t, candUser), body), http.StatusForbidden)

	w := e.do(t, http.MethodPost, "/job", tokenFor(t, owner), body)
	expectStatus(t, w, http.StatusCreated)
	created := decodeBody[dto.JobDto](t, w)
	if created.CompanyID != company.ID || created.CompanyName == nil || *created.CompanyName != "Acme" {
		t.Fatalf("unexpected job %+v", created)
	}
	if len(created.Skills) != 1 || created.Skills[0].SkillName != "Go" {
		t.Fatalf("unexpected skills %+v", created.Skills)
	}

	w = e.do(t, http.MethodPost, "/job", tokenFor(t, owner), map[string]any{"title": ""})
	expectStatus(t, w, http.StatusBadRequest)
	v := decodeBody[struct {
		Title  string              `json:"title"`
		Status int                 `json:"status"`
		Errors map[string][]string `json:"errors"`
	}](t, w)
	if v.Status != 400 || len(v.Errors["title"]) == 0 || len(v.Errors["description"]) == 0 {
		t.Fatalf("unexpected validation body %+v", v)
	}

	w = e.do(t, http.MethodGet, "/job", "", nil)
	expectStatus(t, w, http.StatusOK)
	page := decodeBody[dto.Page[dto.JobDto]](t, w)
	if page.Total != 1 || len(page.Items) != 1 || page.Limit != 20 {
		t.Fatalf("unexpected page %+v", page)
	}

	expectStatus(t, e.do(t, http.MethodGet, "/job?limit=0", "", nil), http.StatusBadRequest)
	expectStatus(t, e.do(t, http.MethodGet, "/job?companyId=abc", "", nil), http.StatusBadRequest)

	w = e.do(t, http.MethodGet, "/job/my-jobs", tokenFor(t, owner), nil)
	expectStatus(t, w, http.StatusOK)
	if mine := decodeBody[dto.Page[dto.JobDto]](t, w); mine.Total != 1 {
		t.Fatalf("unexpected my-jobs %+v", mine)
	}
}

func TestJobList_ActiveFilter(t *testing.T) {
	e := newEnv(t)
	_, company := e.company(t, "hr@acme.com", "Acme")
	past := time.Now().AddDate(0, 0, -2)
	future := time.Now().AddDate(0, 0, 5)
	today := time.Now()
	e.job(t, company.ID, "old", &past)
	e.job(t, company.ID, "open", &future)
	e.job(t, company.ID, "last day", &today)
	e.job(t, company.ID, "forever", nil)

	w := e.do(t, http.MethodGet, "/job?active=true", "", nil)
	expectStatus(t, w, http.StatusOK)
	page := decodeBody[dto.Page[dto.JobDto]](t, w)
	if page.Total != 3 {
		t.Fatalf("expected 3 active jobs, got %d", page.Total)
	}
	for _, j := range page.Items {
		if j.Title == "old" {
			t.Fatalf("expired job listed")
		}
	}

	w = e.do(t, http.MethodGet, "/job?limit=2&offset=2", "", nil)
	page = decodeBody[dto.Page[dto.JobDto]](t, w)
	if page.Total != 4 || len(page.Items) != 2 || page.Offset != 2 {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestJobApplicationsVisibility(t *testing.T) {
	e := newEnv(t)
	owner, company := e.company(t, "hr@acme.com", "Acme")
	other, _ := e.company(t, "hr@globex.com", "Globex")
	candUser, cand := e.candidate(t, "ada@example.com", "Ada", "Lovelace")
	admin := e.admin(t)
	job := e.job(t, company.ID, "Backend", nil)
	if _, err := e.store.CreateApplication(context.Background(), &models.JobApplication{JobID: job.ID, CandidateID: cand.ID, AppliedAt: time.Now()}); err != nil {
		t.Fatalf("seed application: %v", err)
	}
	path := "/job/" + strconv.FormatInt(job.ID, 10)

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"Anonymous", "", 0},
		{"Candidate", tokenFor(t, candUser), 0},
		{"OtherCompany", tokenFor(t, other), 0},
		{"Owner", tokenFor(t, owner), 1},
		{"Admin", tokenFor(t, admin), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.do(t, http.MethodGet, path, tt.token, nil)
			expectStatus(t, w, http.StatusOK)
			got := decodeBody[dto.JobDto](t, w)
			if got.Applications == nil {
				t.Fatalf("applications must serialize as a list")
			}
			if len(got.Applications) != tt.want {
				t.Fatalf("want %d applications got %d", tt.want, len(got.Applications))
			}
			if tt.want == 1 && got.Applications[0].CandidateFullName != "Ada Lovelace" {
				t.Fatalf("unexpected application %+v", got.Applications[0])
			}
		})
	}
}

func TestJobUpdateAndDelete(t *testing.T) {
	e := newEnv(t)
	owner, company := e.company(t, "hr@acme.com", "Acme")
	other, _ := e.company(t, "hr@globex.com", "Globex")
	job := e.job(t, company.ID, "Backend", nil)
	path := "/job/" + strconv.FormatInt(job.ID, 10)
	body := map[string]any{"title": "Senior Backend", "description": "More APIs"}

	expectStatus(t, e.do(t, http.MethodPut, path, tokenFor(t, other), body), http.StatusForbidden)
	w := e.do(t, http.MethodPut, path, tokenFor(t, owner), body)
	expectStatus(t, w, http.StatusOK)
	if got := decodeBody[dto.JobDto](t, w); got.Title != "Senior Backend" {
		t.Fatalf("unexpected update %+v", got)
	}

	sk, _ := e.store.CreateSkill(context.Background(), &models.Skill{Name: "SQL"})
	w = e.do(t, http.MethodPut, path+"/skills", tokenFor(t, owner), map[string]any{"skillIds": []int64{sk}})
	expectStatus(t, w, http.StatusOK)
	if got := decodeBody[dto.JobDto](t, w); len(got.Skills) != 1 || got.Skills[0].SkillName != "SQL" {
		t.Fatalf("unexpected skills %+v", got.Skills)
	}

	expectStatus(t, e.do(t, http.MethodDelete, path, tokenFor(t, other), nil), http.StatusForbidden)
	expectStatus(t, e.do(t, http.MethodDelete, path, tokenFor(t, owner), nil), http.StatusNoContent)
	expectStatus(t, e.do(t, http.MethodGet, path, "", nil), http.StatusNotFound)
}

func TestJobWriteRejectsUnknownReferences(t *testing.T) {
	e := newEnv(t)
	owner, company := e.company(t, "hr@acme.com", "Acme")
	admin := e.admin(t)
	sk, _ := e.store.CreateSkill(context.Background(), &models.Skill{Name: "Go"})

	body := map[string]any{"title": "Backend", "description": "APIs", "skillIds": []int64{sk, 9999}}
	w := e.do(t, http.MethodPost, "/job", tokenFor(t, owner), body)
	expectStatus(t, w, http.StatusBadRequest)
	if got := decodeBody[map[string]string](t, w); got["message"] != "A referenced record does not exist." {
		t.Fatalf("unexpected error %v", got)
	}
	if len(e.store.Jobs) != 0 || len(e.store.JobSkills) != 0 {
		t.Fatalf("rejected job was stored: %d jobs, %d skill sets", len(e.store.Jobs), len(e.store.JobSkills))
	}

	body = map[string]any{"title": "Backend", "description": "APIs", "companyId": 9999}
	expectStatus(t, e.do(t, http.MethodPost, "/job", tokenFor(t, admin), body), http.StatusBadRequest)
	if len(e.store.Jobs) != 0 {
		t.Fatalf("job stored for an unknown company")
	}

	job := e.job(t, company.ID, "Backend", nil)
	if err := e.store.SetJobSkills(context.Background(), job.ID, []int64{sk}); err != nil {
		t.Fatalf("seed skills: %v", err)
	}
	path := "/job/" + strconv.FormatInt(job.ID, 10)
	body = map[string]any{"title": "Renamed", "description": "APIs", "skillIds": []int64{9999}}
	expectStatus(t, e.do(t, http.MethodPut, path, tokenFor(t, owner), body), http.StatusBadRequest)
	if got := e.store.Jobs[job.ID]; got.Title != "Backend" {
		t.Fatalf("failed update changed the job: %q", got.Title)
	}
	if got := e.store.JobSkills[job.ID]; len(got) != 1 || got[0] != sk {
		t.Fatalf("failed update changed the skills: %v", got)
	}
	expectStatus(t, e.do(t, http.MethodPut, path+"/skills", tokenFor(t, owner), map[string]any{"skillIds": []int64{9999}}), http.StatusBadRequest)
}

func TestJobCreate_ExpirationDateFormats(t *testing.T) {
	e := newEnv(t)
	owner, _ := e.company(t, "hr@acme.com", "Acme")
	tok := tokenFor(t, owner)

	w := e.do(t, http.MethodPost, "/job", tok, map[string]any{"title": "Backend", "description": "APIs", "expirationDate": "2026-12-31"})
	expectStatus(t, w, http.StatusCreated)
	created := decodeBody[dto.JobDto](t, w)
	want := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	if created.ExpirationDate == nil || !created.ExpirationDate.Equal(want) {
		t.Fatalf("unexpected expiration date %v", created.ExpirationDate)
	}
	if got := e.store.Jobs[created.ID].ExpirationDate; got == nil || !got.Equal(want) {
		t.Fatalf("stored expiration date %v", got)
	}

	w = e.do(t, http.MethodPost, "/job", tok, map[string]any{"title": "Backend", "description": "APIs", "expirationDate": "2026-12-31T18:00:00Z"})
	expectStatus(t, w, http.StatusCreated)

	for _, bad := range []string{"31/12/2026", "2026-02-30"} {
		w = e.do(t, http.MethodPost, "/job", tok, map[string]any{"title": "Backend", "description": "APIs", "expirationDate": bad})
		expectStatus(t, w, http.StatusBadRequest)
		v := decodeBody[struct {
			Errors map[string][]string `json:"errors"`
		}](t, w)
		if len(v.Errors["expirationDate"]) == 0 {
			t.Fatalf("%q: expected an expirationDate error, got %s", bad, w.Body.String())
		}
	}
}
