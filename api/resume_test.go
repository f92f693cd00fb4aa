package api_test

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/garnizeh/jobboard/pkg/dto"
)

func TestResumeEndpoints(t *testing.T) {
	e := newEnv(t)
	candUser, _ := e.candidate(t, "ada@example.com", "Ada", "Lovelace")
	otherUser, _ := e.candidate(t, "bob@example.com", "Bob", "Builder")
	companyUser, _ := e.company(t, "hr@acme.com", "Acme")
	tok := tokenFor(t, candUser)

	expectStatus(t, e.do(t, http.MethodGet, "/resume/my", tokenFor(t, companyUser), nil), http.StatusForbidden)

	w := e.do(t, http.MethodPost, "/resume", tok, map[string]any{"fileName": "cv.pdf", "fileUrl": "https://cdn.example.com/cv.pdf", "isDefault": true})
	expectStatus(t, w, http.StatusCreated)
	first := decodeBody[dto.ResumeDto](t, w)
	if !first.IsDefault || first.FileName != "cv.pdf" {
		t.Fatalf("unexpected resume %+v", first)
	}
	expectStatus(t, e.do(t, http.MethodPost, "/resume", tok, map[string]any{"fileName": "cv.pdf"}), http.StatusBadRequest)

	w = e.upload(t, "/resume/upload", tok, "cv.txt", "plain", nil)
	expectStatus(t, w, http.StatusBadRequest)

	w = e.upload(t, "/resume/upload", tok, "Ada CV.docx", "docx-bytes", map[string]string{"isDefault": "true"})
	expectStatus(t, w, http.StatusCreated)
	second := decodeBody[dto.ResumeDto](t, w)
	if !second.IsDefault || second.FileName != "Ada CV.docx" || !strings.HasPrefix(second.FileURL, "/files/resumes/") {
		t.Fatalf("unexpected upload %+v", second)
	}

	w = e.do(t, http.MethodGet, "/resume/my", tok, nil)
	expectStatus(t, w, http.StatusOK)
	list := decodeBody[[]dto.ResumeDto](t, w)
	if len(list) != 2 {
		t.Fatalf("expected 2 resumes, got %d", len(list))
	}
	defaults := 0
	for _, r := range list {
		if r.IsDefault {
			defaults++
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly one default, got %d", defaults)
	}

	firstPath := "/resume/" + strconv.FormatInt(first.ID, 10)
	expectStatus(t, e.do(t, http.MethodPut, firstPath+"/default", tokenFor(t, otherUser), nil), http.StatusForbidden)
	w = e.do(t, http.MethodPut, firstPath+"/default", tok, nil)
	expectStatus(t, w, http.StatusOK)
	if got := decodeBody[dto.ResumeDto](t, w); !got.IsDefault {
		t.Fatalf("expected default resume")
	}

	secondPath := "/resume/" + strconv.FormatInt(second.ID, 10)
	stored := filepath.Join(e.files.Dir(), filepath.FromSlash(strings.TrimPrefix(second.FileURL, "/files/")))
	if _, err := os.Stat(stored); err != nil {
		t.Fatalf("upload not on disk: %v", err)
	}
	expectStatus(t, e.do(t, http.MethodDelete, secondPath, tokenFor(t, otherUser), nil), http.StatusForbidden)
	expectStatus(t, e.do(t, http.MethodDelete, secondPath, tok, nil), http.StatusNoContent)
	if _, err := os.Stat(stored); !os.IsNotExist(err) {
		t.Fatalf("deleted resume file should be removed, stat err %v", err)
	}
}

func TestResumeDeleteKeepsFilesItDidNotUpload(t *testing.T) {
	e := newEnv(t)
	owner, company := e.company(t, "hr@acme.com", "Acme")
	eveUser, _ := e.candidate(t, "eve@example.com", "Eve", "Mallory")
	eve := tokenFor(t, eveUser)

	w := e.upload(t, "/company/"+strconv.FormatInt(company.ID, 10)+"/logo", tokenFor(t, owner), "logo.png", "png-bytes", nil)
	expectStatus(t, w, http.StatusOK)
	logo := decodeBody[dto.CompanyDto](t, w)
	stored := filepath.Join(e.files.Dir(), filepath.FromSlash(strings.TrimPrefix(logo.LogoURL, "/files/")))

	w = e.do(t, http.MethodPost, "/resume", eve, map[string]any{"fileName": "cv.png", "fileUrl": logo.LogoURL})
	expectStatus(t, w, http.StatusCreated)
	res := decodeBody[dto.ResumeDto](t, w)

	expectStatus(t, e.do(t, http.MethodDelete, "/resume/"+strconv.FormatInt(res.ID, 10), eve, nil), http.StatusNoContent)
	if b, err := os.ReadFile(stored); err != nil || string(b) != "png-bytes" {
		t.Fatalf("company logo must survive deleting a resume that points at it: %q %v", b, err)
	}
}
