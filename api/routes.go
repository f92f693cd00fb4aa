package api

import (
	"net/http"
	"strings"

	"github.com/garnizeh/jobboard/internal/config"
	"github.com/garnizeh/jobboard/internal/storage"
	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
	"github.com/gorilla/mux"
)

// Deps are the collaborators the routes need. Notifier, Files and DB may be nil.
type Deps struct {
	Store    repository.Store
	Notifier Notifier
	Files    storage.Store
	DB       Pinger
}

func SetupRoutes(cfg *config.Config, version, buildTime string, deps Deps) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Create handlers
	systemHandler := &SystemHandler{DB: deps.DB}
	authHandler := NewAuthHandler(deps.Store, cfg.JWTSecret, cfg.TokenDuration)
	companyHandler := NewCompanyHandler(deps.Store, deps.Files)
	candidateHandler := NewCandidateHandler(deps.Store)
	jobHandler := NewJobHandler(deps.Store)
	applicationHandler := NewApplicationHandler(deps.Store, deps.Notifier)
	resumeHandler := NewResumeHandler(deps.Store, deps.Files)
	referenceHandler := NewReferenceHandler(deps.Store)

	auth := JWTAuthMiddlewareWithSecret(cfg.JWTSecret)
	optional := OptionalAuthMiddleware(cfg.JWTSecret)
	open := func(h http.HandlerFunc) http.Handler { return optional(h) }
	protect := func(h http.HandlerFunc, roles ...string) http.Handler {
		var next http.Handler = h
		if len(roles) > 0 {
			next = RequireRole(roles...)(next)
		}
		return auth(next)
	}

	const (
		admin     = models.RoleAdmin
		company   = models.RoleCompany
		candidate = models.RoleCandidate
		id        = "{id:[0-9]+}"
	)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")

	// Account
	r.HandleFunc("/account/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/account/login", authHandler.Login).Methods("POST")
	r.Handle("/account/logout", protect(authHandler.Logout)).Methods("POST")
	r.Handle("/account/me", protect(authHandler.Me)).Methods("GET")

	// Companies
	r.Handle("/company", open(companyHandler.List)).Methods("GET")
	r.Handle("/company/my-company", protect(companyHandler.Mine, company)).Methods("GET")
	r.Handle("/company/"+id, open(companyHandler.Get)).Methods("GET")
	r.Handle("/company", protect(companyHandler.Create, company, admin)).Methods("POST")
	r.Handle("/company/"+id, protect(companyHandler.Update)).Methods("PUT")
	r.Handle("/company/"+id, protect(companyHandler.Delete)).Methods("DELETE")
	r.Handle("/company/"+id+"/logo", protect(companyHandler.UploadLogo)).Methods("POST")

	// Candidates
	r.Handle("/candidate/all", protect(candidateHandler.List)).Methods("GET")
	r.Handle("/candidate/me", protect(candidateHandler.Me, candidate)).Methods("GET")
	r.Handle("/candidate/"+id, protect(candidateHandler.Get)).Methods("GET")
	r.Handle("/candidate/"+id, protect(candidateHandler.Update)).Methods("PUT")
	r.Handle("/candidate/"+id+"/skills", protect(candidateHandler.SetSkills)).Methods("PUT")
	r.Handle("/candidate/"+id, protect(candidateHandler.Delete, admin)).Methods("DELETE")

	// Jobs
	r.Handle("/job", open(jobHandler.List)).Methods("GET")
	r.Handle("/job/my-jobs", protect(jobHandler.Mine, company)).Methods("GET")
	r.Handle("/job/"+id, open(jobHandler.Get)).Methods("GET")
	r.Handle("/job", protect(jobHandler.Create, company, admin)).Methods("POST")
	r.Handle("/job/"+id, protect(jobHandler.Update)).Methods("PUT")
	r.Handle("/job/"+id+"/skills", protect(jobHandler.SetSkills)).Methods("PUT")
	r.Handle("/job/"+id, protect(jobHandler.Delete)).Methods("DELETE")

	// Applications
	r.Handle("/application", protect(applicationHandler.Apply, candidate)).Methods("POST")
	r.Handle("/application/my", protect(applicationHandler.Mine, candidate)).Methods("GET")
	r.Handle("/application/job/{jobId:[0-9]+}", protect(applicationHandler.ByJob)).Methods("GET")
	r.Handle("/application/"+id+"/status", protect(applicationHandler.UpdateStatus)).Methods("PUT")
	r.Handle("/application/"+id, protect(applicationHandler.Delete)).Methods("DELETE")

	// Resumes
	r.Handle("/resume/my", protect(resumeHandler.Mine, candidate)).Methods("GET")
	r.Handle("/resume", protect(resumeHandler.Create, candidate)).Methods("POST")
	r.Handle("/resume/upload", protect(resumeHandler.Upload, candidate)).Methods("POST")
	r.Handle("/resume/"+id+"/default", protect(resumeHandler.SetDefault, candidate)).Methods("PUT")
	r.Handle("/resume/"+id, protect(resumeHandler.Delete)).Methods("DELETE")

	// Reference data
	r.HandleFunc("/country", referenceHandler.ListCountries).Methods("GET")
	r.HandleFunc("/country/"+id+"/cities", referenceHandler.CountryCities).Methods("GET")
	r.Handle("/country", protect(referenceHandler.CreateCountry, admin)).Methods("POST")
	r.Handle("/country/"+id, protect(referenceHandler.UpdateCountry, admin)).Methods("PUT")
	r.Handle("/country/"+id, protect(referenceHandler.DeleteCountry, admin)).Methods("DELETE")

	r.HandleFunc("/city", referenceHandler.ListCities).Methods("GET")
	r.Handle("/city", protect(referenceHandler.CreateCity, admin)).Methods("POST")
	r.Handle("/city/"+id, protect(referenceHandler.UpdateCity, admin)).Methods("PUT")
	r.Handle("/city/"+id, protect(referenceHandler.DeleteCity, admin)).Methods("DELETE")

	r.HandleFunc("/industry", referenceHandler.ListIndustries).Methods("GET")
	r.Handle("/industry", protect(referenceHandler.CreateIndustry, admin)).Methods("POST")
	r.Handle("/industry/"+id, protect(referenceHandler.UpdateIndustry, admin)).Methods("PUT")
	r.Handle("/industry/"+id, protect(referenceHandler.DeleteIndustry, admin)).Methods("DELETE")

	r.HandleFunc("/skill", referenceHandler.ListSkills).Methods("GET")
	r.Handle("/skill", protect(referenceHandler.CreateSkill, admin)).Methods("POST")
	r.Handle("/skill/"+id, protect(referenceHandler.UpdateSkill, admin)).Methods("PUT")
	r.Handle("/skill/"+id, protect(referenceHandler.DeleteSkill, admin)).Methods("DELETE")

	// Locally stored uploads
	if local, ok := deps.Files.(*storage.LocalStore); ok {
		prefix := strings.TrimRight(cfg.Storage.PublicBaseURL, "/") + "/"
		r.PathPrefix(prefix).Handler(http.StripPrefix(prefix, http.FileServer(http.Dir(local.Dir())))).Methods("GET")
	}

	// preflight requests; CORSMiddleware answers them
	r.PathPrefix("/").Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}
