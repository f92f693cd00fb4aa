package client

import "time"

// Config holds settings for the job board API client.
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:8080
	BaseURL string `yaml:"base_url" json:"base_url"`
	// Timeout is the per-request timeout applied when no http.Client is supplied
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
	// LoginPath is the view users are sent to when their session expires
	LoginPath string `yaml:"login_path" json:"login_path"`
}

// DefaultConfig returns a configuration for a local server.
func DefaultConfig() Config {
	return Config{
		BaseURL:   "http://localhost:8080",
		Timeout:   15 * time.Second,
		LoginPath: "/login",
	}
}
