// Command jobboardctl is a terminal client for the job board API. The session
// token is kept in a JSON file between invocations.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/garnizeh/jobboard/pkg/client"
	"gopkg.in/yaml.v3"
)

const usage = `usage: jobboardctl [flags] <command> [args]

commands:
  register -role Candidate|Company -email E -password P [-first F -last L | -company C]
  login -email E -password P
  logout
  whoami
  jobs [-active] [-company ID] [-limit N] [-offset N]
  job <id>
  apply [-resume ID] [-notes TEXT] <jobId>
  applications
  my-company
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("jobboardctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := fs.String("config", "", "Path to client config YAML file")
	baseURL := fs.String("url", os.Getenv("JOBBOARD_URL"), "API base URL")
	sessionPath := fs.String("session", defaultSessionPath(), "Session file")
	verbose := fs.Bool("v", false, "Log requests to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	level := slog.LevelError + 1
	if *verbose {
		level = slog.LevelDebug
	}
	client.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}

	c, err := client.NewClient(cfg, nil, client.Deps{
		Session:  client.NewSession(client.NewFileStore(*sessionPath)),
		Notifier: client.WriterNotifier{W: stderr},
	})
	if err != nil {
		fmt.Fprintf(stderr, "client: %v\n", err)
		return 1
	}
	defer c.Close()

	a := &app{client: c, out: stdout, now: time.Now}
	if err := a.dispatch(ctx, fs.Arg(0), fs.Args()[1:]); err != nil {
		var apiErr *client.APIError
		switch {
		case errors.As(err, &apiErr) && !apiErr.Suppressed:
			// already reported by the notifier
		case errors.Is(err, errUsage):
			fmt.Fprint(stderr, usage)
			return 2
		default:
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
		return 1
	}
	return 0
}

// loadConfig starts from client.DefaultConfig and overlays the YAML file.
func loadConfig(path string) (client.Config, error) {
	cfg := client.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}

func defaultSessionPath() string {
	if p := os.Getenv("JOBBOARD_SESSION"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jobboard-session.json"
	}
	return filepath.Join(home, ".jobboard", "session.json")
}
