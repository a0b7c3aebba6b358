package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/fitx/internal/repositories"
	"github.com/desertthunder/fitx/internal/services"
	"github.com/desertthunder/fitx/internal/shared"
	"github.com/desertthunder/fitx/internal/state"
	"github.com/desertthunder/fitx/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	api        *services.APIService
	catalog    services.Catalog
	app        *state.App
	videos     *repositories.VideoRepository
	engine     *tasks.Engine
	planner    *tasks.Planner
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	input      io.Reader

	readPassword func() (string, error)
	openURL      func(string) error
	now          func() time.Time
}

// RunnerOpts contains configuration options for creating a Runner.
//
// App is required; every other field falls back to a default built from Config.
type RunnerOpts struct {
	Config     *shared.Config
	API        *services.APIService
	Catalog    services.Catalog
	App        *state.App
	Videos     *repositories.VideoRepository
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Config.API.Timeout()}
	}
	if opts.API == nil {
		opts.API = services.NewAPIService(
			opts.Config.API.BaseURL,
			opts.HTTPClient,
			services.WithRateLimit(opts.Config.API.RequestsPerSecond),
			services.WithLogger(opts.Logger),
		)
	}
	if opts.Catalog == nil {
		opts.Catalog = services.NewCatalogClient(opts.API, opts.Config.API.AuthHeader)
	}

	r := &Runner{
		config:     opts.Config,
		api:        opts.API,
		catalog:    opts.Catalog,
		app:        opts.App,
		videos:     opts.Videos,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
		openURL:    shared.OpenBrowser,
		now:        time.Now,
	}
	r.readPassword = r.promptPassword
	if opts.App != nil {
		r.engine = tasks.NewEngine(opts.Catalog, opts.App.Auth)
		r.planner = tasks.NewPlanner(opts.Catalog, opts.App.Auth)
	}
	return r
}

// SetLogger swaps the logger, e.g. for a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, videosCommand, workoutsCommand, exercisesCommand,
		profileCommand, waterCommand, cacheCommand, apiCommand, tuiCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// requireApp guards commands that need client state.
func (r *Runner) requireApp() error {
	if r.app == nil || r.engine == nil {
		return fmt.Errorf("%w: client state not initialized", shared.ErrServiceUnavailable)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

func (r *Runner) writeBytes(b []byte) error {
	if _, err := r.output.Write(b); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
