package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/VladimirStojanovski/MealStack/internal/download"
	"github.com/VladimirStojanovski/MealStack/internal/repositories"
	"github.com/VladimirStojanovski/MealStack/internal/services"
	"github.com/VladimirStojanovski/MealStack/internal/session"
	"github.com/VladimirStojanovski/MealStack/internal/shared"
	"github.com/VladimirStojanovski/MealStack/internal/stream"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	api         *services.APIService
	auth        *services.AuthService
	recipes     *services.RecipeService
	admin       *services.AdminService
	downloads   *services.DownloadService
	session     *session.Manager
	coordinator *download.Coordinator
	history     *repositories.DownloadRepository
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	API        *services.APIService
	Session    *session.Manager
	History    *repositories.DownloadRepository
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
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
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.API == nil {
		opts.API = services.NewAPIService(opts.Config.API.BaseURL, opts.HTTPClient)
	}

	downloadSvc := services.NewDownloadService(opts.API)

	var coordinator *download.Coordinator
	if opts.Session != nil {
		streamClient := stream.NewClient(opts.Config.API.BaseURL, opts.HTTPClient, opts.Session.TokenSource())
		opener := download.OpenerFunc(func(ctx context.Context, urls []string) (download.Transport, error) {
			return streamClient.Open(ctx, urls)
		})
		coordinator = download.NewCoordinator(downloadSvc, opener, download.CoordinatorOpts{
			Recorder: recorderOrNil(opts.History),
			Tracker:  downloadSvc,
			Logger:   opts.Logger,
			MaxURLs:  opts.Config.Download.MaxURLs,
		})
	}

	return &Runner{
		config:      opts.Config,
		api:         opts.API,
		auth:        services.NewAuthService(opts.API),
		recipes:     services.NewRecipeService(opts.API),
		admin:       services.NewAdminService(opts.API),
		downloads:   downloadSvc,
		session:     opts.Session,
		coordinator: coordinator,
		history:     opts.History,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		output:      opts.Output,
	}
}

// SetLogger swaps the runner's logger, e.g. to a file logger while the TUI
// owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, recipesCommand, downloadCommand, adminCommand, apiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// guard enforces the navigation rules for protected commands: it resolves
// the current session snapshot and translates a redirect decision into a CLI
// error telling the user what to do.
func (r *Runner) guard(destination string, requiredRoles ...string) error {
	if r.session == nil {
		return fmt.Errorf("%w: session manager not initialized", shared.ErrServiceUnavailable)
	}

	decision := session.Decide(r.session.Snapshot(), destination, requiredRoles...)

	switch {
	case decision.Allow:
		return nil
	case decision.Pending:
		return fmt.Errorf("%w: session state not yet known", shared.ErrServiceUnavailable)
	case decision.RedirectTo == session.TargetLogin:
		return fmt.Errorf("%w: not logged in, run 'mealstack auth login' first", shared.ErrNotAuthenticated)
	default:
		return fmt.Errorf("%w: this command requires an administrator account", shared.ErrAuth)
	}
}

// fail wraps a backend call error with a user-facing message. A 401 while a
// session is held means the stored token went stale, so the session is
// invalidated and the next guarded command asks for a fresh login.
func (r *Runner) fail(action string, err error) error {
	var backendErr *shared.BackendError
	if r.session != nil && errors.As(err, &backendErr) && backendErr.Status == http.StatusUnauthorized {
		r.session.Invalidate()
	}
	return fmt.Errorf("%s: %s: %w", action, shared.UserMessage(err), err)
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

// recorderOrNil avoids storing a typed nil pointer behind the Recorder
// interface, which would defeat the coordinator's nil checks.
func recorderOrNil(history *repositories.DownloadRepository) download.Recorder {
	if history == nil {
		return nil
	}
	return history
}
