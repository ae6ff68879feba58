package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/amx/internal/services"
	"github.com/desertthunder/amx/internal/shared"
	"github.com/desertthunder/amx/internal/tasks"
	"github.com/desertthunder/amx/internal/ui"
	"github.com/urfave/cli/v3"
)

// dotEnvFile is consulted for credentials missing from the .dat files.
const dotEnvFile = ".env"

// Library is the destination library: playlists and albums.
type Library interface {
	services.PlaylistLibrary
	services.AlbumLibrary
}

// APIClient performs raw authenticated requests for the api command.
type APIClient interface {
	Get(ctx context.Context, path string, query url.Values) (*services.APIResponse, error)
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Services and the database are built from the configuration on first use
// unless they were injected through [RunnerOpts].
type Runner struct {
	config     *shared.Config
	catalog    services.SongSearcher
	library    Library
	api        APIClient
	db         *sql.DB
	httpClient *http.Client
	logger     *log.Logger
	input      io.Reader
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Catalog    services.SongSearcher
	Library    Library
	API        APIClient
	DB         *sql.DB
	HTTPClient *http.Client
	Logger     *log.Logger
	Input      io.Reader
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
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		catalog:    opts.Catalog,
		library:    opts.Library,
		api:        opts.API,
		db:         opts.DB,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		input:      opts.Input,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		importCommand, searchCommand, setupCommand, cacheCommand, historyCommand, apiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// songSearcher returns the catalog search client.
func (r *Runner) songSearcher() services.SongSearcher {
	if r.catalog == nil {
		itunes := services.NewITunesService(services.ITunesOptions{
			BaseURL: r.config.ITunes.BaseURL,
			Country: r.config.ITunes.Country,
			Limit:   r.config.ITunes.Limit,
		}, r.httpClient)
		r.logger.Debug("catalog client ready", "service", itunes.Name(), "country", r.config.ITunes.Country)
		r.catalog = itunes
	}
	return r.catalog
}

// appleMusic returns the authenticated library client, resolving credentials on first use.
func (r *Runner) appleMusic() (Library, error) {
	if r.library != nil {
		return r.library, nil
	}

	session, err := r.session()
	if err != nil {
		return nil, err
	}

	library := services.NewAppleMusicService(session, r.config.Credentials.AppleMusic.Storefront)
	r.logger.Debug("library client ready", "service", library.Name(), "storefront", r.config.Credentials.AppleMusic.Storefront)
	r.library = library
	if r.api == nil {
		r.api = session
	}
	return r.library, nil
}

// apiClient returns the raw request client used by the api command.
func (r *Runner) apiClient() (APIClient, error) {
	if r.api != nil {
		return r.api, nil
	}

	session, err := r.session()
	if err != nil {
		return nil, err
	}
	r.api = session
	return r.api, nil
}

func (r *Runner) session() (*services.Session, error) {
	loader := &shared.CredentialLoader{
		Config: r.config.Credentials.AppleMusic,
		DotEnv: dotEnvFile,
		Prompt: shared.NewPrompter(r.input, r.output),
	}
	creds, err := loader.Load()
	if err != nil {
		return nil, err
	}

	return services.NewSession(services.SessionConfig{
		BaseURL:     r.config.Credentials.AppleMusic.BaseURL,
		Credentials: *creds,
		HTTPClient:  r.httpClient,
	})
}

// database returns the configured database, or [shared.ErrCacheDisabled].
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, err
	}
	r.db = db
	return r.db, nil
}

// Close releases the database opened by the runner, if any.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// withProgress runs fn while a [ui.Printer] drains its progress channel.
//
// The printer has finished writing when withProgress returns.
func (r *Runner) withProgress(fn func(progress chan<- tasks.ProgressUpdate) error) error {
	progress := make(chan tasks.ProgressUpdate, 16)
	done := ui.NewPrinter(r.output).Run(progress)

	err := fn(progress)

	close(progress)
	<-done
	return err
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
	r.writePlain("%v\n", ui.Title(title))
	r.writePlain("═══════════════════════════════════════\n")
}
