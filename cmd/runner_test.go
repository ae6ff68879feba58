package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/amx/internal/models"
	"github.com/desertthunder/amx/internal/repositories"
	"github.com/desertthunder/amx/internal/services"
	"github.com/desertthunder/amx/internal/shared"
	tu "github.com/desertthunder/amx/internal/testing"
)

type fakeCatalog struct {
	results map[string][]models.CatalogTrack
	terms   []string
}

func (f *fakeCatalog) SearchSongs(ctx context.Context, term string) ([]models.CatalogTrack, error) {
	f.terms = append(f.terms, term)
	return f.results[term], nil
}

type fakeLibrary struct {
	playlists []models.Playlist
	tracks    map[string][]string
	created   []string
	albums    map[string]string
	added     []string
	listErr   error
}

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{tracks: map[string][]string{}, albums: map[string]string{}}
}

func (f *fakeLibrary) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.playlists, nil
}

func (f *fakeLibrary) CreatePlaylist(ctx context.Context, name, description string) (*models.Playlist, error) {
	pl := models.Playlist{ID: fmt.Sprintf("p.%d", len(f.playlists)+1), Name: name, Description: description}
	f.playlists = append(f.playlists, pl)
	f.created = append(f.created, name)
	return &pl, nil
}

func (f *fakeLibrary) PlaylistTrackIDs(ctx context.Context, playlistID string) ([]string, error) {
	return f.tracks[playlistID], nil
}

func (f *fakeLibrary) AddTrack(ctx context.Context, playlistID, trackID string) error {
	f.tracks[playlistID] = append(f.tracks[playlistID], trackID)
	return nil
}

func (f *fakeLibrary) SearchAlbum(ctx context.Context, term string) (string, error) {
	return f.albums[term], nil
}

func (f *fakeLibrary) AddAlbums(ctx context.Context, albumIDs ...string) error {
	f.added = append(f.added, albumIDs...)
	return nil
}

type fakeAPI struct {
	resp *services.APIResponse
	path string
}

func (f *fakeAPI) Get(ctx context.Context, path string, query url.Values) (*services.APIResponse, error) {
	f.path = path
	return f.resp, nil
}

var hello = models.CatalogTrack{TrackID: "1051394215", TrackName: "Hello", ArtistName: "Adele", CollectionName: "25"}

func catalogWithHello() *fakeCatalog {
	return &fakeCatalog{results: map[string][]models.CatalogTrack{"Hello Adele 25": {hello}}}
}

func testConfig(t *testing.T) *shared.Config {
	t.Helper()
	dir := t.TempDir()
	config := shared.DefaultConfig()
	config.Sync.DelayMS = 0
	config.Sync.UnresolvedTracks = filepath.Join(dir, "noresult.csv")
	config.Sync.UnresolvedAlbums = filepath.Join(dir, "albums_noresult.csv")
	config.Credentials.AppleMusic.TokenFile = filepath.Join(dir, "token.dat")
	config.Credentials.AppleMusic.MediaUserTokenFile = filepath.Join(dir, "media_user_token.dat")
	config.Credentials.AppleMusic.CookiesFile = filepath.Join(dir, "cookies.dat")
	return config
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			catalog := &fakeCatalog{}
			library := newFakeLibrary()

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Catalog:    catalog,
				Library:    library,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.songSearcher() != catalog {
				t.Error("expected catalog to be used")
			}
			if lib, err := runner.appleMusic(); err != nil || lib != library {
				t.Errorf("expected injected library, got %v (%v)", lib, err)
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.input != os.Stdin {
				t.Error("expected input to default to os.Stdin")
			}
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})

		t.Run("builds the iTunes client from config", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if _, ok := runner.songSearcher().(*services.ITunesService); !ok {
				t.Errorf("expected *services.ITunesService, got %T", runner.songSearcher())
			}
		})

		t.Run("database disabled", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if _, err := runner.database(); !errors.Is(err, shared.ErrCacheDisabled) {
				t.Errorf("expected ErrCacheDisabled, got %v", err)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		commands := NewRunner(RunnerOpts{}).register()

		want := []string{"import", "search", "setup", "cache", "history", "api"}
		if len(commands) != len(want) {
			t.Fatalf("expected %d commands, got %d", len(want), len(commands))
		}
		for i, cmd := range commands {
			if cmd == nil || cmd.Name != want[i] {
				t.Errorf("command at index %d: expected %s, got %v", i, want[i], cmd)
			}
		}
	})

	t.Run("session from credential files", func(t *testing.T) {
		config := testConfig(t)
		creds := &shared.Credentials{Token: "Bearer t", MediaUserToken: "m", Cookies: "c=1"}
		if err := shared.WriteCredentialFiles(config.Credentials.AppleMusic, creds); err != nil {
			t.Fatalf("failed to write credentials: %v", err)
		}

		runner := NewRunner(RunnerOpts{Config: config, Input: strings.NewReader(""), Output: &bytes.Buffer{}})
		library, err := runner.appleMusic()
		if err != nil {
			t.Fatalf("appleMusic failed: %v", err)
		}
		if _, ok := library.(*services.AppleMusicService); !ok {
			t.Errorf("expected *services.AppleMusicService, got %T", library)
		}
		if client, err := runner.apiClient(); err != nil || client == nil {
			t.Errorf("expected api client to reuse the session, got %v (%v)", client, err)
		}
	})
}

func TestImport(t *testing.T) {
	t.Run("requires an export", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: testConfig(t), Output: output, Library: newFakeLibrary(), Catalog: &fakeCatalog{}})

		err := importCommand(runner).Run(context.Background(), []string{"import"})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Fatalf("expected ErrMissingArgument, got %v", err)
		}
		if !strings.Contains(output.String(), "amx import --playlist") {
			t.Errorf("expected usage to be printed, got %q", output.String())
		}
	})

	t.Run("playlist directory", func(t *testing.T) {
		config := testConfig(t)
		dir := t.TempDir()
		tu.MustWriteFile(t, dir, "Road Trip.csv", tu.PlaylistCSV(
			[3]string{"Hello", "Adele", "25"},
			[3]string{"Nope", "Nobody", "None"},
		))
		tu.MustWriteFile(t, dir, "notes.txt", "ignored")

		library := newFakeLibrary()
		output := &bytes.Buffer{}
		db := testDB(t)
		runner := NewRunner(RunnerOpts{Config: config, Output: output, Library: library, Catalog: catalogWithHello(), DB: db})

		if err := importCommand(runner).Run(context.Background(), []string{"import", "-p", dir}); err != nil {
			t.Fatalf("import failed: %v", err)
		}

		if len(library.created) != 1 || library.created[0] != "Road Trip" {
			t.Errorf("expected Road Trip to be created, got %v", library.created)
		}
		if got := library.tracks["p.1"]; len(got) != 1 || got[0] != "1051394215" {
			t.Errorf("unexpected playlist tracks %v", got)
		}

		out := output.String()
		for _, want := range []string{"N°1 | Hello | Adele | 25 => 1051394215", "N°2 | Nope | Nobody | None => NOT FOUND", "Playlist converted at 50%"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got %q", want, out)
			}
		}

		if got := tu.MustReadFile(t, config.Sync.UnresolvedTracks); !strings.Contains(got, "Road Trip;Nope;Nobody;None; NOT FOUND") {
			t.Errorf("unexpected unresolved log %q", got)
		}

		runs, err := repositories.NewRunRepository(db).List(nil)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 1 {
			t.Fatalf("expected 1 run, got %d", len(runs))
		}
		if runs[0].Status() != models.RunStatusCompleted || runs[0].Converted() != 1 || runs[0].Target() != "p.1" {
			t.Errorf("unexpected run %s %d %s", runs[0].Status(), runs[0].Converted(), runs[0].Target())
		}
	})

	t.Run("second run converts nothing", func(t *testing.T) {
		config := testConfig(t)
		export := tu.MustWriteFile(t, t.TempDir(), "Mix.csv", tu.PlaylistCSV([3]string{"Hello", "Adele", "25"}))

		library := newFakeLibrary()
		catalog := catalogWithHello()

		for i := 0; i < 2; i++ {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Config: config, Output: output, Library: library, Catalog: catalog})
			if err := importCommand(runner).Run(context.Background(), []string{"import", "--playlist", export}); err != nil {
				t.Fatalf("import %d failed: %v", i, err)
			}
			if i == 1 && !strings.Contains(output.String(), "Converted Songs: 0") {
				t.Errorf("expected nothing converted on second run, got %q", output.String())
			}
		}

		if len(library.created) != 1 {
			t.Errorf("expected one playlist creation, got %v", library.created)
		}
		if got := library.tracks["p.1"]; len(got) != 1 {
			t.Errorf("expected one track, got %v", got)
		}
	})

	t.Run("continues after a failing export", func(t *testing.T) {
		config := testConfig(t)
		dir := t.TempDir()
		tu.MustWriteFile(t, dir, "a_broken.csv", "Track URI,Track Name\nspotify:track:1,Hello\n")
		tu.MustWriteFile(t, dir, "b_good.csv", tu.PlaylistCSV([3]string{"Hello", "Adele", "25"}))

		library := newFakeLibrary()
		runner := NewRunner(RunnerOpts{Config: config, Output: &bytes.Buffer{}, Library: library, Catalog: catalogWithHello()})

		err := importCommand(runner).Run(context.Background(), []string{"import", "-p", dir})
		if err == nil || !strings.Contains(err.Error(), "1 of 2 exports failed") {
			t.Fatalf("expected one failed export, got %v", err)
		}
		if len(library.created) != 1 || library.created[0] != "b_good" {
			t.Errorf("expected only b_good to be created, got %v", library.created)
		}
	})

	t.Run("records failed runs", func(t *testing.T) {
		config := testConfig(t)
		export := tu.MustWriteFile(t, t.TempDir(), "Mix.csv", tu.PlaylistCSV([3]string{"Hello", "Adele", "25"}))

		library := newFakeLibrary()
		library.listErr = fmt.Errorf("%w: list playlists returned status 401", shared.ErrUnexpectedStatus)
		db := testDB(t)
		runner := NewRunner(RunnerOpts{Config: config, Output: &bytes.Buffer{}, Library: library, Catalog: catalogWithHello(), DB: db})

		if err := importCommand(runner).Run(context.Background(), []string{"import", "-p", export}); err == nil {
			t.Fatal("expected import to fail")
		}

		runs, err := repositories.NewRunRepository(db).List(map[string]any{"status": "failed"})
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 1 || !strings.Contains(runs[0].ErrorMessage(), "401") {
			t.Errorf("expected one failed run with the status error, got %d", len(runs))
		}
	})

	t.Run("albums", func(t *testing.T) {
		config := testConfig(t)
		albums := tu.MustWriteFile(t, t.TempDir(), "albums.json", `{"albums":[{"album":"25","artist":"Adele"},{"album":"Lost","artist":"Nobody"}]}`)

		library := newFakeLibrary()
		library.albums["25 Adele"] = "1051394208"
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: config, Output: output, Library: library, Catalog: &fakeCatalog{}})

		if err := importCommand(runner).Run(context.Background(), []string{"import", "-a", albums}); err != nil {
			t.Fatalf("import failed: %v", err)
		}

		if len(library.added) != 1 || library.added[0] != "1051394208" {
			t.Errorf("unexpected added albums %v", library.added)
		}
		if !strings.Contains(output.String(), "Album 25 by Adele added to library!") {
			t.Errorf("unexpected output %q", output.String())
		}
		if got := tu.MustReadFile(t, config.Sync.UnresolvedAlbums); !strings.Contains(got, "Lost;Nobody; NOT FOUND") {
			t.Errorf("unexpected unresolved albums log %q", got)
		}
	})

	t.Run("cache stores matches", func(t *testing.T) {
		config := testConfig(t)
		export := tu.MustWriteFile(t, t.TempDir(), "Mix.csv", tu.PlaylistCSV([3]string{"Hello", "Adele", "25"}))

		db := testDB(t)
		runner := NewRunner(RunnerOpts{Config: config, Output: &bytes.Buffer{}, Library: newFakeLibrary(), Catalog: catalogWithHello(), DB: db})

		if err := importCommand(runner).Run(context.Background(), []string{"import", "--cache", "-p", export}); err != nil {
			t.Fatalf("import failed: %v", err)
		}

		n, err := repositories.NewMatchRepository(db).Count()
		if err != nil || n != 1 {
			t.Errorf("expected one cached match, got %d (%v)", n, err)
		}
	})
}

func TestSearch(t *testing.T) {
	t.Run("prints rule", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: testConfig(t), Output: output, Catalog: catalogWithHello()})

		if err := searchCommand(runner).Run(context.Background(), []string{"search", "--artist", "Adele", "--album", "25", "Hello"}); err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if !strings.Contains(output.String(), "1051394215") || !strings.Contains(output.String(), string(models.RuleExactAll)) {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("not found", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: testConfig(t), Output: output, Catalog: &fakeCatalog{}})

		if err := searchCommand(runner).Run(context.Background(), []string{"search", "Nothing"}); err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if !strings.Contains(output.String(), "NOT FOUND") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("requires a title", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Config: testConfig(t), Output: &bytes.Buffer{}, Catalog: &fakeCatalog{}})
		if err := searchCommand(runner).Run(context.Background(), []string{"search"}); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestSetup(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

		if err := setupCommand(runner).Run(context.Background(), []string{"setup", "config", "--config", path}); err != nil {
			t.Fatalf("setup config failed: %v", err)
		}
		tu.AssertFileExists(t, path)

		if err := setupCommand(runner).Run(context.Background(), []string{"setup", "config", "--config", path}); err == nil {
			t.Error("expected error when config exists")
		}
	})

	t.Run("database", func(t *testing.T) {
		config := testConfig(t)
		config.Database.Path = filepath.Join(t.TempDir(), "amx.db")
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: config, Output: output})

		if err := setupCommand(runner).Run(context.Background(), []string{"setup", "database"}); err != nil {
			t.Fatalf("setup database failed: %v", err)
		}
		tu.AssertFileExists(t, config.Database.Path)
		if !strings.Contains(output.String(), "schema version 2") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("credentials from curl", func(t *testing.T) {
		config := testConfig(t)
		runner := NewRunner(RunnerOpts{Config: config, Output: &bytes.Buffer{}})

		curl := `curl 'https://amp-api.music.apple.com/v1/me/library/playlists' -H 'authorization: Bearer abc' -H 'media-user-token: mut' -H 'cookie: itspod=12'`
		if err := setupCommand(runner).Run(context.Background(), []string{"setup", "credentials", "--curl", curl}); err != nil {
			t.Fatalf("setup credentials failed: %v", err)
		}

		if got := tu.MustReadFile(t, config.Credentials.AppleMusic.TokenFile); got != "Bearer abc\n" {
			t.Errorf("unexpected token file %q", got)
		}
		if got := tu.MustReadFile(t, config.Credentials.AppleMusic.CookiesFile); got != "itspod=12\n" {
			t.Errorf("unexpected cookies file %q", got)
		}
	})

	t.Run("credentials require curl", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Config: testConfig(t), Output: &bytes.Buffer{}})

		err := setupCommand(runner).Run(context.Background(), []string{"setup", "credentials"})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("credentials reject both sources", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Config: testConfig(t), Output: &bytes.Buffer{}})

		err := setupCommand(runner).Run(context.Background(), []string{"setup", "credentials", "--curl", "curl x", "--curl-file", "x.sh"})
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestCacheAndHistory(t *testing.T) {
	db := testDB(t)
	matches := repositories.NewMatchRepository(db)
	if err := matches.Save(models.SourceTrack{Title: "Hello", Artist: "Adele", Album: "25"}, models.MatchResult{TrackID: "1", Rule: models.RuleExactAll}); err != nil {
		t.Fatalf("failed to seed match: %v", err)
	}

	run := models.NewRun(models.RunKindPlaylist, "exports/Road Trip.csv")
	runs := repositories.NewRunRepository(db)
	if err := runs.Create(run); err != nil {
		t.Fatalf("failed to seed run: %v", err)
	}
	run.Complete(10, 8, 2)
	if err := runs.Update(run); err != nil {
		t.Fatalf("failed to update run: %v", err)
	}

	t.Run("history text", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output, DB: db})

		if err := historyCommand(runner).Run(context.Background(), []string{"history"}); err != nil {
			t.Fatalf("history failed: %v", err)
		}
		if !strings.Contains(output.String(), "Road Trip.csv") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("history csv", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output, DB: db})

		if err := historyCommand(runner).Run(context.Background(), []string{"history", "--format", "csv", "--limit", "1"}); err != nil {
			t.Fatalf("history failed: %v", err)
		}
		if !strings.HasPrefix(output.String(), "Sequence,Kind,Source") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("history unknown format", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, DB: db})
		if err := historyCommand(runner).Run(context.Background(), []string{"history", "--format", "xml"}); err == nil {
			t.Error("expected error for unknown format")
		}
	})

	t.Run("cache stats", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output, DB: db})

		if err := cacheCommand(runner).Run(context.Background(), []string{"cache", "stats"}); err != nil {
			t.Fatalf("cache stats failed: %v", err)
		}
		if !strings.Contains(output.String(), "Cached matches: 1") || !strings.Contains(output.String(), string(models.RuleExactAll)) {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("cache clear", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output, DB: db})

		if err := cacheCommand(runner).Run(context.Background(), []string{"cache", "clear"}); err != nil {
			t.Fatalf("cache clear failed: %v", err)
		}
		if !strings.Contains(output.String(), "Removed 1 cached matches") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("cache without database", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})
		if err := cacheCommand(runner).Run(context.Background(), []string{"cache", "stats"}); !errors.Is(err, shared.ErrCacheDisabled) {
			t.Errorf("expected ErrCacheDisabled, got %v", err)
		}
	})
}

func TestAPIGet(t *testing.T) {
	t.Run("prints JSON", func(t *testing.T) {
		api := &fakeAPI{resp: &services.APIResponse{StatusCode: 200, IsJSON: true, JSONData: map[string]any{"data": []any{}}}}
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output, API: api})

		if err := apiCommand(runner).Run(context.Background(), []string{"api", "get", "/me/storefront"}); err != nil {
			t.Fatalf("api get failed: %v", err)
		}
		if api.path != "/me/storefront" {
			t.Errorf("unexpected path %q", api.path)
		}
		if !strings.Contains(output.String(), `"data": []`) {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("unexpected status", func(t *testing.T) {
		api := &fakeAPI{resp: &services.APIResponse{StatusCode: 401, Body: []byte("unauthorized")}}
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, API: api})

		err := apiCommand(runner).Run(context.Background(), []string{"api", "get", "/me/storefront"})
		if !errors.Is(err, shared.ErrUnexpectedStatus) {
			t.Errorf("expected ErrUnexpectedStatus, got %v", err)
		}
	})
}
