package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/amx/internal/shared"
	"github.com/urfave/cli/v3"
)

// appleMusicWebURL is opened by setup credentials --open.
const appleMusicWebURL = "https://music.apple.com"

// SetupConfig writes the configuration template.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", configPath)
	r.writePlain("✓ Configuration written to %s\n", configPath)
	return nil
}

// SetupDatabase initializes the database and runs migrations.
//
// The database is created even when [database] enabled is false.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	conf := r.config.Database
	conf.Enabled = true

	r.logger.Info("initializing database", "path", conf.Path)

	db, err := shared.OpenDatabase(conf)
	if err != nil {
		return err
	}
	defer db.Close()

	version, err := shared.SchemaVersion(db)
	if err != nil {
		return err
	}

	r.logger.Infof("setup complete for database: %v", conf.Path)
	r.writePlain("✓ Database ready at %s (schema version %d)\n", conf.Path, version)
	if !r.config.Database.Enabled {
		r.writePlainln("Set [database] enabled = true in config.toml to record history and cache matches.")
	}
	return nil
}

// SetupCredentials extracts the Apple Music session from a browser "Copy as cURL" command.
//
// The token, media user token, and cookies are written to the configured files.
func (r *Runner) SetupCredentials(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(appleMusicWebURL); err != nil {
			r.logger.Warn("failed to open browser", "url", appleMusicWebURL, "error", err)
		}
	}

	if curlCmd == "" && curlFile == "" {
		if cmd.Bool("open") {
			r.writePlain("Sign in, open DevTools > Network, and copy any amp-api.music.apple.com request as cURL.\n")
			r.writePlain("Then run 'amx setup credentials --curl-file request.sh'\n")
			return nil
		}
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}

	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	var curlHeaders *shared.CurlHeaders
	var err error

	if curlFile != "" {
		curlHeaders, err = shared.ParseCurlFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		curlHeaders, err = shared.ParseCurlCommand(curlCmd)
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	creds, err := curlHeaders.Credentials()
	if err != nil {
		return err
	}

	conf := r.config.Credentials.AppleMusic
	if err := shared.WriteCredentialFiles(conf, creds); err != nil {
		return err
	}

	r.logger.Debug("credentials extracted", "url", curlHeaders.URL, "headers", len(curlHeaders.Headers))
	r.writePlain("✓ Apple Music credentials saved\n")
	r.writePlain("  token: %s\n  media user token: %s\n  cookies: %s\n", conf.TokenFile, conf.MediaUserTokenFile, conf.CookiesFile)
	r.writePlainln("Next steps:")
	r.writePlain("Run 'amx search \"your song\"' to test the catalog, then 'amx import -p exports/'\n")
	return nil
}
