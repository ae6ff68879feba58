// Apple Music session credentials: files, environment, then prompt.
package shared

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables consulted when a credential file is absent.
const (
	EnvToken          = "AMX_TOKEN"
	EnvMediaUserToken = "AMX_MEDIA_USER_TOKEN"
	EnvCookies        = "AMX_COOKIES"
)

// Credentials are the three opaque values the Apple Music web player sends with every request.
//
// They are passed through as header values and never validated or refreshed.
type Credentials struct {
	Token          string
	MediaUserToken string
	Cookies        string
}

// Validate reports which credential values are empty.
func (c *Credentials) Validate() error {
	var missing []string
	if c.Token == "" {
		missing = append(missing, "token")
	}
	if c.MediaUserToken == "" {
		missing = append(missing, "media user token")
	}
	if c.Cookies == "" {
		missing = append(missing, "cookies")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// Prompter asks the user for a value on an interactive terminal.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a [Prompter] reading answers from in and writing questions to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Ask writes the question and returns the answer line without its line ending.
func (p *Prompter) Ask(question string) (string, error) {
	if _, err := fmt.Fprint(p.out, question); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// CredentialLoader resolves [Credentials] from the configured files, the
// environment (optionally seeded from a .env file), and finally a prompt.
type CredentialLoader struct {
	Config AppleMusicConfig
	DotEnv string    // optional .env path, ignored when missing
	Prompt *Prompter // nil disables interactive prompts
}

// Load resolves every credential, returning [ErrMissingCredentials] when one stays empty.
func (l *CredentialLoader) Load() (*Credentials, error) {
	if l.DotEnv != "" {
		if err := godotenv.Load(l.DotEnv); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", l.DotEnv, err)
		}
	}

	var creds Credentials
	var err error

	if creds.Token, err = l.resolve(l.Config.TokenFile, EnvToken, "\nPlease enter your Apple Music Authorization (Bearer token):\n"); err != nil {
		return nil, err
	}
	if creds.MediaUserToken, err = l.resolve(l.Config.MediaUserTokenFile, EnvMediaUserToken, "\nPlease enter your media user token:\n"); err != nil {
		return nil, err
	}
	if creds.Cookies, err = l.resolve(l.Config.CookiesFile, EnvCookies, "\nPlease enter your cookies:\n"); err != nil {
		return nil, err
	}

	if err := creds.Validate(); err != nil {
		return nil, err
	}
	return &creds, nil
}

func (l *CredentialLoader) resolve(path, env, question string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			return strings.TrimRight(string(data), "\r\n"), nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to read credential file %s: %w", path, err)
		}
	}

	if value := os.Getenv(env); value != "" {
		return value, nil
	}

	if l.Prompt == nil {
		return "", nil
	}
	return l.Prompt.Ask(question)
}

// WriteCredentialFiles stores each credential in the file named by the configuration.
func WriteCredentialFiles(conf AppleMusicConfig, creds *Credentials) error {
	files := []struct {
		path  string
		value string
	}{
		{conf.TokenFile, creds.Token},
		{conf.MediaUserTokenFile, creds.MediaUserToken},
		{conf.CookiesFile, creds.Cookies},
	}

	for _, f := range files {
		if f.path == "" || f.value == "" {
			continue
		}
		if err := os.WriteFile(f.path, []byte(f.value+"\n"), 0600); err != nil {
			return fmt.Errorf("failed to write credential file %s: %w", f.path, err)
		}
	}
	return nil
}
