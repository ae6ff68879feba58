// Utilities for extracting session credentials from a browser "Copy as cURL" command.
package shared

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	curlHeaderRe = regexp.MustCompile(`(?:-H|--header)\s+(?:'([^']+)'|"([^"]+)")`)
	curlCookieRe = regexp.MustCompile(`(?:-b|--cookie)\s+(?:'([^']+)'|"([^"]+)")`)
	curlURLRe    = regexp.MustCompile(`(?:^|\s)(?:'(https?://[^']+)'|"(https?://[^"]+)"|(https?://[^\s'"]+))(?:\s|$)`)
)

// CurlHeaders represents parsed headers and cookies from a cURL command.
//
// Header names are stored lowercased.
type CurlHeaders struct {
	URL     string
	Headers map[string]string
	Cookie  string
}

// ParseCurlFile reads a .sh file containing a cURL command and extracts headers.
func ParseCurlFile(path string) (*CurlHeaders, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(string(content))
}

// ParseCurlCommand parses a cURL command string and extracts headers.
//
// A cookie given with -b wins over a Cookie header.
func ParseCurlCommand(curlCmd string) (*CurlHeaders, error) {
	curlCmd = strings.ReplaceAll(curlCmd, "\\\r\n", " ")
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")

	parsed := &CurlHeaders{Headers: make(map[string]string)}

	if m := curlURLRe.FindStringSubmatch(curlCmd); m != nil {
		parsed.URL = firstNonEmpty(m[1:]...)
	}

	var headerCookie string
	for _, m := range curlHeaderRe.FindAllStringSubmatch(curlCmd, -1) {
		key, value, ok := strings.Cut(firstNonEmpty(m[1:]...), ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		if key == "cookie" {
			headerCookie = value
			continue
		}
		parsed.Headers[key] = value
	}

	if m := curlCookieRe.FindStringSubmatch(curlCmd); m != nil {
		parsed.Cookie = firstNonEmpty(m[1:]...)
	} else {
		parsed.Cookie = headerCookie
	}

	if len(parsed.Headers) == 0 && parsed.Cookie == "" {
		return nil, fmt.Errorf("%w: no headers found in curl command", ErrInvalidInput)
	}

	return parsed, nil
}

// Get returns the header value for a case-insensitive name.
func (c *CurlHeaders) Get(name string) string {
	return c.Headers[strings.ToLower(name)]
}

// Credentials extracts the Apple Music session credentials from the parsed request.
func (c *CurlHeaders) Credentials() (*Credentials, error) {
	creds := &Credentials{
		Token:          c.Get("Authorization"),
		MediaUserToken: c.Get("media-user-token"),
		Cookies:        c.Cookie,
	}

	if err := creds.Validate(); err != nil {
		return nil, err
	}
	return creds, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
