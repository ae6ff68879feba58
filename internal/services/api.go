// Authenticated HTTP session for the Apple Music web API
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/amx/internal/shared"
	"golang.org/x/oauth2"
)

const defaultAppleMusicBaseURL = "https://amp-api.music.apple.com/v1"

// webPlayerHeaders are sent with every request so the private API accepts the session.
var webPlayerHeaders = map[string]string{
	"Accept":         "application/json",
	"Origin":         "https://music.apple.com",
	"Referer":        "https://music.apple.com/",
	"Sec-Fetch-Dest": "empty",
	"Sec-Fetch-Mode": "cors",
	"Sec-Fetch-Site": "same-site",
}

// SessionConfig is the explicit client configuration shared by every Apple Music call.
type SessionConfig struct {
	BaseURL     string
	Credentials shared.Credentials
	HTTPClient  *http.Client // base client whose transport and timeout are reused
}

// Session performs authenticated requests against the Apple Music web API.
//
// The bearer token is attached by an [oauth2.Transport]; the media user
// token, cookies, and web player headers by the session's own transport.
type Session struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Decode unmarshals the response body into v.
func (r *APIResponse) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// NewSession builds a [Session] from conf.
func NewSession(conf SessionConfig) (*Session, error) {
	if conf.BaseURL == "" {
		conf.BaseURL = defaultAppleMusicBaseURL
	}
	base, err := url.Parse(strings.TrimRight(conf.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base URL %q: %v", shared.ErrInvalidConfig, conf.BaseURL, err)
	}

	client := conf.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	baseTransport := client.Transport
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}

	headers := make(http.Header)
	for k, v := range webPlayerHeaders {
		headers.Set(k, v)
	}
	if conf.Credentials.MediaUserToken != "" {
		headers.Set("media-user-token", conf.Credentials.MediaUserToken)
	}
	if conf.Credentials.Cookies != "" {
		headers.Set("Cookie", conf.Credentials.Cookies)
	}

	var transport http.RoundTripper = &headerTransport{base: baseTransport, headers: headers}
	if token := BearerToken(conf.Credentials.Token); token != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   transport,
		}
	}

	return &Session{
		baseURL: base,
		httpClient: &http.Client{
			Transport:     transport,
			Timeout:       client.Timeout,
			CheckRedirect: client.CheckRedirect,
			Jar:           client.Jar,
		},
	}, nil
}

// BearerToken strips an optional "Bearer " scheme prefix from a pasted Authorization value.
func BearerToken(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}

// headerTransport adds fixed headers to every outgoing request.
type headerTransport struct {
	base    http.RoundTripper
	headers http.Header
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		if req.Header.Get(k) == "" {
			req.Header[k] = v
		}
	}
	return t.base.RoundTrip(req)
}

// resolve joins an API path onto the base URL.
//
// Pagination links returned by the API already carry the version prefix
// ("/v1/..."), so a path starting with the base path is joined to the host only.
func (s *Session) resolve(path string, query url.Values) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("%w: invalid path %q: %v", shared.ErrInvalidArgument, path, err)
	}

	u := *s.baseURL
	switch {
	case ref.IsAbs():
		u = *ref
	case s.baseURL.Path != "" && strings.HasPrefix(ref.Path, s.baseURL.Path+"/"):
		u.Path = ref.Path
		u.RawQuery = ref.RawQuery
	default:
		u.Path = s.baseURL.Path + "/" + strings.TrimLeft(ref.Path, "/")
		u.RawQuery = ref.RawQuery
	}

	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Get performs a GET request to the specified path and returns the raw response.
func (s *Session) Get(ctx context.Context, path string, query url.Values) (*APIResponse, error) {
	return s.do(ctx, http.MethodGet, path, query, nil)
}

// Post performs a POST request with body encoded as JSON and returns the raw response.
func (s *Session) Post(ctx context.Context, path string, query url.Values, body any) (*APIResponse, error) {
	return s.do(ctx, http.MethodPost, path, query, body)
}

func (s *Session) do(ctx context.Context, method, path string, query url.Values, body any) (*APIResponse, error) {
	fullURL, err := s.resolve(path, query)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}

	var jsonData any
	if err := json.Unmarshal(data, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// statusError builds an [shared.ErrUnexpectedStatus] error for op.
func statusError(op string, resp *APIResponse) error {
	return fmt.Errorf("%w: %s returned status %d", shared.ErrUnexpectedStatus, op, resp.StatusCode)
}
