package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/desertthunder/amx/internal/shared"
	tu "github.com/desertthunder/amx/internal/testing"
)

var testCredentials = shared.Credentials{
	Token:          "Bearer dev-token",
	MediaUserToken: "media-user",
	Cookies:        "itspod=12; geo=US",
}

func newTestSession(t *testing.T, baseURL string, client *http.Client) *Session {
	t.Helper()
	session, err := NewSession(SessionConfig{BaseURL: baseURL, Credentials: testCredentials, HTTPClient: client})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	return session
}

func TestSession(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Empty BaseURL", func(t *testing.T) {
			session := newTestSession(t, "", nil)
			if got := session.baseURL.String(); got != defaultAppleMusicBaseURL {
				t.Errorf("expected default base URL, got %s", got)
			}
		})

		t.Run("With Invalid BaseURL", func(t *testing.T) {
			_, err := NewSession(SessionConfig{BaseURL: "://nope"})
			if !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})

		t.Run("Keeps Client Timeout", func(t *testing.T) {
			session := newTestSession(t, "", &http.Client{Timeout: 42})
			if session.httpClient.Timeout != 42 {
				t.Errorf("expected timeout to be copied, got %v", session.httpClient.Timeout)
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("Sends Session Headers", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				if r.URL.Path != "/v1/me/library/playlists" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer dev-token" {
					t.Errorf("unexpected Authorization header %q", got)
				}
				if got := r.Header.Get("media-user-token"); got != "media-user" {
					t.Errorf("unexpected media-user-token header %q", got)
				}
				if got := r.Header.Get("Cookie"); got != "itspod=12; geo=US" {
					t.Errorf("unexpected Cookie header %q", got)
				}
				if got := r.Header.Get("Origin"); got != "https://music.apple.com" {
					t.Errorf("unexpected Origin header %q", got)
				}

				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"data":[]}`))
			}))
			defer server.Close()

			resp, err := newTestSession(t, server.URL+"/v1", nil).Get(context.Background(), "/me/library/playlists", nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.StatusCode != http.StatusOK {
				t.Errorf("expected status 200, got %d", resp.StatusCode)
			}
			if !resp.IsJSON || resp.JSONData == nil {
				t.Error("expected response to be decoded as JSON")
			}
		})

		t.Run("Non-JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte("unauthorized"))
			}))
			defer server.Close()

			resp, err := newTestSession(t, server.URL, nil).Get(context.Background(), "/me/library/playlists", nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.IsJSON {
				t.Error("expected response not to be JSON")
			}
			if string(resp.Body) != "unauthorized" {
				t.Errorf("unexpected body %q", resp.Body)
			}
		})

		t.Run("Failed HTTP Request", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed")),
			}

			_, err := newTestSession(t, "http://example.com", client).Get(context.Background(), "/test", nil)
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Failed Response Body Read", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       &tu.FCloser{},
					Header:     http.Header{},
				}, nil),
			}

			_, err := newTestSession(t, "http://example.com", client).Get(context.Background(), "/test", nil)
			if err == nil || !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected 'failed to read response' error, got %v", err)
			}
		})
	})

	t.Run("Post", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST method, got %s", r.Method)
			}
			if got := r.Header.Get("Content-Type"); got != "application/json" {
				t.Errorf("unexpected Content-Type %q", got)
			}
			body, _ := io.ReadAll(r.Body)
			if string(body) != `{"name":"Mix"}` {
				t.Errorf("unexpected body %s", body)
			}
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		resp, err := newTestSession(t, server.URL, nil).Post(context.Background(), "/me/library/playlists", nil, map[string]string{"name": "Mix"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.StatusCode != http.StatusCreated {
			t.Errorf("expected status 201, got %d", resp.StatusCode)
		}
	})
}

func TestSession_resolve(t *testing.T) {
	session := newTestSession(t, "https://amp-api.music.apple.com/v1/", nil)

	tests := []struct {
		name  string
		path  string
		query url.Values
		want  string
	}{
		{"relative path", "/me/library/playlists", nil, "https://amp-api.music.apple.com/v1/me/library/playlists"},
		{"path without slash", "catalog/us/search", nil, "https://amp-api.music.apple.com/v1/catalog/us/search"},
		{"next link with version prefix", "/v1/me/library/playlists/p.1/tracks?offset=100", nil, "https://amp-api.music.apple.com/v1/me/library/playlists/p.1/tracks?offset=100"},
		{"query values", "/me/library", url.Values{"ids[albums]": {"1,2"}}, "https://amp-api.music.apple.com/v1/me/library?ids%5Balbums%5D=1%2C2"},
		{"absolute URL", "https://example.com/x", nil, "https://example.com/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := session.resolve(tt.path, tt.query)
			if err != nil {
				t.Fatalf("resolve failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("resolve() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":     "abc",
		"bearer abc":     "abc",
		"  abc  ":        "abc",
		"Bearer   abc  ": "abc",
		"":               "",
	}
	for in, want := range tests {
		if got := BearerToken(in); got != want {
			t.Errorf("BearerToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAPIResponse_Decode(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	if err := (&APIResponse{Body: []byte(`{"name":"Mix"}`)}).Decode(&v); err != nil || v.Name != "Mix" {
		t.Errorf("unexpected decode result %+v (%v)", v, err)
	}
	if err := (&APIResponse{Body: []byte(`nope`)}).Decode(&v); err == nil {
		t.Error("expected decode error")
	}
}
