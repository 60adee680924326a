package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

var (
	errStateMismatch = errors.New("invalid state parameter")
	errReplayed      = errors.New("callback already processed")
)

// Exchanger trades an authorization code for a token. [*oauth2.Config] satisfies it.
type Exchanger interface {
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
}

// OAuthResult is the outcome of the single callback an [OAuthHandler] accepts.
type OAuthResult struct {
	Token *oauth2.Token
	err   error
}

func (o *OAuthResult) Error() error {
	return o.err
}

// OAuthHandler receives the authorization code redirect, checks state and exchanges the code.
//
// Requests carrying the wrong state are turned away without consuming the handler. The first
// request with a matching state decides the outcome; later ones are rejected.
type OAuthHandler struct {
	exchanger Exchanger
	state     string
	path      string

	mu      sync.Mutex
	claimed bool
	result  chan OAuthResult
}

// NewOAuthHandler creates a handler serving path ("/callback" when empty).
// state must be the random value embedded in the authorization URL.
func NewOAuthHandler(exchanger Exchanger, state, path string) *OAuthHandler {
	if path == "" {
		path = "/callback"
	}
	return &OAuthHandler{
		exchanger: exchanger,
		state:     state,
		path:      path,
		result:    make(chan OAuthResult, 1),
	}
}

func (h *OAuthHandler) Routes() []string {
	return []string{h.path}
}

// Result yields exactly one [OAuthResult] and is then closed.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.result
}

func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("state") != h.state {
		renderPage(w, http.StatusBadRequest, errStateMismatch)
		return
	}
	if !h.claim() {
		renderPage(w, http.StatusBadRequest, errReplayed)
		return
	}

	token, status, err := h.exchange(r)
	h.result <- OAuthResult{Token: token, err: err}
	close(h.result)

	renderPage(w, status, err)
}

// claim marks the handler used and reports whether this caller was first.
func (h *OAuthHandler) claim() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.claimed {
		return false
	}
	h.claimed = true
	return true
}

func (h *OAuthHandler) exchange(r *http.Request) (*oauth2.Token, int, error) {
	q := r.URL.Query()
	code := q.Get("code")
	if code == "" {
		return nil, http.StatusBadRequest, fmt.Errorf("authorization denied: %s %s", q.Get("error"), q.Get("error_description"))
	}

	token, err := h.exchanger.Exchange(r.Context(), code)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("token exchange failed: %w", err)
	}
	return token, http.StatusOK, nil
}

var page = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .box { text-align: center; background: white; padding: 2rem;
               border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: {{.Color}}; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="box">
        <h1>{{.Title}}</h1>
        <p>{{.Detail}}</p>
    </div>
</body>
</html>
`))

func renderPage(w http.ResponseWriter, status int, err error) {
	data := struct{ Title, Color, Detail string }{
		Title:  "✓ Authorization Successful",
		Color:  "#1DB954",
		Detail: "You can close this window and return to the terminal.",
	}
	if err != nil {
		data.Title = "✗ Authorization Failed"
		data.Color = "#E22134"
		data.Detail = err.Error()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	page.Execute(w, data)
}
