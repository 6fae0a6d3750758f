// package server implements the local HTTP callback used by the `auth`
// command's OAuth2 authorization-code flow.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// Result contains the outcome of an OAuth authorization flow.
type Result struct {
	Token *oauth2.Token
	err   error
}

func (r *Result) Error() error {
	return r.err
}

// CallbackHandler handles the OAuth2 redirect back from MyAnimeList.
//
// MAL requires PKCE; it only supports the plain challenge method, so the
// verifier doubles as the challenge and is replayed on the token exchange.
type CallbackHandler struct {
	config   *oauth2.Config
	state    string
	verifier string

	resultChan chan Result
	once       sync.Once
	hit        bool
	mu         sync.Mutex
}

// NewCallbackHandler creates a callback handler for the given OAuth2 config.
// The state token should be cryptographically random for CSRF protection.
func NewCallbackHandler(config *oauth2.Config, state, verifier string) *CallbackHandler {
	return &CallbackHandler{
		config:     config,
		state:      state,
		verifier:   verifier,
		resultChan: make(chan Result, 1),
	}
}

// AuthURL builds the authorization URL with the plain PKCE challenge attached.
func (h *CallbackHandler) AuthURL() string {
	return h.config.AuthCodeURL(h.state,
		oauth2.SetAuthURLParam("code_challenge", h.verifier),
		oauth2.SetAuthURLParam("code_challenge_method", "plain"),
	)
}

// ServeHTTP validates the state parameter, exchanges the authorization code
// for tokens, and sends the result through the result channel.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Only handle the callback once
	h.mu.Lock()
	if h.hit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.hit = true
	h.mu.Unlock()

	if state := r.URL.Query().Get("state"); state != h.state {
		err := fmt.Errorf("invalid state parameter")
		h.send(Result{err: err})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		errParam := r.URL.Query().Get("error")
		errDesc := r.URL.Query().Get("error_description")
		err := fmt.Errorf("authorization failed: %s - %s", errParam, errDesc)
		h.send(Result{err: err})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.config.Exchange(context.Background(), code,
		oauth2.SetAuthURLParam("code_verifier", h.verifier))
	if err != nil {
		h.send(Result{err: fmt.Errorf("token exchange failed: %w", err)})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	h.send(Result{Token: token})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, successPage)
}

// send delivers the OAuth result through the channel (only once).
func (h *CallbackHandler) send(result Result) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the channel that receives the flow's outcome.
//
// The channel receives exactly one result and is then closed.
func (h *CallbackHandler) Result() <-chan Result {
	return h.resultChan
}

const successPage = `
<!DOCTYPE html>
<html>
<head>
    <title>Authorization Successful</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #2E51A2; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✓ Authorization Successful</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`
