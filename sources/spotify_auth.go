package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/csmith/spotilove/model"
	"github.com/google/uuid"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

// callbackHandler receives the redirect at the end of the authorization code
// flow and exchanges the code for a token. Only the first request is handled.
type callbackHandler struct {
	auth   *spotifyauth.Authenticator
	state  string
	once   sync.Once
	result chan callbackResult
}

type callbackResult struct {
	token *oauth2.Token
	err   error
}

func newCallbackHandler(auth *spotifyauth.Authenticator, state string) *callbackHandler {
	return &callbackHandler{
		auth:   auth,
		state:  state,
		result: make(chan callbackResult, 1),
	}
}

func (h *callbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handled := false
	h.once.Do(func() {
		handled = true

		if errParam := r.URL.Query().Get("error"); errParam != "" {
			h.result <- callbackResult{err: fmt.Errorf("%w: authorization denied: %s", model.ErrAuth, errParam)}
			http.Error(w, "Authorization failed", http.StatusBadRequest)
			return
		}

		token, err := h.auth.Token(r.Context(), h.state, r)
		if err != nil {
			h.result <- callbackResult{err: fmt.Errorf("%w: token exchange failed: %w", model.ErrAuth, err)}
			http.Error(w, "Couldn't get token", http.StatusForbidden)
			return
		}

		h.result <- callbackResult{token: token}
		_, _ = fmt.Fprintln(w, "Login completed! You can close this window and return to the terminal.")
	})

	if !handled {
		http.Error(w, "Callback already processed", http.StatusBadRequest)
	}
}

// authorize runs the authorization code flow, listening for the redirect on
// the host and path of redirectURI.
func authorize(ctx context.Context, auth *spotifyauth.Authenticator, redirectURI string, open func(string) error) (*oauth2.Token, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid Spotify redirect URI: %w", model.ErrConfig, err)
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	listener, err := net.Listen("tcp", u.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for Spotify callback on %s: %w", u.Host, err)
	}

	handler := newCallbackHandler(auth, uuid.New().String())
	mux := http.NewServeMux()
	mux.Handle(path, handler)

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Spotify callback server failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	authURL := auth.AuthURL(handler.state)
	fmt.Printf("Please log in to Spotify by visiting the following page:\n\n  %s\n\n", authURL)
	if open != nil {
		if err := open(authURL); err != nil {
			slog.Debug("Couldn't open browser", "error", err)
		}
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-handler.result:
		return res.token, res.err
	}
}

// OpenBrowser opens the default system browser at the given URL
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux", "freebsd", "openbsd":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
