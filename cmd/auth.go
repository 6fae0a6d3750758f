package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/philosolog/mal-progress-box/internal/server"
	"github.com/philosolog/mal-progress-box/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const (
	malAuthURL  = "https://myanimelist.net/v1/oauth2/authorize"
	malTokenURL = "https://myanimelist.net/v1/oauth2/token"
)

// Auth performs the OAuth2 authorization-code flow against MyAnimeList.
//
// Starts a local HTTP server, opens the browser for user authorization, and
// exchanges the auth code for tokens, which are saved back to config.toml.
func (r *Runner) Auth(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	cfg := r.loadConfig(cmd)

	if cfg.MAL.ClientID == "" {
		return fmt.Errorf("%w: mal.client_id must be set in %s (create one at https://myanimelist.net/apiconfig)", shared.ErrMissingCredentials, configPath)
	}

	oauthConfig := &oauth2.Config{
		ClientID:    cfg.MAL.ClientID,
		RedirectURL: fmt.Sprintf("http://%s:%d/callback", cfg.Server.Host, cfg.Server.Port),
		Endpoint: oauth2.Endpoint{
			AuthURL:  malAuthURL,
			TokenURL: malTokenURL,
		},
	}

	token, err := r.doOAuth(cfg, oauthConfig)
	if err != nil {
		return err
	}

	cfg.MAL.AccessToken = token.AccessToken
	if err := shared.SaveConfig(configPath, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	r.config = cfg

	r.writePlainln("%s", r.styles.OK("✓ Authorization successful"))
	r.writePlain("✓ Token saved to %s\n\n", configPath)
	r.writePlain("You can now use: malbox update\n")

	return nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(cfg *shared.Config, oauthConfig *oauth2.Config) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}
	verifier := oauth2.GenerateVerifier()

	handler := server.NewCallbackHandler(oauthConfig, state, verifier)

	mux := http.NewServeMux()
	mux.Handle("/callback", handler)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	authURL := handler.AuthURL()
	r.writePlain("→ Opening browser for MyAnimeList authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.Result

	select {
	case result = <-handler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}
