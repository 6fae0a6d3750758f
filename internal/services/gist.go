// GitHub gist implementation of [Publisher]
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/philosolog/mal-progress-box/internal/shared"
)

const gistBaseURL = "https://api.github.com"

// GistService implements [Publisher] against the GitHub gists API.
type GistService struct {
	token      string
	httpClient *http.Client
	logger     *log.Logger
	baseURL    string
}

// NewGistService creates a gist publisher with the given personal access token.
func NewGistService(token string, client *http.Client, logger *log.Logger) *GistService {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &GistService{
		token:      token,
		httpClient: client,
		logger:     logger,
		baseURL:    gistBaseURL,
	}
}

// gistPatch is the partial-update request body: only the named file changes.
type gistPatch struct {
	Description string              `json:"description"`
	Files       map[string]gistFile `json:"files"`
}

type gistFile struct {
	Content string `json:"content"`
}

// Update replaces fileName's content inside the gist via a PATCH request.
// Re-sending the same content is a no-op on GitHub's side, so the call is
// safe to repeat.
func (g *GistService) Update(ctx context.Context, gistID, fileName, content string) error {
	payload, err := json.Marshal(gistPatch{
		Description: "",
		Files:       map[string]gistFile{fileName: {Content: content}},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal gist payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/gists/%s", g.baseURL, gistID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "token "+g.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPublishFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: your GitHub token was rejected (status %d): %s", shared.ErrInvalidCredentials, resp.StatusCode, body)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: gist %q not found", shared.ErrPublishFailed, gistID)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: status %d: %s", shared.ErrPublishFailed, resp.StatusCode, body)
	}

	g.logger.Info("updated gist", "gist_id", gistID, "file", fileName)
	return nil
}
