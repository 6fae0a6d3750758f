// package services defines interfaces for the remote HTTP APIs
//
// MyAnimeList (list retrieval), GitHub gists (publishing)
package services

import (
	"context"

	"github.com/philosolog/mal-progress-box/internal/models"
)

// ListService defines the interface for list-tracking providers that can
// retrieve a user's full anime or manga list.
type ListService interface {
	// Fetch retrieves every entry of the user's list for the given content
	// type, following pagination until the provider signals the end.
	Fetch(ctx context.Context, username string, contentType models.ContentType) ([]models.Entry, error)

	// Name returns the name of the service (e.g., "MyAnimeList")
	Name() string
}

// Publisher defines the interface for snippet hosts that can replace the
// content of a single named file.
type Publisher interface {
	// Update replaces fileName's content inside the target snippet.
	Update(ctx context.Context, snippetID, fileName, content string) error
}
