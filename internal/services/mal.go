// MyAnimeList implementation of [ListService]
//
// Response types based on https://myanimelist.net/apiconfig/references/api/v2
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/philosolog/mal-progress-box/internal/models"
	"github.com/philosolog/mal-progress-box/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	malBaseURL       = "https://api.myanimelist.net/v2"
	malLegacyBaseURL = "https://myanimelist.net"

	// Official API caps at 1000 per page, but smaller batches are more reliable.
	malPageLimit = 100
	// The legacy load.json endpoint always serves pages of 300.
	malLegacyPageLimit = 300

	requestTimeout = 30 * time.Second
)

// malListPage is the official v2 paginated response envelope.
type malListPage struct {
	Data   []malListItem `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}

// malListItem is one entry of the official v2 response.
type malListItem struct {
	Node struct {
		Title       string `json:"title"`
		NumEpisodes int    `json:"num_episodes"`
		NumChapters int    `json:"num_chapters"`
		NumVolumes  int    `json:"num_volumes"`
	} `json:"node"`
	ListStatus struct {
		Status             string `json:"status"`
		NumEpisodesWatched int    `json:"num_episodes_watched"`
		NumChaptersRead    int    `json:"num_chapters_read"`
		NumVolumesRead     int    `json:"num_volumes_read"`
	} `json:"list_status"`
}

// malLegacyItem is one entry of the unofficial load.json flat-array response.
type malLegacyItem struct {
	Status             int    `json:"status"`
	AnimeTitle         string `json:"anime_title"`
	AnimeNumEpisodes   int    `json:"anime_num_episodes"`
	NumWatchedEpisodes int    `json:"num_watched_episodes"`
	MangaTitle         string `json:"manga_title"`
	MangaNumChapters   int    `json:"manga_num_chapters"`
	MangaNumVolumes    int    `json:"manga_num_volumes"`
	NumReadChapters    int    `json:"num_read_chapters"`
	NumReadVolumes     int    `json:"num_read_volumes"`
}

// paginator is one MAL API generation's page loop. Each generation differs in
// auth, response shape, and termination signal.
type paginator func(ctx context.Context, username string, contentType models.ContentType) ([]models.Entry, error)

// MALService implements [ListService] for MyAnimeList.
//
// Two API generations are supported: the official v2 API (client ID header for
// public lists, OAuth bearer token for private ones) and the unofficial
// load.json endpoint, which needs no credentials at all.
type MALService struct {
	clientID   string
	bearer     bool
	httpClient *http.Client
	logger     *log.Logger
	limiter    *rate.Limiter
	paginate   paginator

	baseURL       string
	legacyBaseURL string
}

// NewMALService creates a MAL service from the given credentials config.
//
// The official generation requires at least one of client_id or access_token;
// the bearer token wins when both are present. The legacy generation accepts
// either or none.
func NewMALService(cfg shared.MALConfig, logger *log.Logger) (*MALService, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	s := &MALService{
		clientID: cfg.ClientID,
		logger:   logger,
		// One request every 500ms is plenty; this is courtesy, not correctness.
		limiter:       rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		baseURL:       malBaseURL,
		legacyBaseURL: malLegacyBaseURL,
	}

	switch cfg.API {
	case shared.APILegacy:
		s.httpClient = &http.Client{Timeout: requestTimeout}
		s.paginate = s.fetchLegacy
	default:
		if cfg.AccessToken != "" {
			src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken})
			s.httpClient = oauth2.NewClient(context.Background(), src)
			s.httpClient.Timeout = requestTimeout
			s.bearer = true
			logger.Debug("using OAuth access token (private list access supported)", "token_len", len(cfg.AccessToken))
		} else if cfg.ClientID != "" {
			s.httpClient = &http.Client{Timeout: requestTimeout}
			logger.Debug("using client ID only (public lists only)", "client_id_len", len(cfg.ClientID))
		} else {
			return nil, fmt.Errorf("%w: either mal.client_id or mal.access_token is required", shared.ErrMissingCredentials)
		}
		s.paginate = s.fetchOfficial
	}

	return s, nil
}

func (m *MALService) Name() string {
	return "MyAnimeList"
}

// Fetch retrieves all list entries for the user, one page at a time.
func (m *MALService) Fetch(ctx context.Context, username string, contentType models.ContentType) ([]models.Entry, error) {
	if !contentType.Valid() {
		return nil, fmt.Errorf("%w: unknown content type %q", shared.ErrInvalidArgument, contentType)
	}
	return m.paginate(ctx, username, contentType)
}

// fetchOfficial paginates the v2 API, stopping when a page comes back empty or
// without a next cursor.
func (m *MALService) fetchOfficial(ctx context.Context, username string, contentType models.ContentType) ([]models.Entry, error) {
	fields := "list_status,num_episodes"
	if contentType == models.ContentManga {
		fields = "list_status,num_chapters,num_volumes"
	}

	endpoint := fmt.Sprintf("%s/users/%s/%slist", m.baseURL, url.PathEscape(username), contentType)

	var entries []models.Entry
	offset := 0

	for {
		if err := m.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}

		pageURL := fmt.Sprintf("%s?fields=%s&limit=%d&offset=%d", endpoint, url.QueryEscape(fields), malPageLimit, offset)

		var page malListPage
		if err := m.getJSON(ctx, pageURL, username, &page); err != nil {
			return nil, err
		}

		if len(page.Data) == 0 {
			break
		}

		for _, item := range page.Data {
			entry := models.Entry{
				Title:  item.Node.Title,
				Status: models.ParseStatus(item.ListStatus.Status),
			}
			if contentType == models.ContentAnime {
				entry.NumEpisodes = item.Node.NumEpisodes
				entry.NumWatchedEpisodes = item.ListStatus.NumEpisodesWatched
			} else {
				entry.NumChapters = item.Node.NumChapters
				entry.NumVolumes = item.Node.NumVolumes
				entry.NumReadChapters = item.ListStatus.NumChaptersRead
				entry.NumReadVolumes = item.ListStatus.NumVolumesRead
			}
			entries = append(entries, entry)
		}

		if page.Paging.Next == "" {
			break
		}
		offset += malPageLimit
	}

	m.logger.Info("fetched list from MAL API", "username", username, "content_type", contentType, "entries", len(entries))
	return entries, nil
}

// fetchLegacy paginates the unofficial load.json endpoint, which returns a
// flat array and signals the end with a short page.
func (m *MALService) fetchLegacy(ctx context.Context, username string, contentType models.ContentType) ([]models.Entry, error) {
	endpoint := fmt.Sprintf("%s/%slist/%s/load.json", m.legacyBaseURL, contentType, url.PathEscape(username))

	var entries []models.Entry
	offset := 0

	for {
		if err := m.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}

		pageURL := fmt.Sprintf("%s?offset=%d", endpoint, offset)

		var page []malLegacyItem
		if err := m.getJSON(ctx, pageURL, username, &page); err != nil {
			return nil, err
		}

		for _, item := range page {
			status := models.StatusOther
			if item.Status == 1 {
				status = models.StatusWatching
			}
			entry := models.Entry{Status: status}
			if contentType == models.ContentAnime {
				entry.Title = item.AnimeTitle
				entry.NumEpisodes = item.AnimeNumEpisodes
				entry.NumWatchedEpisodes = item.NumWatchedEpisodes
			} else {
				entry.Title = item.MangaTitle
				entry.NumChapters = item.MangaNumChapters
				entry.NumVolumes = item.MangaNumVolumes
				entry.NumReadChapters = item.NumReadChapters
				entry.NumReadVolumes = item.NumReadVolumes
			}
			entries = append(entries, entry)
		}

		if len(page) < malLegacyPageLimit {
			break
		}
		offset += malLegacyPageLimit
	}

	m.logger.Info("fetched list from legacy MAL endpoint", "username", username, "content_type", contentType, "entries", len(entries))
	return entries, nil
}

// getJSON performs an authenticated GET and decodes the JSON response,
// translating MAL's error statuses into sentinel errors.
func (m *MALService) getJSON(ctx context.Context, rawURL, username string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if !m.bearer && m.clientID != "" {
		req.Header.Set("X-MAL-CLIENT-ID", m.clientID)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if m.bearer {
			return fmt.Errorf("%w: your access token is invalid or expired, run `malbox auth` to refresh it: %s", shared.ErrInvalidCredentials, body)
		}
		return fmt.Errorf("%w: your MAL client ID is invalid: %s", shared.ErrInvalidCredentials, body)
	case http.StatusForbidden:
		return fmt.Errorf("%w: user %q may have a private list, use an OAuth access token: %s", shared.ErrPrivateList, username, body)
	case http.StatusNotFound:
		return fmt.Errorf("%w: user %q not found on MyAnimeList", shared.ErrUserNotFound, username)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}

	return nil
}
