// Package services implements the two remote API clients the job depends on.
//
// # List Service Interface
//
// [ListService] abstracts over list-tracking providers; [MALService] is the
// only implementation and supports two MyAnimeList API generations.
//
// # MyAnimeList Implementation
//
// [MALService] paginates the official v2 API with limit/offset parameters,
// stopping when a page comes back empty or without a paging.next cursor.
// Authentication is either an X-MAL-CLIENT-ID header (public lists) or an
// OAuth bearer token via [oauth2.NewClient] (private lists).
//
// The legacy generation hits the unofficial load.json endpoint instead: a
// flat JSON array served in fixed pages of 300, terminated by a short page,
// with no authentication at all. The generation is chosen at construction
// from the mal.api config key.
//
// A [rate.Limiter] spaces page requests half a second apart as a courtesy to
// the API. There is no retry: any failed page fails the whole fetch.
//
// # Gist Implementation
//
// [GistService] implements [Publisher] with a single PATCH to the GitHub
// gists API, replacing one named file's content. Repeating the call with the
// same content changes nothing remotely.
//
// # Error Handling
//
// Services use sentinel errors from the shared package:
//   - [shared.ErrMissingCredentials] : no MAL auth method configured
//   - [shared.ErrInvalidCredentials] : 401 from either API
//   - [shared.ErrPrivateList] : 403, list requires token auth
//   - [shared.ErrUserNotFound] : 404 for the username
//   - [shared.ErrAPIRequest] : any other fetch failure
//   - [shared.ErrPublishFailed] : gist PATCH failure
package services
