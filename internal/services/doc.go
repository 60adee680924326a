// Package services defines the [Service] interface for the remote playlist provider and implements it for Spotify.
//
// # Service Interface
//
// The sync needs four remote capabilities: the current user, a track search, playlist creation and
// appending items. [Service] names exactly those, so tests and alternative providers can stand in.
//
// # Spotify Implementation
//
// [SpotifyService] wraps github.com/zmb3/spotify/v2. Authentication uses the OAuth2 authorization
// code flow; the token source refreshes expired access tokens automatically and [SpotifyService.Token]
// returns the latest token so the caller can persist it.
//
// # Rate Limiting
//
// Requests go through [RateLimitTransport]. A 429 response is drained and returned as a
// [*RateLimitError] carrying the Retry-After delay (1s when absent or unparseable). The transport can
// also space requests with a golang.org/x/time/rate limiter, which is off by default.
//
// [Invoke] and [Invoker.Do] retry an operation after exactly the advised delay, forever unless a
// [RetryPolicy] bound is set. Any other error is returned unchanged.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrAPIRequest] : the provider rejected a request
//   - [shared.ErrRateLimitExhausted] : a retry bound was hit
package services
