// Package server provides the local HTTP server used to complete the Spotify OAuth flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [BasicRouter] matches paths exactly and filters by method.
// [LogRequests] is the only middleware; it never logs query strings.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback. It validates the state
// parameter (CSRF protection), exchanges the code for a token and sends the result through a
// channel. Only the first callback is processed.
//
// The callback path comes from the configured redirect URI, so the handler serves whatever
// path was registered with Spotify (e.g. http://127.0.0.1:8888/callback).
package server
