// Spotify API implementation of [Service]
package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/hottest100/internal/models"
	"github.com/desertthunder/hottest100/internal/shared"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

// Scopes requested during authorization.
var Scopes = []string{
	spotifyauth.ScopePlaylistModifyPublic,
	spotifyauth.ScopePlaylistModifyPrivate,
}

// SpotifyService implements [OAuthService] on top of [spotify.Client].
//
// Every request passes through a [RateLimitTransport] so 429s surface as [*RateLimitError].
type SpotifyService struct {
	config  *oauth2.Config
	source  oauth2.TokenSource
	client  *spotify.Client
	base    http.RoundTripper
	baseURL string
	rps     float64
}

// SpotifyOption configures a [SpotifyService].
type SpotifyOption func(*SpotifyService)

// WithRequestsPerSecond enables client-side throttling. 0 disables it.
func WithRequestsPerSecond(rps float64) SpotifyOption {
	return func(s *SpotifyService) { s.rps = rps }
}

// WithAPIBaseURL points the client at another API root (must end in "/").
func WithAPIBaseURL(u string) SpotifyOption {
	return func(s *SpotifyService) { s.baseURL = u }
}

// WithBaseTransport sets the transport below the OAuth and rate limit layers.
func WithBaseTransport(rt http.RoundTripper) SpotifyOption {
	return func(s *SpotifyService) { s.base = rt }
}

// NewSpotifyService creates an unauthenticated service from the configured credentials.
func NewSpotifyService(creds shared.SpotifyConfig, opts ...SpotifyOption) (*SpotifyService, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	s := &SpotifyService{
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURI,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyauth.AuthURL,
				TokenURL: spotifyauth.TokenURL,
			},
		},
		base: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GetOAuthConfig exposes the OAuth2 config for the callback handler's code exchange.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// Authenticate builds the API client around token. Expired tokens are refreshed on demand.
func (s *SpotifyService) Authenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil {
		return shared.ErrNotAuthenticated
	}

	s.source = s.config.TokenSource(ctx, token)
	transport := NewRateLimitTransport(&oauth2.Transport{Source: s.source, Base: s.base}, s.rps)

	var opts []spotify.ClientOption
	if s.baseURL != "" {
		opts = append(opts, spotify.WithBaseURL(s.baseURL))
	}
	s.client = spotify.New(&http.Client{Transport: transport}, opts...)
	return nil
}

// Token returns the current (possibly refreshed) token for persisting.
func (s *SpotifyService) Token() (*oauth2.Token, error) {
	if s.source == nil {
		return nil, shared.ErrNotAuthenticated
	}
	return s.source.Token()
}

func (s *SpotifyService) CurrentUser(ctx context.Context) (*models.User, error) {
	if s.client == nil {
		return nil, shared.ErrNotAuthenticated
	}

	u, err := s.client.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: current user: %w", shared.ErrAPIRequest, err)
	}
	return &models.User{ID: u.ID, DisplayName: u.DisplayName}, nil
}

func (s *SpotifyService) SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error) {
	if s.client == nil {
		return nil, shared.ErrNotAuthenticated
	}
	if limit <= 0 {
		limit = 1
	}

	res, err := s.client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: search %q: %w", shared.ErrAPIRequest, query, err)
	}
	if res == nil || res.Tracks == nil {
		return nil, nil
	}

	tracks := make([]models.Track, 0, len(res.Tracks.Tracks))
	for _, t := range res.Tracks.Tracks {
		artists := make([]string, 0, len(t.Artists))
		for _, a := range t.Artists {
			artists = append(artists, a.Name)
		}
		tracks = append(tracks, models.Track{
			ID:     string(t.ID),
			URI:    string(t.URI),
			Title:  t.Name,
			Artist: strings.Join(artists, ", "),
		})
	}
	return tracks, nil
}

func (s *SpotifyService) CreatePlaylist(ctx context.Context, userID, name, description string) (*models.Playlist, error) {
	if s.client == nil {
		return nil, shared.ErrNotAuthenticated
	}

	p, err := s.client.CreatePlaylistForUser(ctx, userID, name, description, true, false)
	if err != nil {
		return nil, fmt.Errorf("%w: create playlist %q: %w", shared.ErrAPIRequest, name, err)
	}
	return &models.Playlist{ID: string(p.ID), Name: p.Name, URL: p.ExternalURLs["spotify"]}, nil
}

func (s *SpotifyService) AddItems(ctx context.Context, playlistID string, uris []string) error {
	if s.client == nil {
		return shared.ErrNotAuthenticated
	}
	if len(uris) == 0 {
		return nil
	}
	if len(uris) > MaxItemsPerRequest {
		return fmt.Errorf("%w: %d items exceeds %d per request", shared.ErrInvalidArgument, len(uris), MaxItemsPerRequest)
	}

	ids := make([]spotify.ID, len(uris))
	for i, uri := range uris {
		ids[i] = TrackID(uri)
	}

	if _, err := s.client.AddTracksToPlaylist(ctx, spotify.ID(playlistID), ids...); err != nil {
		return fmt.Errorf("%w: add %d items to %s: %w", shared.ErrAPIRequest, len(uris), playlistID, err)
	}
	return nil
}

// TrackID extracts the ID from a "spotify:track:{id}" URI. Bare IDs pass through.
func TrackID(uri string) spotify.ID {
	if i := strings.LastIndex(uri, ":"); i >= 0 {
		return spotify.ID(uri[i+1:])
	}
	return spotify.ID(uri)
}
