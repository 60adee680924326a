// package services defines interface Service for the remote playlist provider
//
// Spotify, via github.com/zmb3/spotify/v2
package services

import (
	"context"

	"github.com/desertthunder/hottest100/internal/models"
	"golang.org/x/oauth2"
)

// Service is the remote capability set the playlist sync needs.
type Service interface {
	// CurrentUser returns the authenticated account.
	CurrentUser(ctx context.Context) (*models.User, error)

	// SearchTracks runs a track search and returns at most limit hits. No hits is not an error.
	SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error)

	// CreatePlaylist creates a new public playlist owned by userID.
	CreatePlaylist(ctx context.Context, userID, name, description string) (*models.Playlist, error)

	// AddItems appends up to [MaxItemsPerRequest] track URIs to a playlist, in order.
	AddItems(ctx context.Context, playlistID string, uris []string) error

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// OAuthService extends [Service] for providers using the authorization code flow.
type OAuthService interface {
	Service
	GetAuthURL(state string) string
	GetOAuthConfig() *oauth2.Config
	Authenticate(ctx context.Context, token *oauth2.Token) error
	Token() (*oauth2.Token, error)
}

// MaxItemsPerRequest is the provider's cap on URIs per add-items call.
const MaxItemsPerRequest = 100
