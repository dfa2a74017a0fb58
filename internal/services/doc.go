// Package services defines the [Service] interface for streaming catalog providers and implements it for Spotify.
//
// # Service Interface
//
// The catalog provider supplies playlist metadata and track listings. Audio
// never comes from the provider; playback uses locally attached files.
//
// # Spotify Implementation
//
// [SpotifyService] uses OAuth2 for authentication with automatic token refresh.
//
// The [oauth2.Config] client refreshes expired tokens using the refresh token.
// Requests are throttled with a [rate.Limiter] so bulk playlist walks stay
// inside the API quota.
//
// # OAuth Service Extension
//
// The [OAuthService] interface extends Service for OAuth providers.
//
// [SpotifyService] implements this for the loopback OAuth flow used by the CLI.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrTokenExpired] : OAuth token rejected (HTTP 401), reauthorization needed
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrPlaylistNotFound] : Playlist ID not found
//
// # API Mappings
//
// Provider JSON is converted to models types:
//   - [SpotifySimplePlaylist] → [models.Playlist]
//   - [SpotifyTrack] → [models.Track] with artists joined ", " and ISRC from external_ids
//
// Playlist items whose track is null (removed from the catalog) are skipped.
package services
