package spotify

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/exp/rand"
)

const authorizeEndpoint = "https://accounts.spotify.com/authorize"

// HandleAuthPage renders the one-time setup page that kicks off the
// authorization code flow. This only ever gets used manually when a new
// refresh token needs to be minted.
func (c *Client) HandleAuthPage(w http.ResponseWriter, r *http.Request) {
	clientId := c.cfg.PublicClientId
	if clientId == "" {
		clientId = c.cfg.ClientId
	}

	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", clientId)
	params.Set("scope", "user-read-currently-playing user-read-playback-state")
	params.Set("redirect_uri", c.cfg.RedirectUri)
	params.Set("state", generateRandomString(16))

	authUrl := fmt.Sprintf("%s?%s", authorizeEndpoint, params.Encode())

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
  <head><title>Spotify Authentication</title></head>
  <body style="font-family: monospace; padding: 40px;">
    <h1>Spotify Authentication</h1>
    <p>Click the link below to authenticate with Spotify</p>
    <a href="%s">Authenticate with Spotify</a>
  </body>
</html>
`, authUrl)
}

// HandleCallback exchanges the authorization code for tokens and shows
// the refresh token so it can be copied into .env. Nothing is stored
// server side.
func (c *Client) HandleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		renderJSONError(w, http.StatusBadRequest, "No code provided")
		return
	}

	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("redirect_uri", c.cfg.RedirectUri)

	req, err := http.NewRequest("POST", tokenEndpoint, strings.NewReader(data.Encode()))
	if err != nil {
		renderJSONError(w, http.StatusInternalServerError, "Failed to get token")
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+basicAuth(c.cfg.ClientId, c.cfg.ClientSecret))

	res, err := c.httpClient.Do(req)
	if err != nil {
		renderJSONError(w, http.StatusInternalServerError, "Failed to get token")
		return
	}
	defer res.Body.Close()

	var token tokenResponse
	if err := json.NewDecoder(res.Body).Decode(&token); err != nil {
		renderJSONError(w, http.StatusInternalServerError, "Failed to get token")
		return
	}
	if token.Error != "" {
		renderJSONError(w, http.StatusBadRequest, token.Error)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
  <head><title>Spotify Auth Success</title></head>
  <body style="font-family: monospace; padding: 40px;">
    <h1>Authentication successful</h1>
    <h2>Copy this refresh token into your .env file:</h2>
    <div style="background: #f4f4f4; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <code style="font-size: 14px; word-break: break-all;">SPOTIFY_REFRESH_TOKEN=%s</code>
    </div>
    <p>Restart the server once it's in place. You can close this window now.</p>
  </body>
</html>
`, token.RefreshToken)
}

func renderJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func generateRandomString(length int) string {
	rand.Seed(uint64(time.Now().UnixNano()))
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
