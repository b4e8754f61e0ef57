package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieName is the client-side cookie the dashboard stores credentials in.
const CookieName = "octopus_credentials"

// CookieMaxAge matches the 30-day expiry of the dashboard cookie.
const CookieMaxAge = 30 * 24 * time.Hour

// ErrNoCookie is returned by Read when the request carries no credentials
// cookie at all, as opposed to one that cannot be decrypted.
var ErrNoCookie = errors.New("no credentials cookie")

// CookieStore reads and writes encrypted Credentials through an http-only,
// same-site-strict cookie. Nothing is persisted server-side.
type CookieStore struct {
	cipher Cipher
	maxAge time.Duration
}

// NewCookieStore creates a store backed by the given cipher.
func NewCookieStore(cipher Cipher) *CookieStore {
	return &CookieStore{
		cipher: cipher,
		maxAge: CookieMaxAge,
	}
}

// Write encrypts creds and sets the credentials cookie on the response.
func (s *CookieStore) Write(c *gin.Context, creds *Credentials) error {
	payload, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	encrypted, err := s.cipher.Encrypt(payload)
	if err != nil {
		return fmt.Errorf("failed to encrypt credentials: %w", err)
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CookieName, encrypted, int(s.maxAge.Seconds()), "/", "", false, true)
	return nil
}

// Read decrypts the credentials cookie from the request. Returns ErrNoCookie
// when the cookie is absent; any other error means the cookie exists but
// could not be decrypted or decoded.
func (s *CookieStore) Read(c *gin.Context) (*Credentials, error) {
	value, err := c.Cookie(CookieName)
	if err != nil {
		return nil, ErrNoCookie
	}
	payload, err := s.cipher.Decrypt(value)
	if err != nil {
		return nil, fmt.Errorf("unreadable credentials cookie: %w", err)
	}
	var creds Credentials
	if err := json.Unmarshal(payload, &creds); err != nil {
		return nil, fmt.Errorf("malformed credentials cookie: %w", err)
	}
	return &creds, nil
}
