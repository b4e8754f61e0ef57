package credentials

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *CookieStore {
	t.Helper()
	key, err := GenerateKey()
	require.NoError(t, err)
	cipher, err := NewAESCipher(key)
	require.NoError(t, err)
	return NewCookieStore(cipher)
}

// writeCookie runs store.Write in a gin context and returns the Set-Cookie
// header it produced.
func writeCookie(t *testing.T, store *CookieStore, creds *Credentials) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/save-credentials", nil)

	require.NoError(t, store.Write(c, creds))
	header := rec.Header().Get("Set-Cookie")
	require.NotEmpty(t, header)
	return header
}

// readCookie runs store.Read against a request carrying the given cookie
// header.
func readCookie(t *testing.T, store *CookieStore, cookieHeader string) (*Credentials, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/credentials", nil)
	if cookieHeader != "" {
		c.Request.Header.Set("Cookie", strings.Split(cookieHeader, ";")[0])
	}
	return store.Read(c)
}

func TestCookieRoundTrip(t *testing.T) {
	store := newTestStore(t)
	creds := &Credentials{
		APIKey:        "sk_test",
		MPAN:          "1200012345678",
		SerialNumber:  "21E123",
		AccountNumber: "A-123",
	}

	header := writeCookie(t, store, creds)
	got, err := readCookie(t, store, header)
	require.NoError(t, err)
	assert.Equal(t, creds, got)
}

func TestCookieAttributes(t *testing.T) {
	store := newTestStore(t)
	header := writeCookie(t, store, &Credentials{APIKey: "k", AccountNumber: "A-1"})

	assert.Contains(t, header, CookieName+"=")
	assert.Contains(t, header, "HttpOnly")
	assert.Contains(t, header, "SameSite=Strict")
	assert.Contains(t, header, "Max-Age=2592000")
	assert.NotContains(t, header, "sk_test")
}

func TestReadMissingCookie(t *testing.T) {
	store := newTestStore(t)
	_, err := readCookie(t, store, "")
	assert.ErrorIs(t, err, ErrNoCookie)
}

func TestReadCorruptedCookie(t *testing.T) {
	store := newTestStore(t)
	_, err := readCookie(t, store, CookieName+"=definitely-not-ciphertext")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoCookie)
}

func TestReadCookieFromDifferentKey(t *testing.T) {
	// Simulates a server restart with a regenerated ephemeral key.
	oldStore := newTestStore(t)
	newStore := newTestStore(t)

	header := writeCookie(t, oldStore, &Credentials{APIKey: "k", AccountNumber: "A-1"})
	_, err := readCookie(t, newStore, header)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoCookie)
}

func TestHasGas(t *testing.T) {
	assert.False(t, (&Credentials{}).HasGas())
	assert.False(t, (&Credentials{MPRN: "3045678"}).HasGas())
	assert.False(t, (&Credentials{GasSerialNumber: "G4X"}).HasGas())
	assert.True(t, (&Credentials{MPRN: "3045678", GasSerialNumber: "G4X"}).HasGas())
}
