package config

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddr(t *testing.T) {
	t.Setenv("APP_PORT", "")
	assert.Equal(t, ":8080", Addr())
	t.Setenv("APP_PORT", "9000")
	assert.Equal(t, ":9000", Addr())
	t.Setenv("APP_PORT", ":9001")
	assert.Equal(t, ":9001", Addr())
}

func TestDevelopment(t *testing.T) {
	t.Setenv("DEVELOPMENT", "1")
	assert.True(t, Development())
	t.Setenv("DEVELOPMENT", "0")
	assert.False(t, Development())
}

func TestNewTimings(t *testing.T) {
	t.Setenv("PLAYBACK_ACTIVATION_MS", "")
	t.Setenv("PLAYBACK_RAY_MS", "10")
	t.Setenv("PLAYBACK_HIT_MS", "0")
	t.Setenv("PLAYBACK_WAVE_GAP_MS", "5")

	timings, err := NewTimings()
	require.NoError(t, err)
	assert.Equal(t, defaultTimings.Activation, timings.Activation)
	assert.Equal(t, 10*time.Millisecond, timings.RayTravel)
	assert.Zero(t, timings.Hit)
	assert.Equal(t, 5*time.Millisecond, timings.WaveGap)

	t.Setenv("PLAYBACK_HIT_MS", "soon")
	_, err = NewTimings()
	assert.Error(t, err)

	t.Setenv("PLAYBACK_HIT_MS", "-3")
	_, err = NewTimings()
	assert.Error(t, err)
}

func TestDbURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://direct")
	url, err := DbURL()
	require.NoError(t, err)
	assert.Equal(t, "postgres://direct", url)
}

func TestDatabaseURL(t *testing.T) {
	t.Setenv("POSTGRES_USER", "chain")
	t.Setenv("POSTGRES_PASSWORD", "p@ss word")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PORT", "5432")
	t.Setenv("POSTGRES_DB", "chainreaction")
	t.Setenv("POSTGRES_SSLMODE", "require")

	cfg, err := NewDatabase()
	require.NoError(t, err)
	assert.Equal(t, "postgresql://chain:p%40ss+word@db:5432/chainreaction?sslmode=require", cfg.URL())

	t.Setenv("POSTGRES_PORT", "99999")
	_, err = NewDatabase()
	assert.Error(t, err)
}

func testJWT(t *testing.T) *JWT {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return NewJWTWithKeys(key, &key.PublicKey, time.Hour)
}

func TestJWTRoundTrip(t *testing.T) {
	j := testJWT(t)
	token, err := j.Sign(NewPlayerClaims(7, "ada", time.Hour))
	require.NoError(t, err)

	claims, err := j.ParsePlayerClaims(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.PlayerID)
	assert.Equal(t, "ada", claims.Username)

	other := testJWT(t)
	_, err = other.ParsePlayerClaims(token)
	assert.Error(t, err)
}

func TestCookiesRoundTrip(t *testing.T) {
	t.Setenv("COOKIES_DOMAIN", "example.com")
	t.Setenv("COOKIES_SECURE", "1")
	t.Setenv("COOKIES_SAMESITE", "lax")

	cookies, err := NewCookies(testJWT(t))
	require.NoError(t, err)
	assert.Equal(t, http.SameSiteLaxMode, cookies.SameSite)

	rec := httptest.NewRecorder()
	require.NoError(t, cookies.Refresh(rec, &PlayerClaims{PlayerID: 3, Username: "bob"}))

	set := rec.Result().Cookies()
	require.Len(t, set, 2)
	assert.False(t, set[0].HttpOnly)
	assert.True(t, set[1].HttpOnly)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range set {
		r.AddCookie(c)
	}
	claims, err := cookies.ParsePlayerClaims(r)
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Username)

	_, err = cookies.ParsePlayerClaims(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Error(t, err)
}

func TestCookiesClear(t *testing.T) {
	t.Setenv("COOKIES_DOMAIN", "example.com")
	cookies, err := NewCookies(testJWT(t))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	cookies.Clear(rec)
	for _, c := range rec.Result().Cookies() {
		assert.Equal(t, -1, c.MaxAge)
	}
}

func TestSetupEngineLog(t *testing.T) {
	t.Setenv("DEVELOPMENT", "1")
	t.Setenv("LOG_FILE", filepath.Join(t.TempDir(), "engine.log"))

	log := logrus.New()
	require.NoError(t, SetupEngineLog(log))
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.NotEmpty(t, log.Hooks[logrus.InfoLevel])

	t.Setenv("DEVELOPMENT", "0")
	t.Setenv("LOG_FILE", "")
	log = logrus.New()
	require.NoError(t, SetupEngineLog(log))
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.Empty(t, log.Hooks[logrus.InfoLevel])
}
