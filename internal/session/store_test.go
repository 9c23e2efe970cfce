package session

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestStoreCreateAndGet(t *testing.T) {
	store := NewStore(testLogger(), "secret", 24*time.Hour)

	sess := store.Create("admin")
	require.NotEmpty(t, sess.Token)
	assert.Equal(t, "admin", sess.Username)
	assert.Equal(t, sess.LoginTime.Add(24*time.Hour), sess.ExpiresAt)

	got, ok := store.Get(sess.Token)
	require.True(t, ok)
	assert.Equal(t, sess.Username, got.Username)
}

func TestStoreDestroyIsIdempotent(t *testing.T) {
	store := NewStore(testLogger(), "secret", time.Hour)

	sess := store.Create("admin")
	store.Destroy(sess.Token)
	store.Destroy(sess.Token) // second logout is not an error

	_, ok := store.Get(sess.Token)
	assert.False(t, ok)
}

func TestStoreExpiry(t *testing.T) {
	store := NewStore(testLogger(), "secret", time.Hour)
	sess := store.Create("admin")

	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, ok := store.Get(sess.Token)
	assert.False(t, ok, "expired session must be reported absent")
}

func TestStorePurgeExpired(t *testing.T) {
	store := NewStore(testLogger(), "secret", time.Hour)
	store.Create("admin")
	store.Create("admin")

	assert.Equal(t, 0, store.PurgeExpired())

	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	assert.Equal(t, 2, store.PurgeExpired())
}

func TestSignedCookieRoundTrip(t *testing.T) {
	store := NewStore(testLogger(), "secret", time.Hour)
	sess := store.Create("admin")

	value := store.SignToken(sess.Token)
	token, ok := store.VerifyCookie(value)
	require.True(t, ok)
	assert.Equal(t, sess.Token, token)
}

func TestSignedCookieRejectsTampering(t *testing.T) {
	store := NewStore(testLogger(), "secret", time.Hour)
	sess := store.Create("admin")
	value := store.SignToken(sess.Token)

	tests := []struct {
		name  string
		value string
	}{
		{"empty", ""},
		{"no separator", sess.Token},
		{"corrupted tag", value + "ff"},
		{"foreign secret", NewStore(testLogger(), "other", time.Hour).SignToken(sess.Token)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := store.VerifyCookie(tt.value)
			assert.False(t, ok)
		})
	}
}

func TestStaticCredentials(t *testing.T) {
	creds := NewStaticCredentials("admin", "phong123")

	tests := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{"valid pair", "admin", "phong123", true},
		{"wrong password", "admin", "wrongpass", false},
		{"wrong username", "root", "phong123", false},
		{"both wrong", "root", "toor", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, creds.Verify(tt.username, tt.password))
		})
	}
}
