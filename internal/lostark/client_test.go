package lostark

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/prk7048/LOA-AGENT/internal/engine"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *observer.ObservedLogs) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	core, logs := observer.New(zapcore.WarnLevel)
	return NewClient("secret", WithBaseURL(srv.URL+"/"), WithLogger(zap.New(core))), logs
}

func TestFetchProfile(t *testing.T) {
	c, logs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/armories/characters/Eunje/profiles", r.URL.Path)
		assert.Equal(t, "bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{
			"CharacterName": "Eunje",
			"ServerName": "Luperon",
			"CharacterClassName": "Bard",
			"ItemAvgLevel": "1,680.83",
			"CombatPower": "1,743.76"
		}`))
	})

	p, err := c.FetchProfile(context.Background(), "Eunje")
	require.NoError(t, err)
	assert.Equal(t, engine.Profile{
		Name:        "Eunje",
		Server:      "Luperon",
		Class:       "Bard",
		ItemLevel:   1680.83,
		CombatPower: 1743.76,
	}, *p)
	assert.Zero(t, logs.Len())
}

func TestFetchProfileFallsBackToAttackPower(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"CharacterName": "Eunje",
			"ItemAvgLevel": 1660,
			"Stats": [{"Type": "치명", "Value": "600"}, {"Type": "공격력", "Value": "98,765"}]
		}`))
	})

	p, err := c.FetchProfile(context.Background(), "Eunje")
	require.NoError(t, err)
	assert.Equal(t, 1660.0, p.ItemLevel)
	assert.Equal(t, 98765.0, p.CombatPower)
}

func TestFetchProfileBadNumberDefaultsToZero(t *testing.T) {
	c, logs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"CharacterName": "Eunje", "ItemAvgLevel": "1,670.00", "CombatPower": "n/a"}`))
	})

	p, err := c.FetchProfile(context.Background(), "Eunje")
	require.NoError(t, err)
	assert.Equal(t, 1670.0, p.ItemLevel)
	assert.Zero(t, p.CombatPower)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "unparsable stat, using zero", logs.All()[0].Message)
}

func TestFetchProfileNotFound(t *testing.T) {
	for name, h := range map[string]http.HandlerFunc{
		"404":  func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) },
		"null": func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("null")) },
		"empty": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
	} {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestClient(t, h)
			_, err := c.FetchProfile(context.Background(), "Ghost")
			assert.ErrorIs(t, err, engine.ErrNotFound)
		})
	}
}

func TestFetchProfileUnavailable(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	_, err := c.FetchProfile(context.Background(), "Eunje")
	assert.ErrorIs(t, err, engine.ErrSourceUnavailable)

	c, _ = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})
	_, err = c.FetchProfile(context.Background(), "Eunje")
	assert.ErrorIs(t, err, engine.ErrSourceUnavailable)

	down := NewClient("k", WithBaseURL("http://127.0.0.1:1"))
	_, err = down.FetchProfile(context.Background(), "Eunje")
	assert.ErrorIs(t, err, engine.ErrSourceUnavailable)
}

func TestFetchRoster(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/characters/Eunje/siblings", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"CharacterName": "Eunje", "ServerName": "Luperon", "CharacterClassName": "Bard", "ItemAvgLevel": "1,680.00"},
			{"CharacterName": "", "ItemAvgLevel": "1,000.00"},
			{"CharacterName": "Alt", "ServerName": "Luperon", "CharacterClassName": "Paladin", "ItemAvgLevel": "1,640.50"}
		]`))
	})

	entries, err := c.FetchRoster(context.Background(), "Eunje")
	require.NoError(t, err)
	assert.Equal(t, []engine.RosterEntry{
		{Name: "Eunje", Server: "Luperon", Class: "Bard", ItemLevel: 1680},
		{Name: "Alt", Server: "Luperon", Class: "Paladin", ItemLevel: 1640.5},
	}, entries)
}

func TestNumberFloat(t *testing.T) {
	v, err := Number("1,234,567.5").Float("x")
	require.NoError(t, err)
	assert.Equal(t, 1234567.5, v)

	v, err = Number("").Float("x")
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = Number("abc").Float("x")
	assert.True(t, engine.IsValidation(err))
}
