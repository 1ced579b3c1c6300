package server

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/projectgate/internal/server/auth"
	"github.com/dmitrijs2005/projectgate/internal/server/config"
	"github.com/dmitrijs2005/projectgate/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.HashWorkFactor = 4
	return c
}

func TestNewAuthDeps_FromDefaults(t *testing.T) {
	deps, err := newAuthDeps(testConfig())
	require.NoError(t, err)

	hash, err := deps.Hasher.Hash("pw")
	require.NoError(t, err)
	assert.True(t, deps.Hasher.Verify("pw", hash))

	assert.Equal(t, 30*time.Minute, deps.Codec.TTL())
	now := time.Now()
	tok, err := deps.Codec.Issue(auth.Identity{Subject: "bob", AccountID: "1", Role: models.RoleAdmin}, now)
	require.NoError(t, err)
	_, err = deps.Codec.Decode(tok, now)
	assert.NoError(t, err)

	assert.NoError(t, deps.Gate.Authorize(&auth.Principal{Role: models.RoleAdmin}, models.RoleAdmin))
	assert.NotNil(t, deps.Clock)
}

func TestNewAuthDeps_Argon2id(t *testing.T) {
	c := testConfig()
	c.HashAlgorithm = config.HashArgon2id
	c.HashWorkFactor = 1

	deps, err := newAuthDeps(c)
	require.NoError(t, err)
	hash, err := deps.Hasher.Hash("pw")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")
}

func TestNewAuthDeps_Errors(t *testing.T) {
	c := testConfig()
	c.HashWorkFactor = 99
	_, err := newAuthDeps(c)
	assert.Error(t, err)

	c = testConfig()
	c.SecretKey = ""
	_, err = newAuthDeps(c)
	assert.Error(t, err)
}

func TestNewApp_RejectsInvalidConfig(t *testing.T) {
	c := testConfig()
	c.TokenTTL = 0

	_, err := NewApp(context.Background(), c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config error")
}

func TestNewApp_UnreachableDatabase(t *testing.T) {
	c := testConfig()
	c.DatabaseDSN = "postgres://nobody@127.0.0.1:1/none?connect_timeout=1"

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := NewApp(ctx, c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db init error")
}
