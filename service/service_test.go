package service

import (
	"testing"
	"time"

	"notes-api/cache"
	"notes-api/db"
	"notes-api/models"
	"notes-api/token"

	"github.com/stretchr/testify/require"
)

var testTokens = token.NewProvider([]byte("test-secret"), time.Hour)

// setupTest gives each test a clean store and a fresh embedded cache.
func setupTest(t *testing.T) {
	t.Helper()

	require.NoError(t, db.InitDB("sqlite", "file::memory:?cache=shared"))
	db.DB.Exec("DELETE FROM notes")
	db.DB.Exec("DELETE FROM users")

	require.NoError(t, cache.InitRedis(""))
	t.Cleanup(func() { cache.Close() })
}

func createUser(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, db.DB.Create(user).Error)
	return user
}

func principalFor(user *models.User) models.Principal {
	return models.Principal{UserID: user.ID, Role: user.Role}
}
