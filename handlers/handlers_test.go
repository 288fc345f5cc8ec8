package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"notes-api/cache"
	"notes-api/db"
	"notes-api/middleware"
	"notes-api/models"
	"notes-api/service"
	"notes-api/token"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

var testTokens = token.NewProvider([]byte("test-secret"), time.Hour)

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

// serve dispatches through a chi router so URL params resolve, with the
// principal already in the request context.
func serve(handler http.HandlerFunc, method, pattern, target string, body any, p *models.Principal) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if p != nil {
		req = req.WithContext(middleware.WithPrincipal(req.Context(), *p))
	}

	r := chi.NewRouter()
	r.MethodFunc(method, pattern, handler)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func newNoteHandler() *NoteHandler {
	return &NoteHandler{Notes: &service.NoteService{}}
}

func newAuthHandler() *AuthHandler {
	return &AuthHandler{Auth: service.NewAuthService(testTokens)}
}
