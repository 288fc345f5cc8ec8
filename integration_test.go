package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"notes-api/cache"
	"notes-api/db"
	"notes-api/models"
	"notes-api/service"
	"notes-api/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var integrationTokens = token.NewProvider([]byte("integration-secret"), time.Hour)

func setupIntegrationTest(t *testing.T) http.Handler {
	t.Helper()

	require.NoError(t, db.InitDB("sqlite", "file::memory:?cache=shared"))
	db.DB.Exec("DELETE FROM notes")
	db.DB.Exec("DELETE FROM users")

	require.NoError(t, cache.InitRedis(""))
	t.Cleanup(func() { cache.Close() })

	return newRouter(integrationTokens)
}

func doJSON(t *testing.T, router http.Handler, method, target, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func registerUser(t *testing.T, router http.Handler, email, password string) models.AuthResponse {
	t.Helper()

	rr := doJSON(t, router, "POST", "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

// seedAdmin creates the first administrator directly through the service,
// since the admin registration endpoint itself requires an admin caller.
func seedAdmin(t *testing.T, email, password string) models.AuthResponse {
	t.Helper()

	resp, err := service.NewAuthService(integrationTokens).RegisterAdmin(email, password)
	require.NoError(t, err)
	return *resp
}

func TestEndToEndScenario(t *testing.T) {
	router := setupIntegrationTest(t)

	// register A
	userA := registerUser(t, router, "a@x.com", "secret1")
	assert.NotEmpty(t, userA.Token)

	// login A again, same identity
	loginRR := doJSON(t, router, "POST", "/api/auth/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, loginRR.Code)
	var loggedIn models.AuthResponse
	require.NoError(t, json.Unmarshal(loginRR.Body.Bytes(), &loggedIn))
	assert.Equal(t, userA.ID, loggedIn.ID)

	// A creates a note
	createRR := doJSON(t, router, "POST", "/api/notes", userA.Token, map[string]string{"title": "T"})
	require.Equal(t, http.StatusCreated, createRR.Code)
	var note models.Note
	require.NoError(t, json.Unmarshal(createRR.Body.Bytes(), &note))
	assert.Equal(t, userA.ID, note.UserID)
	assert.Equal(t, fmt.Sprintf("/api/notes/%d", note.ID), createRR.Header().Get("Location"))

	// A lists their notes
	listRR := doJSON(t, router, "GET", "/api/notes", userA.Token, nil)
	require.Equal(t, http.StatusOK, listRR.Code)
	var notes []models.Note
	require.NoError(t, json.Unmarshal(listRR.Body.Bytes(), &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, note.ID, notes[0].ID)

	// B cannot read A's note
	userB := registerUser(t, router, "b@x.com", "secret2")
	forbiddenRR := doJSON(t, router, "GET", fmt.Sprintf("/api/notes/%d", note.ID), userB.Token, nil)
	assert.Equal(t, http.StatusForbidden, forbiddenRR.Code)

	// admin can
	admin := seedAdmin(t, "root@x.com", "secret3")
	adminGetRR := doJSON(t, router, "GET", fmt.Sprintf("/api/notes/%d", note.ID), admin.Token, nil)
	assert.Equal(t, http.StatusOK, adminGetRR.Code)
}

func TestAuthEndpoints(t *testing.T) {
	router := setupIntegrationTest(t)

	registerUser(t, router, "a@x.com", "secret1")

	t.Run("duplicate registration returns 400", func(t *testing.T) {
		rr := doJSON(t, router, "POST", "/api/auth/register", "", map[string]string{
			"email":    "a@x.com",
			"password": "different9",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("bad login returns 401", func(t *testing.T) {
		rr := doJSON(t, router, "POST", "/api/auth/login", "", map[string]string{
			"email":    "a@x.com",
			"password": "nope999",
		})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("protected endpoint without a token returns 401", func(t *testing.T) {
		rr := doJSON(t, router, "GET", "/api/notes", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAdminEndpoints(t *testing.T) {
	router := setupIntegrationTest(t)

	user := registerUser(t, router, "a@x.com", "secret1")
	admin := seedAdmin(t, "root@x.com", "secret3")

	t.Run("ordinary user cannot list users", func(t *testing.T) {
		rr := doJSON(t, router, "GET", "/api/users", user.Token, nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("admin lists users without password hashes", func(t *testing.T) {
		rr := doJSON(t, router, "GET", "/api/users", admin.Token, nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var users []map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &users))
		require.Len(t, users, 2)
		for _, u := range users {
			assert.Contains(t, u, "id")
			assert.Contains(t, u, "email")
			assert.Contains(t, u, "role")
			assert.NotContains(t, u, "password")
			assert.NotContains(t, u, "password_hash")
		}
	})

	t.Run("ordinary user cannot register an admin", func(t *testing.T) {
		rr := doJSON(t, router, "POST", "/api/auth/register/admin", user.Token, map[string]string{
			"email":    "wannabe@x.com",
			"password": "secret4",
		})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("admin can register another admin", func(t *testing.T) {
		rr := doJSON(t, router, "POST", "/api/auth/register/admin", admin.Token, map[string]string{
			"email":    "root2@x.com",
			"password": "secret5",
		})
		require.Equal(t, http.StatusCreated, rr.Code)

		var resp models.AuthResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, models.RoleAdmin, resp.Role)
	})
}

func TestNotesLifecycleOverHTTP(t *testing.T) {
	router := setupIntegrationTest(t)

	user := registerUser(t, router, "a@x.com", "secret1")
	admin := seedAdmin(t, "root@x.com", "secret3")

	createRR := doJSON(t, router, "POST", "/api/notes", user.Token,
		map[string]string{"title": "T", "content": "original"})
	require.Equal(t, http.StatusCreated, createRR.Code)
	var note models.Note
	require.NoError(t, json.Unmarshal(createRR.Body.Bytes(), &note))
	target := fmt.Sprintf("/api/notes/%d", note.ID)

	t.Run("admin list reflects a user's write immediately", func(t *testing.T) {
		// warm the admin:all partition
		first := doJSON(t, router, "GET", "/api/notes", admin.Token, nil)
		require.Equal(t, http.StatusOK, first.Code)
		var before []models.Note
		require.NoError(t, json.Unmarshal(first.Body.Bytes(), &before))

		extra := doJSON(t, router, "POST", "/api/notes", user.Token, map[string]string{"title": "T2"})
		require.Equal(t, http.StatusCreated, extra.Code)

		second := doJSON(t, router, "GET", "/api/notes", admin.Token, nil)
		require.Equal(t, http.StatusOK, second.Code)
		var after []models.Note
		require.NoError(t, json.Unmarshal(second.Body.Bytes(), &after))
		assert.Len(t, after, len(before)+1)
	})

	t.Run("patch with only title keeps content", func(t *testing.T) {
		rr := doJSON(t, router, "PATCH", target, user.Token, map[string]string{"title": "Patched"})
		require.Equal(t, http.StatusOK, rr.Code)

		var patched models.Note
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &patched))
		assert.Equal(t, "Patched", patched.Title)
		assert.Equal(t, "original", patched.Content)
	})

	t.Run("repeated get returns identical bytes", func(t *testing.T) {
		first := doJSON(t, router, "GET", target, user.Token, nil)
		second := doJSON(t, router, "GET", target, user.Token, nil)
		require.Equal(t, http.StatusOK, first.Code)
		require.Equal(t, http.StatusOK, second.Code)
		assert.Equal(t, first.Body.String(), second.Body.String())
	})

	t.Run("delete then get returns 404", func(t *testing.T) {
		rr := doJSON(t, router, "DELETE", target, user.Token, nil)
		require.Equal(t, http.StatusNoContent, rr.Code)

		rr = doJSON(t, router, "GET", target, user.Token, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
