package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"onlinemart-be/internal/apperr"
	"onlinemart-be/internal/httputil"
	"onlinemart-be/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Run("Success returns token", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("RegisterBuyer", mock.Anything, "alice", "alice@example.com", "s3cret-pass").
			Return(user.User{ID: 1, Username: "alice", Role: user.RoleBuyer}, nil)

		body := `{"username":"alice","email":"alice@example.com","password":"s3cret-pass"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		rec := env.do(req, "10.1.0.1:1000")

		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp authResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "BUYER", resp.Role)
		assert.Equal(t, "alice", resp.Username)
		assert.Equal(t, int64(1), resp.UserID)
	})

	t.Run("Validation failure lists each field", func(t *testing.T) {
		env := newTestEnv()

		body := `{"username":"  ","email":"not-an-email","password":"short"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		rec := env.do(req, "10.1.0.2:1000")

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp httputil.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ValidationError", resp.Error)
		assert.Len(t, resp.Details, 3)
		assert.False(t, resp.Timestamp.IsZero())
		env.users.AssertNotCalled(t, "RegisterBuyer")
	})

	t.Run("Duplicate username maps to 409", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("RegisterBuyer", mock.Anything, "alice", "alice@example.com", "s3cret-pass").
			Return(user.User{}, apperr.Conflict("Username is already in use."))

		body := `{"username":"alice","email":"alice@example.com","password":"s3cret-pass"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		rec := env.do(req, "10.1.0.3:1000")

		assert.Equal(t, http.StatusConflict, rec.Code)

		var resp httputil.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Conflict", resp.Error)
		assert.Equal(t, "Username is already in use.", resp.Message)
	})

	t.Run("Malformed body", func(t *testing.T) {
		env := newTestEnv()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{not json"))
		rec := env.do(req, "10.1.0.4:1000")

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp httputil.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Malformed request body.", resp.Message)
	})
}

func TestLogin(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("Authenticate", mock.Anything, "alice", "s3cret-pass").
			Return(user.User{ID: 1, Username: "alice", Role: user.RoleBuyer}, nil)

		body := `{"usernameOrEmail":"alice","password":"s3cret-pass"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		rec := env.do(req, "10.1.0.5:1000")

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp authResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)

		claims, err := env.tokens.Parse(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Subject)
		assert.Equal(t, "BUYER", claims.Role)
	})

	t.Run("Bad credentials map to 401", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("Authenticate", mock.Anything, "alice", "wrong-pass").
			Return(user.User{}, apperr.InvalidCredentials("Incorrect credentials, please try again."))

		body := `{"usernameOrEmail":"alice","password":"wrong-pass"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		rec := env.do(req, "10.1.0.6:1000")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var resp httputil.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "InvalidCredentials", resp.Error)
	})

	t.Run("Missing fields rejected before service", func(t *testing.T) {
		env := newTestEnv()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`))
		rec := env.do(req, "10.1.0.7:1000")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env.users.AssertNotCalled(t, "Authenticate")
	})
}
