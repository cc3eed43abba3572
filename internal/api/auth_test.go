package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/npezzotti/go-ideaboard/internal/database"
	"github.com/npezzotti/go-ideaboard/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func findCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestPasswordHashing(t *testing.T) {
	hash, err := hashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, verifyPassword(hash, "s3cret"))
	assert.False(t, verifyPassword(hash, "wrong"))
}

func TestJwtRoundTrip(t *testing.T) {
	app := &BoardApp{signingKey: []byte("test-signing-key")}

	token, err := app.createJwtForSession(types.User{Id: 42}, time.Minute)
	require.NoError(t, err)

	userId, err := app.extractUserIdFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, userId)
}

func TestJwtRejectsWrongKey(t *testing.T) {
	app := &BoardApp{signingKey: []byte("test-signing-key")}
	other := &BoardApp{signingKey: []byte("another-key")}

	token, err := app.createJwtForSession(types.User{Id: 42}, time.Minute)
	require.NoError(t, err)

	_, err = other.extractUserIdFromToken(token)
	assert.Error(t, err)
}

func TestJwtRejectsExpiredToken(t *testing.T) {
	app := &BoardApp{signingKey: []byte("test-signing-key")}

	token, err := app.createJwtForSession(types.User{Id: 42}, -time.Minute)
	require.NoError(t, err)

	_, err = app.extractUserIdFromToken(token)
	assert.Error(t, err)
}

func TestLoginHandler(t *testing.T) {
	passwordHash, err := hashPassword("password")
	require.NoError(t, err)

	dbUser := database.Account{
		Id:           1,
		Username:     "alice",
		EmailAddress: "alice@example.com",
		PasswordHash: passwordHash,
	}

	tcases := []struct {
		name       string
		body       any
		mockUser   database.Account
		mockErr    error
		wantStatus int
		wantCookie bool
	}{
		{
			name:       "successful login sets the session cookie",
			body:       LoginRequest{Email: dbUser.EmailAddress, Password: "password"},
			mockUser:   dbUser,
			wantStatus: http.StatusOK,
			wantCookie: true,
		},
		{
			name:       "wrong password",
			body:       LoginRequest{Email: dbUser.EmailAddress, Password: "nope"},
			mockUser:   dbUser,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown account",
			body:       LoginRequest{Email: "nobody@example.com", Password: "password"},
			mockErr:    sql.ErrNoRows,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "invalid json body",
			body:       "not json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing password",
			body:       LoginRequest{Email: dbUser.EmailAddress},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &database.MockBoardRepository{}
			defer mockRepo.AssertExpectations(t)
			if tc.wantStatus != http.StatusBadRequest {
				mockRepo.On("GetAccountByEmail", mock.Anything).Return(tc.mockUser, tc.mockErr).Once()
			}

			app := newTestApp(t, mockRepo)

			body, err := json.Marshal(tc.body)
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
			app.login(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)

			cookie := findCookie(rr, tokenCookieKey)
			if tc.wantCookie {
				require.NotNil(t, cookie)
				userId, err := app.extractUserIdFromToken(cookie.Value)
				require.NoError(t, err)
				assert.Equal(t, dbUser.Id, userId)
			} else {
				assert.Nil(t, cookie)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	app := newTestApp(t, &database.MockBoardRepository{})

	var gotUserId int
	handler := app.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		gotUserId, _ = UserId(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := app.createJwtForSession(types.User{Id: 7}, time.Minute)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
		req.AddCookie(createJwtCookie(token, time.Minute))
		handler(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 7, gotUserId)
	})

	t.Run("missing cookie", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
		handler(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
		req.AddCookie(createJwtCookie("garbage", time.Minute))
		handler(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
