package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/familyrecipes/backend/internal/apperror"
	"github.com/familyrecipes/backend/internal/models"
	"github.com/familyrecipes/backend/internal/types"
)

type stubVerifier struct {
	users map[int64]bool
	dbErr error
}

func (s *stubVerifier) ValidateToken(token string) (*types.TokenClaims, error) {
	switch token {
	case "good":
		return &types.TokenClaims{UserID: 1, SessionID: "sess-1"}, nil
	case "ghost":
		return &types.TokenClaims{UserID: 2, SessionID: "sess-2"}, nil
	default:
		return nil, apperror.Unauthorized("Invalid or expired session")
	}
}

func (s *stubVerifier) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	if s.dbErr != nil {
		return nil, s.dbErr
	}
	if !s.users[id] {
		return nil, apperror.NotFound("User not found")
	}
	return &models.User{ID: id}, nil
}

func newAuthRouter(v SessionVerifier) *gin.Engine {
	router := gin.New()
	router.Use(ErrorHandler(), AuthMiddleware(v))
	router.GET("/open", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c), "session_id": SessionID(c)})
	})
	router.GET("/closed", RequireUser(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c)})
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	router := newAuthRouter(&stubVerifier{users: map[int64]bool{1: true}})

	tests := []struct {
		name   string
		path   string
		setup  func(r *http.Request)
		status int
		body   string
	}{
		{"anonymous open", "/open", func(r *http.Request) {}, http.StatusOK, `{"user_id":0,"session_id":""}`},
		{"bearer", "/open", func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") }, http.StatusOK, `{"user_id":1,"session_id":"sess-1"}`},
		{"cookie", "/open", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"}) }, http.StatusOK, `{"user_id":1,"session_id":"sess-1"}`},
		{"bad token is anonymous", "/open", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusOK, `{"user_id":0,"session_id":""}`},
		{"deleted user is anonymous", "/open", func(r *http.Request) { r.Header.Set("Authorization", "Bearer ghost") }, http.StatusOK, `{"user_id":0,"session_id":""}`},
		{"closed without session", "/closed", func(r *http.Request) {}, http.StatusUnauthorized, `{"message":"Login required","success":false}`},
		{"closed with session", "/closed", func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") }, http.StatusOK, `{"user_id":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestAuthMiddlewareStoreFailure(t *testing.T) {
	router := newAuthRouter(&stubVerifier{dbErr: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
