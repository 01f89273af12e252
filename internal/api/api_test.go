package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/familyrecipes/backend/internal/api"
	"github.com/familyrecipes/backend/internal/middleware"
	"github.com/familyrecipes/backend/internal/service"
	"github.com/familyrecipes/backend/internal/testhelpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const countriesJSON = `[{"name": {"common": "Israel"}}, {"name": {"common": "France"}}]`

type testApp struct {
	router  *gin.Engine
	db      *gorm.DB
	catalog *testhelpers.MockCatalog
	images  *testhelpers.MockImageStore
	svc     *api.Services
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	require.NoError(t, api.RegisterValidators())

	countrySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(countriesJSON))
	}))
	t.Cleanup(countrySrv.Close)

	db := testhelpers.SetupSQLite(t)
	cat := &testhelpers.MockCatalog{}
	images := &testhelpers.MockImageStore{}
	t.Cleanup(func() {
		cat.AssertExpectations(t)
		images.AssertExpectations(t)
	})

	store := service.NewRecipeStore(db)
	resolver := service.NewResolver(cat, store)
	tracker := service.NewTracker(db)
	auth := service.NewAuthService(db, service.NewCountryCache(countrySrv.URL, time.Hour, nil), service.AuthConfig{
		JWTSecret:  "test-secret",
		SessionTTL: time.Hour,
		BcryptCost: bcrypt.MinCost,
	})

	svc := &api.Services{
		Auth:       auth,
		Composer:   service.NewComposer(cat, resolver, store, tracker, service.ComposerConfig{RandomCount: 3, WatchedLimit: 3}),
		Recipes:    store,
		Resolver:   resolver,
		Tracker:    tracker,
		MealPlans:  service.NewMealPlanService(db),
		Cooking:    service.NewCookingService(service.NewMemoryProgressStore(service.ProgressConfig{TTL: time.Hour, MaxEntries: 10})),
		Images:     images,
		SessionTTL: time.Hour,
	}

	router := gin.New()
	router.Use(middleware.ErrorHandler(), middleware.AuthMiddleware(auth))
	api.RegisterRoutes(router, svc)

	return &testApp{router: router, db: db, catalog: cat, images: images, svc: svc}
}

// do performs a request, optionally JSON-encoding body and sending token.
func (a *testApp) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// signup registers and logs in a user, returning the session token.
func (a *testApp) signup(t *testing.T, username string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/register", map[string]string{
		"username":  username,
		"firstname": "Test",
		"lastname":  "User",
		"country":   "Israel",
		"password":  "pass1!",
		"email":     username + "@example.com",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(t, http.MethodPost, "/login", map[string]string{"username": username, "password": "pass1!"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp api.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
