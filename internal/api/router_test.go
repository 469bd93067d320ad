package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hadrian75/campusfound/internal/auth"
	"github.com/hadrian75/campusfound/internal/database/testutil"
	"github.com/hadrian75/campusfound/internal/models"
	"github.com/hadrian75/campusfound/internal/services"
	"github.com/hadrian75/campusfound/pkg/crypto"
)

type routerEnv struct {
	db     *gorm.DB
	jwt    *auth.JWTService
	router *gin.Engine
}

func newRouterEnv(t *testing.T) *routerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())

	jwtService, err := auth.NewJWTService("0123456789abcdef0123456789abcdef", "campusfound-test")
	require.NoError(t, err)

	tokens, err := services.NewTokenService(db, nil)
	require.NoError(t, err)
	accounts, err := services.NewAccountService(db, tokens, nil)
	require.NoError(t, err)
	items, err := services.NewItemService(db)
	require.NoError(t, err)
	notifications, err := services.NewNotificationService(db)
	require.NoError(t, err)
	claims, err := services.NewClaimService(db, notifications)
	require.NoError(t, err)

	router, err := NewRouter(Dependencies{
		DB:            db,
		JWT:           jwtService,
		Accounts:      accounts,
		Tokens:        tokens,
		Items:         items,
		Claims:        claims,
		Notifications: notifications,
	})
	require.NoError(t, err)

	return &routerEnv{db: db, jwt: jwtService, router: router}
}

func (env *routerEnv) createUser(t *testing.T, username string, admin bool) (*models.User, string) {
	t.Helper()

	hash, err := crypto.HashPassword("pw-not-used")
	require.NoError(t, err)

	user := &models.User{Username: username, PasswordHash: hash, IsActive: true, IsAdmin: admin}
	require.NoError(t, env.db.Create(user).Error)

	token, err := env.jwt.GenerateToken(user.ID, admin)
	require.NoError(t, err)
	return user, token
}

func (env *routerEnv) request(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newRouterEnv(t)

	rec := env.request(t, http.MethodGet, "/api/v1/items", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesRequireAdminFlag(t *testing.T) {
	env := newRouterEnv(t)
	_, token := env.createUser(t, "regular", false)

	rec := env.request(t, http.MethodGet, "/api/v1/admin/claims/pending", token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestClaimAdjudicationFlow(t *testing.T) {
	env := newRouterEnv(t)

	_, finderToken := env.createUser(t, "finder", false)
	_, claimantToken := env.createUser(t, "claimant", false)
	_, adminToken := env.createUser(t, "admin", true)

	rec := env.request(t, http.MethodPost, "/api/v1/items", finderToken, gin.H{
		"name":     "Grey hoodie",
		"location": "Sports hall",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var item models.Item
	require.NoError(t, env.db.First(&item).Error)

	rec = env.request(t, http.MethodPost, "/api/v1/claims", claimantToken, gin.H{
		"item_id": item.ID,
		"details": "It has a coffee stain on the left sleeve",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var claim models.Claim
	require.NoError(t, env.db.First(&claim).Error)

	rec = env.request(t, http.MethodGet, "/api/v1/admin/claims/pending", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), claim.ID)

	rec = env.request(t, http.MethodPost, "/api/v1/admin/claims/"+claim.ID+"/adjudicate", adminToken, gin.H{
		"decision": "Approved",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// A second decision conflicts.
	rec = env.request(t, http.MethodPost, "/api/v1/admin/claims/"+claim.ID+"/adjudicate", adminToken, gin.H{
		"decision": "Rejected",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	var refreshedItem models.Item
	require.NoError(t, env.db.First(&refreshedItem, "id = ?", item.ID).Error)
	require.Equal(t, models.ItemStatusClaimed, refreshedItem.Status)
	require.False(t, refreshedItem.IsActive)

	rec = env.request(t, http.MethodGet, "/api/v1/notifications", claimantToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "approved")
}

func TestHealthEndpoints(t *testing.T) {
	env := newRouterEnv(t)

	rec := env.request(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
