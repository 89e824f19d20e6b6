package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/groupescape/escape-houses/internal/api"
	"github.com/groupescape/escape-houses/internal/auth"
	"github.com/groupescape/escape-houses/internal/database/models"
	"github.com/groupescape/escape-houses/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T) (*api.Router, *gorm.DB, *auth.JWTService) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtService := testutil.NewTestJWTService()
	verifier := auth.NewPasswordVerifier("")
	authService := auth.NewService(db, jwtService, verifier, nil, logger)

	router := api.NewRouter(api.RouterConfig{
		DB:          db,
		Logger:      logger,
		JWTService:  jwtService,
		AuthService: authService,
		PlanPrices:  map[string]float64{"bronze": 450, "silver": 650, "gold": 850},
	})

	return router, db, jwtService
}

func doJSON(t *testing.T, router http.Handler, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRegisterAndLoginFlow(t *testing.T) {
	router, _, _ := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":    "new@example.com",
		"password": "password123",
		"name":     "New User",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "guest", user["role"])

	// Duplicate email
	rec = doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":    "new@example.com",
		"password": "password123",
		"name":     "New User",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Login
	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "new@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decodeBody(t, rec)["token"])

	// Wrong password
	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "new@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	router, _, _ := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":    "short@example.com",
		"password": "short",
		"name":     "Short",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	details := body["details"].(map[string]interface{})
	assert.Contains(t, details, "password")
}

func TestOwnerRegistration(t *testing.T) {
	router, _, _ := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":         "owner@example.com",
		"password":      "password123",
		"name":          "Owner",
		"owner":         true,
		"plan_id":       "gold",
		"property_name": "Willow Barn",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	user := decodeBody(t, rec)["user"].(map[string]interface{})
	assert.Equal(t, "owner", user["role"])
	assert.Equal(t, "gold", user["plan_id"])

	// Owner sign-up without a property name fails validation
	rec = doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":    "owner2@example.com",
		"password": "password123",
		"name":     "Owner Two",
		"owner":    true,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminGate(t *testing.T) {
	router, db, jwtService := setupRouter(t)

	guest := testutil.CreateTestUser(t, db, "guest@example.com", "password123")
	guestToken := testutil.GenerateTestToken(t, jwtService, guest)

	paths := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/admin/dashboard/stats"},
		{http.MethodGet, "/api/memberships"},
		{http.MethodGet, "/api/memberships/stats"},
		{http.MethodGet, "/api/transactions"},
		{http.MethodGet, "/api/transactions/stats"},
		{http.MethodGet, "/api/properties/stats"},
		{http.MethodPost, "/api/properties/1/approve"},
		{http.MethodPost, "/api/properties/1/reject"},
		{http.MethodPost, "/api/properties/1/unpublish"},
		{http.MethodGet, "/api/users"},
		{http.MethodDelete, "/api/users"},
	}

	for _, p := range paths {
		rec := doJSON(t, router, p.method, p.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s without token", p.method, p.path)

		rec = doJSON(t, router, p.method, p.path, guestToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s as guest", p.method, p.path)
	}
}

func TestDashboardStatsEndpoint(t *testing.T) {
	router, db, jwtService := setupRouter(t)

	admin := testutil.CreateTestAdmin(t, db, "admin@example.com", "password123")
	token := testutil.GenerateTestToken(t, jwtService, admin)

	owner := testutil.CreateTestOwner(t, db, "owner@example.com", "password123")
	property := testutil.CreateTestProperty(t, db, owner.ID, "Willow Barn")
	testutil.CreateTestBooking(t, db, property.ID)

	rec := doJSON(t, router, http.MethodGet, "/api/admin/dashboard/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.EqualValues(t, 1, body["totalBookings"])
	assert.EqualValues(t, 2, body["totalUsers"])
	assert.EqualValues(t, 1, body["propertyOwners"])
	assert.EqualValues(t, 0, body["guests"])
}

func TestMembershipEndpoints(t *testing.T) {
	router, db, jwtService := setupRouter(t)

	admin := testutil.CreateTestAdmin(t, db, "admin@example.com", "password123")
	token := testutil.GenerateTestToken(t, jwtService, admin)
	testutil.CreateTestOwner(t, db, "owner@example.com", "password123")

	rec := doJSON(t, router, http.MethodGet, "/api/memberships", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	members := decodeBody(t, rec)["memberships"].([]interface{})
	require.Len(t, members, 1)
	member := members[0].(map[string]interface{})
	assert.Equal(t, "owner@example.com", member["email"])
	assert.Equal(t, 850.0, member["amount"])

	rec = doJSON(t, router, http.MethodGet, "/api/memberships/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody(t, rec)
	assert.EqualValues(t, 1, stats["totalMembers"])
	assert.EqualValues(t, 1, stats["activeMembers"])
	assert.Equal(t, 850.0, stats["totalRevenue"])
	assert.EqualValues(t, 1, stats["newThisMonth"])
}

func TestTransactionEndpoints(t *testing.T) {
	router, db, jwtService := setupRouter(t)

	admin := testutil.CreateTestAdmin(t, db, "admin@example.com", "password123")
	token := testutil.GenerateTestToken(t, jwtService, admin)
	owner := testutil.CreateTestOwner(t, db, "owner@example.com", "password123")
	testutil.CreateTestPayment(t, db, owner.ID, 100, "succeeded")
	testutil.CreateTestPayment(t, db, owner.ID, 50, "pending")
	testutil.CreateTestPayment(t, db, owner.ID, 20, "failed")

	rec := doJSON(t, router, http.MethodGet, "/api/transactions", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")
	transactions := decodeBody(t, rec)["transactions"].([]interface{})
	assert.Len(t, transactions, 3)

	rec = doJSON(t, router, http.MethodGet, "/api/transactions/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody(t, rec)
	assert.Equal(t, 100.0, stats["totalRevenue"])
	assert.Equal(t, 10.0, stats["totalCommission"])
	assert.Equal(t, 90.0, stats["netRevenue"])
	assert.EqualValues(t, 1, stats["successful"])
	assert.EqualValues(t, 1, stats["pending"])
	assert.EqualValues(t, 1, stats["failed"])
}

func TestPropertyModerationEndpoints(t *testing.T) {
	router, db, jwtService := setupRouter(t)

	admin := testutil.CreateTestAdmin(t, db, "admin@example.com", "password123")
	token := testutil.GenerateTestToken(t, jwtService, admin)
	owner := testutil.CreateTestOwner(t, db, "owner@example.com", "password123")
	property := testutil.CreateTestProperty(t, db, owner.ID, "Willow Barn")

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/properties/%d/approve", property.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Property approved successfully", decodeBody(t, rec)["message"])

	var got models.Property
	require.NoError(t, db.First(&got, "id = ?", property.ID).Error)
	assert.Equal(t, models.PropertyStatusApproved, got.Status)
	assert.True(t, got.IsPublished)

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/properties/%d/unpublish", property.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, db.First(&got, "id = ?", property.ID).Error)
	assert.Equal(t, models.PropertyStatusApproved, got.Status)
	assert.False(t, got.IsPublished)

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/properties/%d/reject", property.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, db.First(&got, "id = ?", property.ID).Error)
	assert.Equal(t, models.PropertyStatusRejected, got.Status)
}

func TestPropertyStatsEndpoint(t *testing.T) {
	router, db, jwtService := setupRouter(t)

	admin := testutil.CreateTestAdmin(t, db, "admin@example.com", "password123")
	token := testutil.GenerateTestToken(t, jwtService, admin)
	owner := testutil.CreateTestOwner(t, db, "owner@example.com", "password123")

	testutil.CreateTestProperty(t, db, owner.ID, "Willow Barn")
	approved := testutil.CreateTestProperty(t, db, owner.ID, "The Grange")

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/properties/%d/approve", approved.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/properties/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	stats := decodeBody(t, rec)
	assert.EqualValues(t, 1, stats["pending"])
	assert.EqualValues(t, 1, stats["approved"])
	assert.EqualValues(t, 0, stats["rejected"])
}

func TestPropertyModerationInvalidID(t *testing.T) {
	router, db, jwtService := setupRouter(t)

	admin := testutil.CreateTestAdmin(t, db, "admin@example.com", "password123")
	token := testutil.GenerateTestToken(t, jwtService, admin)

	for _, action := range []string{"approve", "reject", "unpublish"} {
		rec := doJSON(t, router, http.MethodPost, "/api/properties/abc/"+action, token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, action)
		assert.Equal(t, "Invalid property ID", decodeBody(t, rec)["error"])
	}

	// A well-formed id with no matching row is a vacuous success.
	rec := doJSON(t, router, http.MethodPost, "/api/properties/99999/approve", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUserListEndpoint(t *testing.T) {
	router, db, jwtService := setupRouter(t)

	admin := testutil.CreateTestAdmin(t, db, "admin@example.com", "password123")
	token := testutil.GenerateTestToken(t, jwtService, admin)
	testutil.CreateTestUser(t, db, "guest@example.com", "password123")
	testutil.CreateTestOwner(t, db, "owner@example.com", "password123")

	rec := doJSON(t, router, http.MethodGet, "/api/users", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decodeBody(t, rec)["users"].([]interface{})
	assert.Len(t, users, 3)

	rec = doJSON(t, router, http.MethodGet, "/api/users?role=owner", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users = decodeBody(t, rec)["users"].([]interface{})
	assert.Len(t, users, 1)

	rec = doJSON(t, router, http.MethodGet, "/api/users?search=GUEST", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users = decodeBody(t, rec)["users"].([]interface{})
	assert.Len(t, users, 1)
}

func TestUserDeleteEndpoint(t *testing.T) {
	router, db, jwtService := setupRouter(t)

	admin := testutil.CreateTestAdmin(t, db, "admin@example.com", "password123")
	token := testutil.GenerateTestToken(t, jwtService, admin)
	victim := testutil.CreateTestUser(t, db, "victim@example.com", "password123")

	// Missing id
	rec := doJSON(t, router, http.MethodDelete, "/api/users", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Malformed id
	rec = doJSON(t, router, http.MethodDelete, "/api/users?id=not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid user ID", decodeBody(t, rec)["error"])

	// Self-delete is forbidden even though the admin row exists
	rec = doJSON(t, router, http.MethodDelete, "/api/users?id="+admin.ID.String(), token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You cannot delete your own account", decodeBody(t, rec)["error"])

	// Unknown target
	rec = doJSON(t, router, http.MethodDelete, "/api/users?id=00000000-0000-0000-0000-000000000001", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Successful delete removes the user and its credential accounts
	rec = doJSON(t, router, http.MethodDelete, "/api/users?id="+victim.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var userCount, accountCount int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", victim.ID).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Account{}).Where("user_id = ?", victim.ID).Count(&accountCount).Error)
	assert.EqualValues(t, 0, userCount)
	assert.EqualValues(t, 0, accountCount)
}

func TestMeEndpoint(t *testing.T) {
	router, db, jwtService := setupRouter(t)

	user := testutil.CreateTestUser(t, db, "me@example.com", "password123")
	token := testutil.GenerateTestToken(t, jwtService, user)

	rec := doJSON(t, router, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "me@example.com", decodeBody(t, rec)["email"])

	rec = doJSON(t, router, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	router, _, _ := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := setupRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	checks := body["checks"].(map[string]interface{})
	assert.Equal(t, "ok", checks["postgres"])

	rec = doJSON(t, router, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	router, _, _ := setupRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
