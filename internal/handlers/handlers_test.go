package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/macro-tracker/internal/database"
	"github.com/example/macro-tracker/internal/database/dbtest"
	"github.com/example/macro-tracker/internal/models"
	"github.com/example/macro-tracker/internal/repository"
	"github.com/example/macro-tracker/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
}

type response struct {
	Code    int
	Success bool                   `json:"success"`
	Data    json.RawMessage        `json:"data"`
	Error   map[string]interface{} `json:"error"`
}

func (r response) errorCode() string {
	code, _ := r.Error["code"].(string)
	return code
}

func (r response) errorMessage() string {
	msg, _ := r.Error["message"].(string)
	return msg
}

func (r response) object(t *testing.T) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(r.Data, &out))
	return out
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := dbtest.New(t)
	_, err := database.SeedDefaultFoods(db)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	svc := Services{
		Auth:    services.NewAuthService(userRepo, "handler-test-secret", time.Hour),
		Users:   services.NewUserService(userRepo),
		Foods:   services.NewFoodService(db),
		Meals:   services.NewMealService(db),
		Summary: services.NewSummaryService(userRepo, repository.NewMealRepository(db)),
	}
	return &testServer{t: t, db: db, router: NewRouter(db, svc, zap.NewNop())}
}

func (s *testServer) do(method, path, token string, body interface{}) response {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(s.t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp response
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	resp.Code = w.Code
	return resp
}

func (s *testServer) signUp(email string) string {
	s.t.Helper()
	resp := s.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":             "Tester",
		"email":            email,
		"password":         "password123",
		"confirm_password": "password123",
	})
	require.Equal(s.t, http.StatusCreated, resp.Code, resp.errorMessage())

	resp = s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": "password123",
	})
	require.Equal(s.t, http.StatusOK, resp.Code, resp.errorMessage())
	token, ok := resp.object(s.t)["token"].(string)
	require.True(s.t, ok)
	return token
}

func (s *testServer) createFood(token, name string) uint {
	s.t.Helper()
	resp := s.do(http.MethodPost, "/api/v1/foods", token, gin.H{
		"name":         name,
		"calories":     200,
		"protein":      20,
		"fat":          10,
		"carbohydrate": 5,
		"serving_size": 100,
		"serving_unit": "g",
	})
	require.Equal(s.t, http.StatusCreated, resp.Code, resp.errorMessage())
	return uint(resp.object(s.t)["id"].(float64))
}

func (s *testServer) sharedFood(name string) *models.Food {
	s.t.Helper()
	var food models.Food
	require.NoError(s.t, s.db.Where("name = ? AND user_id IS NULL", name).First(&food).Error)
	return &food
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, CodeNotFound, resp.errorCode())
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "A", "email": "a@example.com", "password": "password123", "confirm_password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.True(t, resp.Success)
	user := resp.object(t)
	assert.Equal(t, "a@example.com", user["email"])
	assert.EqualValues(t, 2000, user["daily_calorie_target"])
	assert.NotContains(t, string(resp.Data), "password")

	resp = s.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "B", "email": "a@example.com", "password": "password123", "confirm_password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, CodeEmailExists, resp.errorCode())

	resp = s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "a@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, CodeUnauthorized, resp.errorCode())

	resp = s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "a@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, resp.Code)
	session := resp.object(t)
	assert.Equal(t, "Bearer", session["token_type"])
	token := session["token"].(string)

	resp = s.do(http.MethodPost, "/api/v1/auth/refresh", token, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NotEmpty(t, resp.object(t)["token"])
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		body    interface{}
		message string
	}{
		{
			name:    "password mismatch",
			body:    gin.H{"name": "A", "email": "a@example.com", "password": "password123", "confirm_password": "password124"},
			message: "passwords do not match",
		},
		{
			name:    "short password",
			body:    gin.H{"name": "A", "email": "a@example.com", "password": "short", "confirm_password": "short"},
			message: "password must be at least 8 characters",
		},
		{
			name:    "bad email",
			body:    gin.H{"name": "A", "email": "not-an-email", "password": "password123", "confirm_password": "password123"},
			message: "email must be a valid email address",
		},
		{
			name:    "missing name",
			body:    gin.H{"email": "a@example.com", "password": "password123", "confirm_password": "password123"},
			message: "name is required",
		},
		{
			name:    "blank name",
			body:    gin.H{"name": "   ", "email": "a@example.com", "password": "password123", "confirm_password": "password123"},
			message: "name is required",
		},
		{
			name:    "malformed json",
			body:    `{"name": `,
			message: "request body must be valid JSON",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.do(http.MethodPost, "/api/v1/auth/register", "", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
			assert.Equal(t, CodeValidation, resp.errorCode())
			assert.Equal(t, tt.message, resp.errorMessage())
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/api/v1/foods", "/api/v1/meals", "/api/v1/users/me", "/api/v1/summary/daily?date=2024-01-01"} {
		resp := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.Code, path)
		assert.Equal(t, CodeUnauthorized, resp.errorCode(), path)
	}
	resp := s.do(http.MethodGet, "/api/v1/foods", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestFoodEndpoints(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp("alice@example.com")
	bob := s.signUp("bob@example.com")

	resp := s.do(http.MethodPost, "/api/v1/foods", alice, gin.H{
		"name": "Steak", "calories": 250, "protein": 26, "fat": 17, "carbohydrate": 0,
		"serving_size": 100, "serving_unit": "g",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.errorMessage())
	food := resp.object(t)
	id := uint(food["id"].(float64))
	assert.EqualValues(t, 250, food["calories"])
	pfc := food["pfc_balance"].(map[string]interface{})
	assert.EqualValues(t, 40, pfc["protein"])
	assert.EqualValues(t, 60, pfc["fat"])
	assert.EqualValues(t, 0, pfc["carbohydrate"])

	resp = s.do(http.MethodPost, "/api/v1/foods", alice, gin.H{
		"name": "Bad", "calories": 1, "protein": 1, "fat": 1, "carbohydrate": 1,
		"serving_size": 1, "serving_unit": "bowl",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.errorMessage(), "serving_unit must be one of")

	resp = s.do(http.MethodGet, fmt.Sprintf("/api/v1/foods/%d", id), bob, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, CodeForbidden, resp.errorCode())

	resp = s.do(http.MethodPut, fmt.Sprintf("/api/v1/foods/%d", id), alice, gin.H{"calories": 260})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.EqualValues(t, 260, resp.object(t)["calories"])
	assert.Equal(t, "Steak", resp.object(t)["name"])

	resp = s.do(http.MethodGet, "/api/v1/foods?q=steak", alice, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var page FoodListResponse
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	require.Len(t, page.Foods, 1)
	assert.Equal(t, "Steak", page.Foods[0].Name)
	assert.EqualValues(t, 1, page.Pagination.TotalCount)

	resp = s.do(http.MethodGet, "/api/v1/foods?q=steak", bob, nil)
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	assert.Empty(t, page.Foods)

	resp = s.do(http.MethodGet, "/api/v1/foods?limit=500", alice, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, "limit must be at most 100", resp.errorMessage())

	resp = s.do(http.MethodGet, "/api/v1/foods/abc", alice, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, "invalid id", resp.errorMessage())

	resp = s.do(http.MethodGet, "/api/v1/foods/99999", alice, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, CodeNotFound, resp.errorCode())

	resp = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/foods/%d", id), bob, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/foods/%d", id), alice, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "food deleted", resp.object(t)["message"])
}

func TestSharedFoodsAreReadOnly(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp("alice@example.com")
	egg := s.sharedFood("Egg")

	resp := s.do(http.MethodGet, fmt.Sprintf("/api/v1/foods/%d", egg.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, true, resp.object(t)["is_default"])
	assert.Nil(t, resp.object(t)["user_id"])

	resp = s.do(http.MethodPut, fmt.Sprintf("/api/v1/foods/%d", egg.ID), token, gin.H{"calories": 1})
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, CodeForbidden, resp.errorCode())

	resp = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/foods/%d", egg.ID), token, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestOwnedDefaultFoodIsImmutable(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp("alice@example.com")
	id := s.createFood(token, "Flagged")
	require.NoError(t, s.db.Model(&models.Food{}).Where("id = ?", id).Update("is_default", true).Error)

	resp := s.do(http.MethodPut, fmt.Sprintf("/api/v1/foods/%d", id), token, gin.H{"name": "Renamed"})
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, CodeDefaultFoodImmutable, resp.errorCode())
}

func TestMealLifecycle(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp("alice@example.com")
	bob := s.signUp("bob@example.com")
	egg := s.sharedFood("Egg")
	own := s.createFood(alice, "Chicken")

	resp := s.do(http.MethodPost, "/api/v1/meals", alice, gin.H{
		"record_date": "2024-03-10",
		"meal_type":   "breakfast",
		"memo":        "  quick  ",
		"items":       []gin.H{{"food_id": egg.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.errorMessage())
	meal := resp.object(t)
	mealID := uint(meal["id"].(float64))
	assert.Equal(t, "2024-03-10", meal["record_date"])
	assert.Equal(t, "quick", meal["memo"])
	totals := meal["totals"].(map[string]interface{})
	assert.EqualValues(t, 152, totals["calories"])
	assert.InDelta(t, 12.4, totals["protein"], 1e-9)
	items := meal["items"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, "Egg", item["food"].(map[string]interface{})["name"])
	assert.NotContains(t, item["food"], "serving_size")

	resp = s.do(http.MethodGet, fmt.Sprintf("/api/v1/meals/%d", mealID), alice, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	detailFood := resp.object(t)["items"].([]interface{})[0].(map[string]interface{})["food"].(map[string]interface{})
	assert.EqualValues(t, 1, detailFood["serving_size"])
	assert.EqualValues(t, 76, detailFood["calories"])

	resp = s.do(http.MethodGet, fmt.Sprintf("/api/v1/meals/%d", mealID), bob, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, CodeForbidden, resp.errorCode())

	resp = s.do(http.MethodPut, fmt.Sprintf("/api/v1/meals/%d", mealID), alice, gin.H{
		"meal_type": "lunch",
		"memo":      "",
		"items":     []gin.H{{"food_id": own, "quantity": 1.5}},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.errorMessage())
	meal = resp.object(t)
	assert.Equal(t, "lunch", meal["meal_type"])
	assert.Nil(t, meal["memo"])
	assert.EqualValues(t, 300, meal["totals"].(map[string]interface{})["calories"])

	resp = s.do(http.MethodGet, "/api/v1/meals?date=2024-03-10", alice, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var list []MealResponse
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, models.MealTypeLunch, list[0].MealType)

	resp = s.do(http.MethodGet, "/api/v1/meals?date=2024-03-10", bob, nil)
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	assert.Empty(t, list)

	resp = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/foods/%d", own), alice, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, CodeFoodInUse, resp.errorCode())

	resp = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/meals/%d", mealID), alice, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = s.do(http.MethodGet, fmt.Sprintf("/api/v1/meals/%d", mealID), alice, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/foods/%d", own), alice, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestMealValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp("alice@example.com")
	egg := s.sharedFood("Egg")

	tests := []struct {
		name    string
		body    gin.H
		message string
	}{
		{
			name:    "no items",
			body:    gin.H{"record_date": "2024-03-10", "meal_type": "lunch", "items": []gin.H{}},
			message: "items must contain at least one food",
		},
		{
			name:    "bad meal type",
			body:    gin.H{"record_date": "2024-03-10", "meal_type": "brunch", "items": []gin.H{{"food_id": egg.ID, "quantity": 1}}},
			message: "meal_type must be one of breakfast, lunch, dinner, snack",
		},
		{
			name:    "bad date",
			body:    gin.H{"record_date": "2024-02-30", "meal_type": "lunch", "items": []gin.H{{"food_id": egg.ID, "quantity": 1}}},
			message: "record_date must be a valid date in YYYY-MM-DD format",
		},
		{
			name:    "tiny quantity",
			body:    gin.H{"record_date": "2024-03-10", "meal_type": "lunch", "items": []gin.H{{"food_id": egg.ID, "quantity": 0.05}}},
			message: "quantity must be at least 0.1",
		},
		{
			name:    "huge quantity",
			body:    gin.H{"record_date": "2024-03-10", "meal_type": "lunch", "items": []gin.H{{"food_id": egg.ID, "quantity": 1e308}}},
			message: "quantity must be at most 99999.99",
		},
		{
			name:    "missing foods",
			body:    gin.H{"record_date": "2024-03-10", "meal_type": "lunch", "items": []gin.H{{"food_id": 99998, "quantity": 1}, {"food_id": 99999, "quantity": 1}, {"food_id": 99998, "quantity": 2}}},
			message: "foods not found: ID 99998, 99999",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.do(http.MethodPost, "/api/v1/meals", token, tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
			assert.Equal(t, CodeValidation, resp.errorCode())
			assert.Equal(t, tt.message, resp.errorMessage())
		})
	}

	var count int64
	require.NoError(t, s.db.Model(&models.MealRecord{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSummaries(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp("alice@example.com")
	egg := s.sharedFood("Egg")

	for _, date := range []string{"2024-02-01", "2024-02-29"} {
		resp := s.do(http.MethodPost, "/api/v1/meals", token, gin.H{
			"record_date": date,
			"meal_type":   "dinner",
			"items":       []gin.H{{"food_id": egg.ID, "quantity": 2}},
		})
		require.Equal(t, http.StatusCreated, resp.Code, resp.errorMessage())
	}

	resp := s.do(http.MethodGet, "/api/v1/summary/daily?date=2024-02-01", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var daily services.DailySummary
	require.NoError(t, json.Unmarshal(resp.Data, &daily))
	assert.Equal(t, 152.0, daily.Totals.Calories)
	assert.Equal(t, 152.0, daily.ByMealType.Dinner.Calories)
	assert.Equal(t, 2000.0, daily.Targets.Calories)
	assert.Equal(t, 7.6, daily.Achievement.Calories)

	resp = s.do(http.MethodGet, "/api/v1/summary/monthly?year=2024&month=2", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var monthly services.MonthlySummary
	require.NoError(t, json.Unmarshal(resp.Data, &monthly))
	require.Len(t, monthly.DailySummaries, 29)
	assert.True(t, monthly.DailySummaries[0].HasRecords)
	assert.False(t, monthly.DailySummaries[1].HasRecords)
	assert.Equal(t, 152.0, monthly.MonthlyAverage.Calories)

	resp = s.do(http.MethodGet, "/api/v1/summary/monthly?year=2024&month=13", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, "month must be at most 12", resp.errorMessage())

	resp = s.do(http.MethodGet, "/api/v1/summary/daily", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, "date is required", resp.errorMessage())
}

func TestUserEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp("alice@example.com")
	s.signUp("taken@example.com")

	resp := s.do(http.MethodPut, "/api/v1/users/me", token, gin.H{"email": "taken@example.com"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, CodeEmailExists, resp.errorCode())

	resp = s.do(http.MethodPut, "/api/v1/users/me", token, gin.H{"name": "Alice"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Alice", resp.object(t)["name"])

	resp = s.do(http.MethodPut, "/api/v1/users/me/targets", token, gin.H{"daily_protein_target": 120})
	require.Equal(t, http.StatusOK, resp.Code)
	targets := resp.object(t)
	assert.EqualValues(t, 120, targets["daily_protein_target"])
	assert.EqualValues(t, 2000, targets["daily_calorie_target"])

	resp = s.do(http.MethodPut, "/api/v1/users/me/targets", token, gin.H{"daily_calorie_target": 100})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, "daily_calorie_target must be at least 500", resp.errorMessage())

	resp = s.do(http.MethodGet, "/api/v1/users/me/targets", token, nil)
	assert.EqualValues(t, 120, resp.object(t)["daily_protein_target"])

	resp = s.do(http.MethodPut, "/api/v1/users/me/password", token, gin.H{
		"current_password": "not-my-password", "new_password": "newpassword1",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = s.do(http.MethodPut, "/api/v1/users/me/password", token, gin.H{
		"current_password": "password123", "new_password": "newpassword1",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "alice@example.com", "password": "newpassword1"})
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	mapper := errorMapper{log: zap.New(core)}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("request_id", "req-1")
	mapper.fail(c, fmt.Errorf("failed to load: %w", errors.New("connection refused")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), CodeInternal)
	assert.NotContains(t, w.Body.String(), "connection refused")

	entries := logs.FilterMessage("request failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
}
