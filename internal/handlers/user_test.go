package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kaosekai/companion-api/internal/dto"
	"github.com/kaosekai/companion-api/internal/middleware"
	"github.com/kaosekai/companion-api/internal/models"
	"github.com/kaosekai/companion-api/internal/repository"
	"github.com/kaosekai/companion-api/internal/services"
)

type userTestEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	authService *services.AuthService
	adminToken  string
	playerToken string
}

func setupUserTestEnv(t *testing.T) userTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Token{})
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	authService := services.NewAuthService(userRepo, tokenRepo, []byte("test-secret"), time.Hour)
	handler := NewUserHandler(services.NewUserService(userRepo))

	r := gin.New()
	requireAuth := middleware.RequireAuth(authService)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	users := r.Group("/api/users", requireAuth)
	users.GET("/search", handler.SearchUsers)
	users.GET("", adminOnly, handler.ListUsers)
	users.POST("", adminOnly, handler.CreateUser)
	users.PUT("/:id", adminOnly, handler.UpdateUser)
	users.PATCH("/:id", adminOnly, handler.UpdateUser)
	users.DELETE("/:id", adminOnly, handler.DeleteUser)

	env := userTestEnv{db: db, router: r, authService: authService}

	_, _, err = authService.Register(services.RegisterInput{
		Name:     "Admin",
		Email:    "admin@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "admin@example.com").
		Update("role", models.RoleAdmin).Error)
	_, env.adminToken, err = authService.Login(services.LoginInput{
		Email:    "admin@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	_, env.playerToken, err = authService.Register(services.RegisterInput{
		Name:     "Regular Player",
		Email:    "player@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return env
}

func (env userTestEnv) request(t *testing.T, method, path string, payload interface{}, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearer)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestUserHandler_ManagementIsAdminOnly(t *testing.T) {
	env := setupUserTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/users", nil, env.playerToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodGet, "/api/users", nil, env.adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	var listing struct {
		Users      []dto.UserDTO `json:"users"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Len(t, listing.Users, 2)
	require.Equal(t, int64(2), listing.Pagination.Total)
}

func TestUserHandler_CreateUserWithRole(t *testing.T) {
	env := setupUserTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/users", map[string]string{
		"name":     "Game Master",
		"email":    "gm@example.com",
		"password": "supersecret",
		"role":     "GM",
	}, env.adminToken)
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, models.RoleGM, created.Role)

	w = env.request(t, http.MethodPost, "/api/users", map[string]string{
		"name":     "Bad Role",
		"email":    "bad@example.com",
		"password": "supersecret",
		"role":     "WIZARD",
	}, env.adminToken)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUserHandler_SoftDeletedUserDisappears(t *testing.T) {
	env := setupUserTestEnv(t)

	w := env.request(t, http.MethodDelete, "/api/users/2", nil, env.adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	// The deleted player's token no longer authenticates.
	w = env.request(t, http.MethodGet, "/api/users/search?query=regular", nil, env.playerToken)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// And the user is gone from listings and search.
	w = env.request(t, http.MethodGet, "/api/users/search?query=regular", nil, env.adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	var results []dto.UserSearchDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Empty(t, results)

	w = env.request(t, http.MethodDelete, "/api/users/2", nil, env.adminToken)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandler_SearchMatchesNameAndEmail(t *testing.T) {
	env := setupUserTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/users/search?query=REGULAR", nil, env.playerToken)
	require.Equal(t, http.StatusOK, w.Code)

	var results []dto.UserSearchDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 1)
	require.Equal(t, "Regular Player", results[0].Name)

	w = env.request(t, http.MethodGet, "/api/users/search?query=admin@", nil, env.playerToken)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 1)
	require.Equal(t, "admin@example.com", results[0].Email)
}

func TestUserHandler_UpdateUser(t *testing.T) {
	env := setupUserTestEnv(t)

	w := env.request(t, http.MethodPut, "/api/users/2", map[string]string{
		"name": "Promoted Player",
		"role": "GM",
	}, env.adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	var updated dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Equal(t, "Promoted Player", updated.Name)
	require.Equal(t, models.RoleGM, updated.Role)
	require.Equal(t, "player@example.com", updated.Email, "untouched fields survive")

	w = env.request(t, http.MethodPut, "/api/users/2", map[string]string{
		"email": "admin@example.com",
	}, env.adminToken)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Contains(t, w.Body.String(), "The email has already been taken.")

	w = env.request(t, http.MethodPut, "/api/users/999", map[string]string{"name": "Ghost"}, env.adminToken)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandler_PatchUpdatesUser(t *testing.T) {
	env := setupUserTestEnv(t)

	w := env.request(t, http.MethodPatch, "/api/users/2", map[string]string{
		"name": "Patched Player",
	}, env.adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	var updated dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Equal(t, "Patched Player", updated.Name)
	require.Equal(t, "player@example.com", updated.Email)
}
