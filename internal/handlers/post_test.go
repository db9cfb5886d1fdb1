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

type postTestEnv struct {
	db           *gorm.DB
	router       *gin.Engine
	authService  *services.AuthService
	partyService *services.PartyService
}

func setupPostTestEnv(t *testing.T) postTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Token{},
		&models.Party{},
		&models.PartyMember{},
		&models.Post{},
	)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	partyRepo := repository.NewPartyRepository(db)
	postRepo := repository.NewPostRepository(db)
	authService := services.NewAuthService(userRepo, tokenRepo, []byte("test-secret"), time.Hour)
	partyService := services.NewPartyService(partyRepo, userRepo)
	handler := NewPostHandler(services.NewPostService(postRepo, partyRepo))

	r := gin.New()
	requireAuth := middleware.RequireAuth(authService)
	r.GET("/api/parties/:id/posts", requireAuth, handler.ListPosts)
	r.POST("/api/parties/:id/posts", requireAuth, handler.CreatePost)
	r.DELETE("/api/posts/:id", requireAuth, handler.DeletePost)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return postTestEnv{
		db:           db,
		router:       r,
		authService:  authService,
		partyService: partyService,
	}
}

func (env postTestEnv) registerUser(t *testing.T, email string) (uint64, string) {
	t.Helper()

	user, accessToken, err := env.authService.Register(services.RegisterInput{
		Name:     "Player",
		Email:    email,
		Password: "supersecret",
	})
	require.NoError(t, err)
	return user.ID, accessToken
}

func (env postTestEnv) request(t *testing.T, method, path string, payload interface{}, bearer string) *httptest.ResponseRecorder {
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

// seedParty creates a party owned by ownerID and joins memberID to it.
func (env postTestEnv) seedParty(t *testing.T, ownerID, memberID uint64) *models.Party {
	t.Helper()

	party, err := env.partyService.CreateParty(services.CreatePartyInput{
		OwnerID:     ownerID,
		Name:        "Feed Party",
		Description: "A party with a feed",
	})
	require.NoError(t, err)

	if memberID != 0 {
		_, err = env.partyService.JoinParty(memberID, party.Code)
		require.NoError(t, err)
	}
	return party
}

func TestPostHandler_MemberCanPostAndRead(t *testing.T) {
	env := setupPostTestEnv(t)
	ownerID, ownerToken := env.registerUser(t, "owner@example.com")
	memberID, memberToken := env.registerUser(t, "member@example.com")

	env.seedParty(t, ownerID, memberID)

	w := env.request(t, http.MethodPost, "/api/parties/1/posts", map[string]interface{}{
		"text":   "Session 0 tonight!",
		"images": []string{"https://cdn.example.com/map.png"},
	}, memberToken)
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.PostDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "Session 0 tonight!", created.Text)
	require.Equal(t, []string{"https://cdn.example.com/map.png"}, created.Images)
	require.Equal(t, "Player", created.User.Name)

	w = env.request(t, http.MethodGet, "/api/parties/1/posts", nil, ownerToken)
	require.Equal(t, http.StatusOK, w.Code)

	var posts []dto.PostDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
}

func TestPostHandler_NonMemberIsForbidden(t *testing.T) {
	env := setupPostTestEnv(t)
	ownerID, _ := env.registerUser(t, "owner@example.com")
	_, strangerToken := env.registerUser(t, "stranger@example.com")

	env.seedParty(t, ownerID, 0)

	w := env.request(t, http.MethodGet, "/api/parties/1/posts", nil, strangerToken)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "You do not have access to this party.")

	w = env.request(t, http.MethodPost, "/api/parties/1/posts", map[string]string{"text": "hi"}, strangerToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodGet, "/api/parties/999/posts", nil, strangerToken)
	require.Equal(t, http.StatusNotFound, w.Code, "a missing party is not-found, not forbidden")
}

func TestPostHandler_DeleteIsAuthorOnly(t *testing.T) {
	env := setupPostTestEnv(t)
	ownerID, ownerToken := env.registerUser(t, "owner@example.com")
	memberID, memberToken := env.registerUser(t, "member@example.com")

	env.seedParty(t, ownerID, memberID)

	w := env.request(t, http.MethodPost, "/api/parties/1/posts", map[string]string{"text": "my post"}, memberToken)
	require.Equal(t, http.StatusCreated, w.Code)

	// Owning the party grants no rights over members' posts.
	w = env.request(t, http.MethodDelete, "/api/posts/1", nil, ownerToken)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "You cannot delete this post.")

	w = env.request(t, http.MethodDelete, "/api/posts/1", nil, memberToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodDelete, "/api/posts/1", nil, memberToken)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostHandler_FeedIsChronological(t *testing.T) {
	env := setupPostTestEnv(t)
	ownerID, ownerToken := env.registerUser(t, "owner@example.com")

	party := env.seedParty(t, ownerID, 0)

	for _, text := range []string{"first", "second", "third"} {
		require.NoError(t, env.db.Create(&models.Post{
			PartyID: party.ID,
			UserID:  ownerID,
			Text:    text,
		}).Error)
	}

	w := env.request(t, http.MethodGet, "/api/parties/1/posts", nil, ownerToken)
	require.Equal(t, http.StatusOK, w.Code)

	var posts []dto.PostDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	require.Len(t, posts, 3)
	require.Equal(t, "first", posts[0].Text)
	require.Equal(t, "third", posts[2].Text)
}

func TestPostHandler_TextValidation(t *testing.T) {
	env := setupPostTestEnv(t)
	ownerID, ownerToken := env.registerUser(t, "owner@example.com")

	env.seedParty(t, ownerID, 0)

	w := env.request(t, http.MethodPost, "/api/parties/1/posts", map[string]string{"text": ""}, ownerToken)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = env.request(t, http.MethodPost, "/api/parties/1/posts", map[string]interface{}{
		"text":   "with a bad image ref",
		"images": []string{"not a url"},
	}, ownerToken)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
