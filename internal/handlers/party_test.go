package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
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

type partyTestEnv struct {
	db           *gorm.DB
	router       *gin.Engine
	authService  *services.AuthService
	partyService *services.PartyService
}

func setupPartyTestEnv(t *testing.T) partyTestEnv {
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
	authService := services.NewAuthService(userRepo, tokenRepo, []byte("test-secret"), time.Hour)
	partyService := services.NewPartyService(partyRepo, userRepo)
	handler := NewPartyHandler(partyService)
	invitationHandler := NewInvitationHandler(partyService)

	r := gin.New()
	parties := r.Group("/api/parties", middleware.RequireAuth(authService))
	parties.GET("", handler.ListParties)
	parties.POST("", handler.CreateParty)
	parties.GET("/code/:code", handler.FindByCode)
	parties.POST("/join", handler.JoinParty)
	parties.GET("/:id", handler.GetParty)
	parties.PUT("/:id", handler.UpdateParty)
	parties.DELETE("/:id", handler.DeleteParty)
	parties.POST("/:id/invitations", invitationHandler.InviteUser)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return partyTestEnv{
		db:           db,
		router:       r,
		authService:  authService,
		partyService: partyService,
	}
}

func (env partyTestEnv) registerUser(t *testing.T, email string) (uint64, string) {
	t.Helper()

	user, accessToken, err := env.authService.Register(services.RegisterInput{
		Name:     "Player",
		Email:    email,
		Password: "supersecret",
	})
	require.NoError(t, err)
	return user.ID, accessToken
}

func (env partyTestEnv) request(t *testing.T, method, path string, payload interface{}, bearer string) *httptest.ResponseRecorder {
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

func (env partyTestEnv) createParty(t *testing.T, bearer string) dto.PartyDTO {
	t.Helper()

	w := env.request(t, http.MethodPost, "/api/parties", map[string]string{
		"name":        "The Fellowship",
		"description": "Weekly campaign",
	}, bearer)
	require.Equal(t, http.StatusCreated, w.Code)

	var party dto.PartyDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &party))
	return party
}

func TestPartyHandler_CreateParty_CodeFormat(t *testing.T) {
	env := setupPartyTestEnv(t)
	_, token := env.registerUser(t, "owner@example.com")

	party := env.createParty(t, token)

	require.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{6}$`), party.Code)
	require.Equal(t, models.PartyPublic, party.Type, "type defaults to PUBLIC")
	require.Equal(t, int64(0), party.MembersCount)
}

func TestPartyHandler_JoinParty_CodeIsCaseInsensitive(t *testing.T) {
	env := setupPartyTestEnv(t)
	_, ownerToken := env.registerUser(t, "owner@example.com")
	_, memberToken := env.registerUser(t, "member@example.com")

	party := env.createParty(t, ownerToken)

	w := env.request(t, http.MethodPost, "/api/parties/join", map[string]string{
		"code": "  " + strings.ToLower(party.Code) + " ",
	}, memberToken)
	require.Equal(t, http.StatusCreated, w.Code)

	var joined dto.PartyDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &joined))
	require.Equal(t, party.ID, joined.ID)
	require.Equal(t, int64(1), joined.MembersCount)
}

func TestPartyHandler_JoinParty_Conflicts(t *testing.T) {
	env := setupPartyTestEnv(t)
	_, ownerToken := env.registerUser(t, "owner@example.com")
	_, memberToken := env.registerUser(t, "member@example.com")

	party := env.createParty(t, ownerToken)

	w := env.request(t, http.MethodPost, "/api/parties/join", map[string]string{"code": party.Code}, ownerToken)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "You are already the owner of this party.")

	w = env.request(t, http.MethodPost, "/api/parties/join", map[string]string{"code": party.Code}, memberToken)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, http.MethodPost, "/api/parties/join", map[string]string{"code": party.Code}, memberToken)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "You are already a member of this party.")
}

func TestPartyHandler_JoinParty_CodeValidation(t *testing.T) {
	env := setupPartyTestEnv(t)
	_, token := env.registerUser(t, "player@example.com")

	w := env.request(t, http.MethodPost, "/api/parties/join", map[string]string{"code": "TOOLONGCODE"}, token)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Contains(t, w.Body.String(), "Invalid code format. Code must be 6 characters.")

	w = env.request(t, http.MethodPost, "/api/parties/join", map[string]string{"code": "ZZZZZZ"}, token)
	require.Equal(t, http.StatusNotFound, w.Code, "a well-formed but unknown code is a plain not-found")
}

func TestPartyHandler_ShowIsOwnerScoped(t *testing.T) {
	env := setupPartyTestEnv(t)
	_, ownerToken := env.registerUser(t, "owner@example.com")
	_, memberToken := env.registerUser(t, "member@example.com")

	party := env.createParty(t, ownerToken)

	w := env.request(t, http.MethodPost, "/api/parties/join", map[string]string{"code": party.Code}, memberToken)
	require.Equal(t, http.StatusCreated, w.Code)

	// Even a member sees 404 on the owner-facing endpoints.
	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		w = env.request(t, method, "/api/parties/1", nil, memberToken)
		require.Equal(t, http.StatusNotFound, w.Code)
	}

	w = env.request(t, http.MethodGet, "/api/parties/1", nil, ownerToken)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestPartyHandler_ListIncludesMemberships(t *testing.T) {
	env := setupPartyTestEnv(t)
	_, ownerToken := env.registerUser(t, "owner@example.com")
	_, memberToken := env.registerUser(t, "member@example.com")

	party := env.createParty(t, ownerToken)

	w := env.request(t, http.MethodPost, "/api/parties/join", map[string]string{"code": party.Code}, memberToken)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, http.MethodGet, "/api/parties", nil, memberToken)
	require.Equal(t, http.StatusOK, w.Code)

	var parties []dto.PartyDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parties))
	require.Len(t, parties, 1)
	require.Equal(t, party.ID, parties[0].ID)
}

func TestPartyHandler_UpdateParty_BannerClear(t *testing.T) {
	env := setupPartyTestEnv(t)
	_, token := env.registerUser(t, "owner@example.com")

	w := env.request(t, http.MethodPost, "/api/parties", map[string]interface{}{
		"name":        "Banner Party",
		"description": "Has a banner",
		"banner":      "https://cdn.example.com/banner.png",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	// A body without the banner key leaves it alone.
	w = env.request(t, http.MethodPut, "/api/parties/1", map[string]string{"name": "Renamed"}, token)
	require.Equal(t, http.StatusOK, w.Code)

	var updated dto.PartyDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.NotNil(t, updated.Banner)

	// An explicit null clears it.
	w = env.request(t, http.MethodPut, "/api/parties/1", map[string]interface{}{"banner": nil}, token)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Nil(t, updated.Banner)
	require.Equal(t, "Renamed", updated.Name)
}

func TestInvitationHandler_OwnerOnly(t *testing.T) {
	env := setupPartyTestEnv(t)
	_, ownerToken := env.registerUser(t, "owner@example.com")
	memberID, memberToken := env.registerUser(t, "member@example.com")
	targetID, _ := env.registerUser(t, "target@example.com")

	party := env.createParty(t, ownerToken)

	w := env.request(t, http.MethodPost, "/api/parties/join", map[string]string{"code": party.Code}, memberToken)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, http.MethodPost, "/api/parties/1/invitations", map[string]uint64{"user_id": targetID}, memberToken)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "Only the party owner can invite users.")

	w = env.request(t, http.MethodPost, "/api/parties/1/invitations", map[string]uint64{"user_id": targetID}, ownerToken)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), "User invited successfully")

	w = env.request(t, http.MethodPost, "/api/parties/1/invitations", map[string]uint64{"user_id": memberID}, ownerToken)
	require.Equal(t, http.StatusConflict, w.Code)

	w = env.request(t, http.MethodPost, "/api/parties/1/invitations", map[string]uint64{"user_id": 9999}, ownerToken)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "User not found.")
}

func TestPartyHandler_DeleteCascades(t *testing.T) {
	env := setupPartyTestEnv(t)
	ownerID, ownerToken := env.registerUser(t, "owner@example.com")
	_, memberToken := env.registerUser(t, "member@example.com")

	party := env.createParty(t, ownerToken)

	w := env.request(t, http.MethodPost, "/api/parties/join", map[string]string{"code": party.Code}, memberToken)
	require.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, env.db.Create(&models.Post{
		PartyID: party.ID,
		UserID:  ownerID,
		Text:    "hello",
	}).Error)

	w = env.request(t, http.MethodDelete, "/api/parties/1", nil, ownerToken)
	require.Equal(t, http.StatusOK, w.Code)

	var members, posts int64
	require.NoError(t, env.db.Model(&models.PartyMember{}).Count(&members).Error)
	require.NoError(t, env.db.Model(&models.Post{}).Count(&posts).Error)
	require.Zero(t, members)
	require.Zero(t, posts)
}
