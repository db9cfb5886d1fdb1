package main

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/kaosekai/companion-api/internal/config"
	"github.com/kaosekai/companion-api/internal/database"
	"github.com/kaosekai/companion-api/internal/handlers"
	"github.com/kaosekai/companion-api/internal/logger"
	"github.com/kaosekai/companion-api/internal/middleware"
	"github.com/kaosekai/companion-api/internal/models"
	"github.com/kaosekai/companion-api/internal/repository"
	"github.com/kaosekai/companion-api/internal/services"
	"github.com/kaosekai/companion-api/internal/storage"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.GinMode)
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	characterRepo := repository.NewCharacterRepository(db)
	partyRepo := repository.NewPartyRepository(db)
	postRepo := repository.NewPostRepository(db)
	documentRepo := repository.NewDocumentRepository(db)

	store := storage.NewStore(cfg.UploadDir)

	authService := services.NewAuthService(userRepo, tokenRepo, []byte(cfg.JWTSecret), cfg.JWTLifetime)
	userService := services.NewUserService(userRepo)
	characterService := services.NewCharacterService(characterRepo)
	partyService := services.NewPartyService(partyRepo, userRepo)
	postService := services.NewPostService(postRepo, partyRepo)
	documentService := services.NewDocumentService(documentRepo, store)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	characterHandler := handlers.NewCharacterHandler(characterService)
	partyHandler := handlers.NewPartyHandler(partyService)
	invitationHandler := handlers.NewInvitationHandler(partyService)
	postHandler := handlers.NewPostHandler(postService)
	documentHandler := handlers.NewDocumentHandler(documentService, store)
	uploadHandler := handlers.NewUploadHandler(store)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.MaxMultipartMemory = 32 << 20

	r.Static("/uploads", cfg.UploadDir)

	requireAuth := middleware.RequireAuth(authService)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	credentialLimit := middleware.RateLimit(rate.Limit(1), 10)

	api := r.Group("/api")
	{
		api.GET("", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		api.POST("/register", credentialLimit, authHandler.Register)
		api.POST("/login", credentialLimit, authHandler.Login)
		api.POST("/logout", requireAuth, authHandler.Logout)
		api.GET("/user", requireAuth, authHandler.GetCurrentUser)

		users := api.Group("/users", requireAuth)
		{
			users.GET("/search", userHandler.SearchUsers)

			admin := users.Group("", adminOnly)
			{
				admin.GET("", userHandler.ListUsers)
				admin.POST("", userHandler.CreateUser)
				admin.PUT("/:id", userHandler.UpdateUser)
				admin.PATCH("/:id", userHandler.UpdateUser)
				admin.DELETE("/:id", userHandler.DeleteUser)
			}
		}

		characters := api.Group("/characters", requireAuth)
		{
			characters.GET("", characterHandler.ListCharacters)
			characters.POST("", characterHandler.CreateCharacter)
			characters.GET("/:id", characterHandler.GetCharacter)
			characters.PUT("/:id", characterHandler.UpdateCharacter)
			characters.PATCH("/:id", characterHandler.UpdateCharacter)
			characters.DELETE("/:id", characterHandler.DeleteCharacter)
		}

		parties := api.Group("/parties", requireAuth)
		{
			parties.GET("", partyHandler.ListParties)
			parties.POST("", partyHandler.CreateParty)
			parties.GET("/code/:code", partyHandler.FindByCode)
			parties.POST("/join", partyHandler.JoinParty)
			parties.GET("/:id", partyHandler.GetParty)
			parties.PUT("/:id", partyHandler.UpdateParty)
			parties.PATCH("/:id", partyHandler.UpdateParty)
			parties.DELETE("/:id", partyHandler.DeleteParty)
			parties.POST("/:id/invitations", invitationHandler.InviteUser)
			parties.GET("/:id/posts", postHandler.ListPosts)
			parties.POST("/:id/posts", postHandler.CreatePost)
		}

		api.DELETE("/posts/:id", requireAuth, postHandler.DeletePost)

		documents := api.Group("/documents")
		{
			documents.GET("", documentHandler.ListPublicDocuments)
			documents.GET("/:id", documentHandler.GetPublicDocument)

			documents.POST("", requireAuth, adminOnly, documentHandler.CreateDocument)
			documents.PUT("/:id", requireAuth, adminOnly, documentHandler.UpdateDocument)
			documents.PATCH("/:id", requireAuth, adminOnly, documentHandler.UpdateDocument)
			documents.DELETE("/:id", requireAuth, adminOnly, documentHandler.DeleteDocument)
		}

		adminDocs := api.Group("/admin/documents", requireAuth, adminOnly)
		{
			adminDocs.GET("", documentHandler.ListAdminDocuments)
			adminDocs.GET("/:id", documentHandler.GetAdminDocument)
		}

		api.POST("/uploads/images", requireAuth, uploadHandler.UploadImage)
	}

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
