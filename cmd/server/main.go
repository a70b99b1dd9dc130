package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/nodehq/node-admin-api/internal/config"
	"github.com/nodehq/node-admin-api/internal/constants"
	"github.com/nodehq/node-admin-api/internal/database"
	"github.com/nodehq/node-admin-api/internal/handlers"
	"github.com/nodehq/node-admin-api/internal/middleware"
	"github.com/nodehq/node-admin-api/internal/permissions"
	"github.com/nodehq/node-admin-api/internal/repository"
	"github.com/nodehq/node-admin-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	nodeRepo := repository.NewNodeRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	webhookRepo := repository.NewWebhookRepository(db)
	apiKeyRepo := repository.NewAPIKeyRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Fire-and-forget sinks
	audit := services.NewDBAuditRecorder(auditRepo)
	events := services.LogEventSink{}
	mailer := services.LogMailer{}

	// Initialize services
	membershipService := services.NewMembershipService(nodeRepo, audit, events)
	invitationService := services.NewInvitationService(invitationRepo, nodeRepo, cfg.InvitationValidity, audit, events, mailer)
	authService := services.NewAuthService(userRepo, membershipService, invitationService)
	webhookService := services.NewWebhookService(webhookRepo, audit)
	apiKeyService := services.NewAPIKeyService(apiKeyRepo, audit)
	auditService := services.NewAuditLogService(auditRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	nodeHandler := handlers.NewNodeHandler(membershipService, cfg.NodeFeatures)
	memberHandler := handlers.NewMemberHandler(membershipService)
	invitationHandler := handlers.NewInvitationHandler(invitationService, authService)
	integrationHandler := handlers.NewIntegrationHandler(webhookService, apiKeyService, auditService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Node Admin API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Invitation redemption is not node-scoped; any logged-in user with
		// the token (and the invited email) may accept
		api.POST("/invitations/accept", middleware.RequireAuth(), invitationHandler.AcceptInvitation)

		// Node routes (protected)
		nodes := api.Group("/nodes")
		nodes.Use(middleware.RequireAuth())
		{
			nodes.GET("", nodeHandler.ListNodes)
			nodes.POST("", nodeHandler.CreateNode)

			// Tenant-scoped routes resolve the membership first; the
			// permission middleware is the single enforcement point
			node := nodes.Group("/:slug")
			node.Use(middleware.RequireNodeAccess(membershipService))
			{
				node.GET("", middleware.RequirePermission(permissions.ResourceNode, permissions.ActionRead), nodeHandler.GetNode)
				node.PUT("", middleware.RequirePermission(permissions.ResourceNode, permissions.ActionUpdate), nodeHandler.UpdateNode)
				node.DELETE("", middleware.RequirePermission(permissions.ResourceNode, permissions.ActionDelete), nodeHandler.DeleteNode)
				node.POST("/leave", middleware.RequirePermission(permissions.ResourceNode, permissions.ActionLeave), nodeHandler.LeaveNode)
				node.GET("/permissions", nodeHandler.GetPermissions)

				node.GET("/members", middleware.RequirePermission(permissions.ResourceNodeMember, permissions.ActionRead), memberHandler.ListMembers)
				node.PATCH("/members", middleware.RequirePermission(permissions.ResourceNodeMember, permissions.ActionUpdate), memberHandler.UpdateMemberRole)
				node.DELETE("/members/:user_id", middleware.RequirePermission(permissions.ResourceNodeMember, permissions.ActionDelete), memberHandler.RemoveMember)

				node.GET("/invitations", middleware.RequirePermission(permissions.ResourceNodeInvitation, permissions.ActionRead), invitationHandler.ListInvitations)
				node.POST("/invitations", middleware.RequirePermission(permissions.ResourceNodeInvitation, permissions.ActionCreate), invitationHandler.CreateInvitation)
				// Deletion authorization (inviter or node_invitation:delete)
				// is decided in the service
				node.DELETE("/invitations/:id", invitationHandler.DeleteInvitation)

				if cfg.NodeFeatures.Webhook {
					node.GET("/webhooks", middleware.RequirePermission(permissions.ResourceNodeWebhook, permissions.ActionRead), integrationHandler.ListWebhooks)
					node.POST("/webhooks", middleware.RequirePermission(permissions.ResourceNodeWebhook, permissions.ActionCreate), integrationHandler.CreateWebhook)
					node.PUT("/webhooks/:id", middleware.RequirePermission(permissions.ResourceNodeWebhook, permissions.ActionUpdate), integrationHandler.UpdateWebhook)
					node.DELETE("/webhooks/:id", middleware.RequirePermission(permissions.ResourceNodeWebhook, permissions.ActionDelete), integrationHandler.DeleteWebhook)
				}

				if cfg.NodeFeatures.APIKey {
					node.GET("/api-keys", middleware.RequirePermission(permissions.ResourceNodeAPIKey, permissions.ActionRead), integrationHandler.ListAPIKeys)
					node.POST("/api-keys", middleware.RequirePermission(permissions.ResourceNodeAPIKey, permissions.ActionCreate), integrationHandler.CreateAPIKey)
					node.DELETE("/api-keys/:id", middleware.RequirePermission(permissions.ResourceNodeAPIKey, permissions.ActionDelete), integrationHandler.DeleteAPIKey)
				}

				if cfg.NodeFeatures.AuditLog {
					node.GET("/audit-logs", middleware.RequirePermission(permissions.ResourceNodeAuditLog, permissions.ActionRead), integrationHandler.ListAuditLogs)
				}
			}
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
