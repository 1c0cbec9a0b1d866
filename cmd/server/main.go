package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"beamchat/backend/internal/auth"
	"beamchat/backend/internal/config"
	"beamchat/backend/internal/database"
	"beamchat/backend/internal/gateway"
	"beamchat/backend/internal/handler"
	"beamchat/backend/internal/hub"
	"beamchat/backend/internal/presence"
	"beamchat/backend/internal/service"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "beamchat/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Beamchat API
// @version         1.0
// @description     Realtime messaging and call-signaling backend.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	db := database.Connect(config.AppConfig.DatabaseURL)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Core collaborators: one registry instance, one hub, both injected
	// everywhere instead of living as package globals.
	registry := presence.NewRegistry()
	eventHub := hub.New(logger)
	notifier := hub.NewNotifier(registry, eventHub)

	users := service.NewUsers(db, logger)
	contacts := service.NewContacts(db, notifier, logger)
	messages := service.NewMessages(db, notifier, logger)
	calls := service.NewCalls(db, logger)

	gw := gateway.New(registry, eventHub, notifier, users, contacts, messages, calls, logger)

	authHandler := handler.NewAuthHandler(users)
	userHandler := handler.NewUserHandler(users, contacts)
	chatHandler := handler.NewChatHandler(messages, contacts)
	relationHandler := handler.NewRelationHandler(contacts)
	callHandler := handler.NewCallHandler(calls)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Realtime endpoint (token authenticated via query parameter)
	router.GET("/ws", gw.HandleWS)

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
		}

		// Viewer routes (protected)
		meRoutes := apiV1.Group("/me")
		meRoutes.Use(auth.AuthMiddleware())
		{
			meRoutes.GET("/profile", userHandler.GetProfile)
			meRoutes.GET("/chats", chatHandler.GetChats)
			meRoutes.GET("/calls", callHandler.GetCallHistory)
			meRoutes.GET("/requests", relationHandler.GetRequests)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/:id/messages", chatHandler.GetMessagesWith)

			// Friendship routes
			userRoutes.POST("/:id/request", relationHandler.SendRequest)
			userRoutes.POST("/:id/accept", relationHandler.AcceptRequest)
			userRoutes.POST("/:id/reject", relationHandler.RejectRequest)
			userRoutes.DELETE("/:id/contact", relationHandler.RemoveContact)
		}
	}

	fmt.Printf("Server is running on %s\n", config.AppConfig.ServerAddr)
	fmt.Println("Swagger UI is available at http://localhost:8080/swagger/index.html")
	log.Fatal(router.Run(config.AppConfig.ServerAddr))
}
