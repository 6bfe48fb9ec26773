package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nurbek-a/taskline/internal/config"
	"github.com/nurbek-a/taskline/internal/database"
	"github.com/nurbek-a/taskline/internal/handlers"
	"github.com/nurbek-a/taskline/internal/notifier"
	"github.com/nurbek-a/taskline/internal/repository"
	"github.com/nurbek-a/taskline/internal/services"
	"github.com/nurbek-a/taskline/pkg/email"
	"github.com/nurbek-a/taskline/pkg/logger"
	"github.com/nurbek-a/taskline/pkg/middleware"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	listRepo := repository.NewListRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	chatRepo := repository.NewChatRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	// --- Services ---
	userService := services.NewUserService(userRepo, cfg.BaseURL)
	notifService := services.NewNotificationService(notifRepo)
	listService := services.NewListService(listRepo, userRepo, notifService)
	taskService := services.NewTaskService(taskRepo, listRepo)
	commentService := services.NewCommentService(commentRepo, taskService, notifService)
	chatService := services.NewChatService(chatRepo, notifService)

	// --- Notification scanner + scheduler ---
	scanner := notifier.NewScanner(taskRepo, notifRepo, userRepo, email.SendHTMLEmail)
	scheduler := notifier.NewScheduler(scanner, notifRepo)
	if cfg.SchedulerEnabled {
		scheduler.Start()
		defer scheduler.Stop()
	} else {
		logger.Log.Info("Notification scheduler disabled by configuration")
	}

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	listHandler := handlers.NewListHandler(listService)
	taskHandler := handlers.NewTaskHandler(taskService)
	commentHandler := handlers.NewCommentHandler(commentService)
	notifHandler := handlers.NewNotificationHandler(notifService, scheduler)
	chatHandler := handlers.NewChatHandler(chatService, cfg.JWTSecret)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Public user routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")
	router.HandleFunc("/users/verify", userHandler.VerifyEmailHandler).Methods("GET")
	router.HandleFunc("/users/request-password-reset", userHandler.RequestPasswordResetHandler).Methods("POST")
	router.HandleFunc("/users/reset-password", userHandler.ResetPasswordHandler).Methods("POST")

	// Protected user routes
	protectedUserRoutes := router.PathPrefix("/users").Subrouter()
	protectedUserRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedUserRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	protectedUserRoutes.HandleFunc("/{id}", userHandler.GetUserHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/{id}", userHandler.UpdateUserHandler).Methods("PATCH")

	// List routes
	protectedListRoutes := router.PathPrefix("/lists").Subrouter()
	protectedListRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedListRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	protectedListRoutes.HandleFunc("", listHandler.CreateListHandler).Methods("POST")
	protectedListRoutes.HandleFunc("", listHandler.GetListsHandler).Methods("GET")
	protectedListRoutes.HandleFunc("/{id}", listHandler.GetListHandler).Methods("GET")
	protectedListRoutes.HandleFunc("/{id}", listHandler.UpdateListHandler).Methods("PUT")
	protectedListRoutes.HandleFunc("/{id}", listHandler.DeleteListHandler).Methods("DELETE")
	protectedListRoutes.HandleFunc("/{id}/share", listHandler.ShareListHandler).Methods("POST")
	protectedListRoutes.HandleFunc("/{id}/collaborators/{userId}", listHandler.RemoveCollaboratorHandler).Methods("DELETE")
	protectedListRoutes.HandleFunc("/{id}/tasks", taskHandler.CreateTaskHandler).Methods("POST")
	protectedListRoutes.HandleFunc("/{id}/tasks", taskHandler.GetTasksByListHandler).Methods("GET")

	// Task routes
	protectedTaskRoutes := router.PathPrefix("/tasks").Subrouter()
	protectedTaskRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedTaskRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	protectedTaskRoutes.HandleFunc("/{id}", taskHandler.GetTaskHandler).Methods("GET")
	protectedTaskRoutes.HandleFunc("/{id}", taskHandler.UpdateTaskHandler).Methods("PATCH")
	protectedTaskRoutes.HandleFunc("/{id}", taskHandler.DeleteTaskHandler).Methods("DELETE")
	protectedTaskRoutes.HandleFunc("/{id}/complete", taskHandler.CompleteTaskHandler).Methods("POST")
	protectedTaskRoutes.HandleFunc("/{id}/comments", commentHandler.AddCommentHandler).Methods("POST")
	protectedTaskRoutes.HandleFunc("/{id}/comments", commentHandler.GetCommentsHandler).Methods("GET")
	protectedTaskRoutes.HandleFunc("/{id}/comments/{commentId}", commentHandler.DeleteCommentHandler).Methods("DELETE")

	// Notification routes
	protectedNotifRoutes := router.PathPrefix("/notifications").Subrouter()
	protectedNotifRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedNotifRoutes.HandleFunc("", notifHandler.GetUserNotificationsHandler).Methods("GET")
	protectedNotifRoutes.HandleFunc("/{id}/read", notifHandler.MarkAsReadHandler).Methods("POST")
	protectedNotifRoutes.HandleFunc("/{id}", notifHandler.DeleteNotificationHandler).Methods("DELETE")

	// Chat routes
	router.HandleFunc("/ws/chat", chatHandler.ChatWebSocketHandler)
	protectedChatRoutes := router.PathPrefix("/messages").Subrouter()
	protectedChatRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedChatRoutes.HandleFunc("/{userId}", chatHandler.GetChatHistoryHandler).Methods("GET")

	// Admin routes
	adminRoutes := router.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	adminRoutes.Use(middleware.RequireRole("admin"))
	adminRoutes.HandleFunc("/users", userHandler.AdminGetAllUsersHandler).Methods("GET")
	adminRoutes.HandleFunc("/notifications/scan", notifHandler.TriggerScanHandler).Methods("POST")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // adjust to frontend origin
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
