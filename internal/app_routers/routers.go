package approuters

import (
	"Parley/internal/apperr"
	"Parley/internal/auth"
	"Parley/internal/configuration"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// wsErrorStatus maps taxonomy errors onto HTTP statuses for the websocket
// attach, mirroring the API's handler mapping.
func wsErrorStatus(err error) (int, string) {
	switch apperr.KindOf(err) {
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized, err.Error()
	case apperr.KindNotFound:
		return http.StatusNotFound, err.Error()
	case apperr.KindAccessDenied:
		return http.StatusForbidden, err.Error()
	case apperr.KindValidation:
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func StartServer(container *configuration.Container) {
	h := container.Hub

	// WebSocket attach: resolve the identity and enforce conversation
	// membership before upgrading.
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		token := auth.ExtractToken(r)
		if token == "" {
			http.Error(w, "unauthenticated", http.StatusUnauthorized)
			return
		}
		subject, err := container.Verifier.Verify(r.Context(), token)
		if err != nil || subject == "" {
			http.Error(w, "unauthenticated", http.StatusUnauthorized)
			return
		}

		conversationID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("conversationId"))
		if err != nil {
			http.Error(w, "conversationId is required", http.StatusBadRequest)
			return
		}

		user, err := container.UserService.RequireBySubject(r.Context(), subject)
		if err != nil {
			status, message := wsErrorStatus(err)
			http.Error(w, message, status)
			return
		}
		if _, err := container.ConversationService.GetByID(r.Context(), user, conversationID); err != nil {
			status, message := wsErrorStatus(err)
			http.Error(w, message, status)
			return
		}

		h.ServeWS(w, r, user.ID.Hex(), conversationID.Hex())
	})

	socketServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", container.Config.Server.SocketPort),
		Handler:      nil, // uses DefaultServeMux
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	appServer := createAppServer(container)

	serverErrors := make(chan error, 2)

	go func() {
		log.Printf("Socket server starting at ws://localhost:%d", container.Config.Server.SocketPort)
		if err := socketServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("socket server error: %w", err)
		}
	}()

	go func() {
		log.Printf("Application server starting at http://localhost:%d", container.Config.Server.AppPort)
		if err := appServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("app server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Printf("Server error: %v", err)
	case sig := <-quit:
		log.Printf("Received signal: %v. Initiating graceful shutdown...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Println("Stopping hub and closing all WebSocket connections...")
	h.Stop()

	log.Println("Shutting down socket server...")
	if err := socketServer.Shutdown(ctx); err != nil {
		log.Printf("Socket server shutdown error: %v", err)
	}

	log.Println("Shutting down application server...")
	if err := appServer.Shutdown(ctx); err != nil {
		log.Printf("App server shutdown error: %v", err)
	}

	log.Println("Graceful shutdown complete")
}

func createAppServer(container *configuration.Container) *http.Server {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     container.Config.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the Parley API!",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	UserRouters(router, container)
	ConversationRouters(router, container)
	MessageRouters(router, container)
	MonitorRouters(router, container)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", container.Config.Server.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
