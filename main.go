package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sabelo-news/api-go/config"
	"github.com/sabelo-news/api-go/middleware"
	"github.com/sabelo-news/api-go/newsapi"
	"github.com/sabelo-news/api-go/routes"
	"github.com/sabelo-news/api-go/store"
	"github.com/sabelo-news/api-go/thread"
)

func main() {
	// Set up logging to stdout
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Initialize database
	db := config.InitDB()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Comment changes reach live streams through Postgres notifications
	broker := thread.NewBroker()
	if err := store.Listen(ctx, config.DSN(), broker); err != nil {
		log.Fatalf("Failed to listen for comment changes: %v", err)
	}
	comments := thread.NewService(store.NewCommentStore(db), broker)
	articles := newsapi.New(config.NewsAPIURL())

	r := gin.New()
	r.Use(gin.LoggerWithWriter(os.Stdout), gin.Recovery())

	routes.SetupRoutes(r, db, middleware.DBUsers(db), comments, articles)

	srv := &http.Server{
		Addr:    ":" + config.Port(),
		Handler: r,
		// Open comment streams end with the server
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		log.Printf("Starting server on port %s", config.Port())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}
