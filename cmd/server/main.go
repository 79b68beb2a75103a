package main

import (
	"html/template"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"podbooker/internal/db"
	"podbooker/internal/handlers"
	"podbooker/internal/middleware"
	"podbooker/internal/notify"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	store, err := db.Connect(dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer asynqClient.Close()

	broker := notify.NewRedisBroker(redisAddr)
	defer broker.Close()

	templates, err := template.ParseGlob(filepath.Join("web", "templates", "*.html"))
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	h := handlers.New(templates, store, asynqClient, broker, baseURL)
	auth := middleware.NewAuth(store, []byte(jwtSecret))
	limiter := middleware.NewRateLimiterMiddleware(rate.Limit(5), 10)

	r := mux.NewRouter()

	// Host console (authenticated).
	r.Handle("/", auth.Middleware(http.HandlerFunc(h.ServeWebApp))).Methods(http.MethodGet)
	r.Handle("/episodes", auth.Middleware(http.HandlerFunc(h.GetEpisodes))).Methods(http.MethodGet)
	r.Handle("/episodes", auth.Middleware(http.HandlerFunc(h.PostEpisode))).Methods(http.MethodPost)
	r.Handle("/api/send-invitation", auth.Middleware(http.HandlerFunc(h.PostSendInvitation))).Methods(http.MethodPost)
	r.Handle("/api/episodes/{id}/invitations", auth.Middleware(http.HandlerFunc(h.PostEpisodeInvitations))).Methods(http.MethodPost)
	r.Handle("/api/events", auth.Middleware(http.HandlerFunc(h.GetEvents))).Methods(http.MethodGet)

	// Public surfaces. The guest id in the booking link is the credential.
	r.Handle("/guest-booking/{guestId}", limiter.Middleware(http.HandlerFunc(h.GuestBooking)))
	r.HandleFunc("/feed/{uuid}", h.GetEpisodeFeed).Methods(http.MethodGet)

	log.Printf("Starting server on :%s (commit: %s)", port, CommitSHA)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}
