package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"podbooker/internal/db"
	"podbooker/internal/mailer"
	"podbooker/internal/worker"
	"podbooker/pkg/tasks"
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

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	smtpPort, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		smtpPort = 587
	}
	m, err := mailer.NewSMTPMailer(
		os.Getenv("SMTP_HOST"),
		smtpPort,
		os.Getenv("SMTP_USERNAME"),
		os.Getenv("SMTP_PASSWORD"),
		os.Getenv("MAIL_FROM"),
	)
	if err != nil {
		log.Fatalf("Failed to configure mailer: %v", err)
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"high":    2,
				"default": 1,
			},
			// Custom retry delay function for exponential backoff
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				// Exponential backoff: 1min, 2min, 4min, 8min, etc.
				delay := time.Minute
				maxDelay := time.Hour

				for i := 0; i < n; i++ {
					delay *= 2
					if delay > maxDelay {
						delay = maxDelay
						break
					}
				}

				log.Printf("Task %s failed %d times, retrying in %v", task.Type(), n+1, delay)
				return delay
			},
		},
	)

	asynqMux := asynq.NewServeMux()
	taskHandler := worker.NewTaskHandler(store, m, baseURL)

	asynqMux.HandleFunc(tasks.TypeSendInvitation, taskHandler.HandleSendInvitationTask)
	asynqMux.HandleFunc(tasks.TypeRemindPending, taskHandler.HandleRemindPendingTask)

	log.Printf("Worker starting (commit: %s)", CommitSHA)
	if err := srv.Run(asynqMux); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
