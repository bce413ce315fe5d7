package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/tasklight-dev/tasklight/db"
	"github.com/tasklight-dev/tasklight/internal/auth"
	"github.com/tasklight-dev/tasklight/internal/router"
	"github.com/tasklight-dev/tasklight/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")

	if dsn == "" {
		log.Fatalf("DATABASE_URL environment variable is not set")
	}

	gormDB, err := db.Connect(dsn)

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	users := store.NewUserStore(gormDB)
	todos := store.NewTodoStore(gormDB)
	projects := store.NewProjectStore(gormDB)

	var redisClient *redis.Client

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: addr})
	}

	r := router.NewRouter(users, todos, projects, redisClient)

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
