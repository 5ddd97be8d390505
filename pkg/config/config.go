package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from the environment
type Config struct {
	Port                    string
	Env                     string
	FirebaseCredentialsPath string
	FirestoreProjectID      string
	StorageBucket           string
	OpenAIAPIKey            string
	YouTubeAPIKey           string
	DocStore                string // "firestore" or "mongo"
	MongoURI                string
	MongoDatabase           string
}

// Load reads configuration from the environment, falling back to defaults
func Load() *Config {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		FirestoreProjectID:      getEnv("FIRESTORE_PROJECT_ID", ""),
		StorageBucket:           getEnv("FIREBASE_STORAGE_BUCKET", ""),
		OpenAIAPIKey:            getEnv("OPENAI_API_KEY", ""),
		YouTubeAPIKey:           getEnv("YOUTUBE_API_KEY", ""),
		DocStore:                getEnv("DOC_STORE", "firestore"),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "mindcanvas"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
