package main

import (
	"context"
	"log"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/mindcanvas/backend/internal/ai"
	"github.com/mindcanvas/backend/internal/router"
	"github.com/mindcanvas/backend/internal/storage"
	"github.com/mindcanvas/backend/internal/store"
	"github.com/mindcanvas/backend/internal/video"
	"github.com/mindcanvas/backend/pkg/config"
	"github.com/mindcanvas/backend/pkg/firebase"
	"github.com/mindcanvas/backend/validators"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Without credentials the server only serves setup instructions
	if cfg.FirebaseCredentialsPath == "" || !fileExists(cfg.FirebaseCredentialsPath) {
		log.Println("Firebase credentials not found, serving setup instructions only.")
		router.SetupSetupRoutes(e)
		e.Logger.Fatal(e.Start(":" + cfg.Port))
		return
	}

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirestoreProjectID, cfg.StorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}
	defer firebaseApp.Close()

	// Pick the document store backend
	docs, cleanup, err := initDocumentStore(ctx, cfg, firebaseApp)
	if err != nil {
		log.Fatalf("Failed to initialize document store: %v", err)
	}
	defer cleanup()

	objects := storage.NewFirebaseStorage(firebaseApp.Bucket)

	// AI client is optional; endpoints report the missing key per request
	var aiClient *ai.Client
	if cfg.OpenAIAPIKey != "" {
		aiClient = ai.NewClient(cfg.OpenAIAPIKey)
	} else {
		log.Println("OPENAI_API_KEY not set, AI endpoints will be unavailable.")
	}

	// Video client is optional as well
	var videoClient *video.Client
	if cfg.YouTubeAPIKey != "" {
		videoClient, err = video.NewClient(ctx, cfg.YouTubeAPIKey)
		if err != nil {
			log.Fatalf("Failed to initialize YouTube client: %v", err)
		}
	} else {
		log.Println("YOUTUBE_API_KEY not set, video endpoints will be unavailable.")
	}

	// Setup routes and dependencies
	router.SetupRoutes(e, router.Dependencies{
		AuthClient: firebaseApp.AuthClient,
		Docs:       docs,
		Objects:    objects,
		AI:         aiClient,
		Videos:     videoClient,
	})

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

// initDocumentStore selects the document store backend from configuration.
// Firestore is the default; Mongo is available for self-hosted deployments.
func initDocumentStore(ctx context.Context, cfg *config.Config, firebaseApp *firebase.App) (store.DocumentStore, func(), error) {
	switch cfg.DocStore {
	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, err
		}
		if err := client.Ping(ctx, nil); err != nil {
			return nil, nil, err
		}
		log.Println("Connected to MongoDB document store.")
		cleanup := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Printf("Error disconnecting MongoDB client: %v\n", err)
			}
		}
		return store.NewMongoStore(client.Database(cfg.MongoDatabase)), cleanup, nil
	default:
		log.Println("Using Firestore document store.")
		return store.NewFirestoreStore(firebaseApp.Firestore), func() {}, nil
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
