package router

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/mindcanvas/backend/internal/ai"
	"github.com/mindcanvas/backend/internal/handlers"
	"github.com/mindcanvas/backend/internal/middleware"
	"github.com/mindcanvas/backend/internal/services"
	"github.com/mindcanvas/backend/internal/storage"
	"github.com/mindcanvas/backend/internal/store"
	"github.com/mindcanvas/backend/internal/video"
	"github.com/mindcanvas/backend/internal/workflow"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.HTTPErrorHandler = httpErrorHandler
	log.Println("Global middleware configured.")
}

// httpErrorHandler renders every failure as {"error": "..."} so clients can
// rely on a single error envelope across the API.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := err.Error()
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		message = fmt.Sprintf("%v", httpErr.Message)
	}

	if c.Request().Method == http.MethodHead {
		if err := c.NoContent(code); err != nil {
			c.Logger().Error(err)
		}
		return
	}
	if err := c.JSON(code, echo.Map{"error": message}); err != nil {
		c.Logger().Error(err)
	}
}

// Dependencies carries the initialized clients the routes are built on. The AI
// and video clients may be nil when their API keys are not configured; the
// handlers report that per request.
type Dependencies struct {
	AuthClient *auth.Client
	Docs       store.DocumentStore
	Objects    storage.ObjectStore
	AI         *ai.Client
	Videos     *video.Client
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize services ---
	fetcher := services.NewHTTPImageFetcher()
	imageService := services.NewImageService(deps.Docs, deps.Objects, fetcher)
	noteService := services.NewNoteService(deps.Docs, deps.Objects)
	userService := services.NewUserService(deps.Docs)
	bookmarkService := services.NewBookmarkService(deps.Docs)

	// --- Protected routes (require Firebase authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.FirebaseAuthMiddleware(deps.AuthClient))
	log.Println("Firebase authentication middleware applied to /api/v1 group.")

	// AI content routes; a typed nil must not leak into the interface
	var aiProvider handlers.AIProvider
	if deps.AI != nil {
		aiProvider = deps.AI
	}
	aiHandler := handlers.NewAIHandler(aiProvider, fetcher)
	aiHandler.RegisterAIRoutes(api)
	log.Println("AI content routes configured.")

	// Guided flow routes; same typed-nil care for the workflow interfaces
	var generator workflow.ImageGenerator
	var transcriber workflow.Transcriber
	if deps.AI != nil {
		generator = deps.AI
		transcriber = deps.AI
	}
	flows := workflow.NewRegistry(generator, imageService, transcriber, noteService, noteService)
	flowHandler := handlers.NewFlowHandler(flows, deps.AI != nil)
	flowHandler.RegisterFlowRoutes(api)
	log.Println("Guided flow routes configured.")

	// Gallery routes
	imageHandler := handlers.NewImageHandler(imageService)
	imageHandler.RegisterImageRoutes(api)
	log.Println("Gallery routes configured.")

	// Note routes
	noteHandler := handlers.NewNoteHandler(noteService)
	noteHandler.RegisterNoteRoutes(api)
	log.Println("Note routes configured.")

	// Profile routes
	userHandler := handlers.NewUserHandler(userService)
	userHandler.RegisterProfileRoutes(api)
	log.Println("Profile routes configured.")

	// Bookmark routes
	bookmarkHandler := handlers.NewBookmarkHandler(bookmarkService)
	bookmarkHandler.RegisterBookmarkRoutes(api)
	log.Println("Bookmark routes configured.")

	// Video discovery routes
	videoHandler := handlers.NewVideoHandler(deps.Videos)
	videoHandler.RegisterVideoRoutes(api)
	log.Println("Video discovery routes configured.")

	log.Println("All routes configured.")
}

// SetupSetupRoutes serves the configuration instructions page on every path.
// Used when the server starts without Firebase credentials.
func SetupSetupRoutes(e *echo.Echo) {
	e.GET("/health", handlers.HealthCheck)
	e.Any("/*", handlers.SetupInstructions)
	log.Println("Setup instructions page configured; API routes disabled.")
}
