package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const setupPage = `<!DOCTYPE html>
<html>
<head>
  <title>MindCanvas API - Setup Required</title>
  <style>
    body { font-family: sans-serif; max-width: 720px; margin: 40px auto; padding: 0 16px; color: #222; }
    code { background: #f4f4f4; padding: 2px 6px; border-radius: 4px; }
    pre { background: #f4f4f4; padding: 12px; border-radius: 6px; overflow-x: auto; }
  </style>
</head>
<body>
  <h1>Setup Required</h1>
  <p>The server started without Firebase credentials, so the API is not available yet.</p>
  <ol>
    <li>Create a Firebase project and enable Authentication, Firestore and Storage.</li>
    <li>Download a service account key from the Firebase console.</li>
    <li>Save it next to the server binary and point the environment at it:</li>
  </ol>
  <pre>FIREBASE_CREDENTIALS_PATH=./firebase_credentials.json
FIREBASE_STORAGE_BUCKET=your-project.appspot.com
FIRESTORE_PROJECT_ID=your-project
OPENAI_API_KEY=sk-...</pre>
  <p>Optional keys: <code>YOUTUBE_API_KEY</code>, <code>DOC_STORE</code>, <code>MONGO_URI</code>, <code>MONGO_DATABASE</code>, <code>PORT</code>.</p>
  <p>Then restart the server.</p>
</body>
</html>`

// SetupInstructions serves a static page explaining how to configure the
// server. Registered as a catch-all when credentials are missing.
func SetupInstructions(c echo.Context) error {
	return c.HTML(http.StatusServiceUnavailable, setupPage)
}
