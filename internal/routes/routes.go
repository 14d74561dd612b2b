package routes

import (
	"net/http"

	"github.com/notestack/notestack/internal/app"
	"github.com/notestack/notestack/internal/handler"
	"github.com/notestack/notestack/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	upload := handler.NewUploadHandler(app.IngestService, app.Cfg.MaxUploadBytes)
	browse := handler.NewBrowseHandler(app.CatalogService)
	admin := handler.NewAdminHandler(app.AuthService, app.ModerationService, upload)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /subjects", browse.Subjects)
	mux.HandleFunc("GET /browse", browse.Browse)
	mux.HandleFunc("GET /files/{key}", browse.ViewFile)
	mux.HandleFunc("GET /download/{key}", browse.DownloadFile)

	mux.HandleFunc("POST /upload", upload.Upload)

	// Admin login (rate limited)
	rateLimiter := middleware.RateLimitLogin()
	mux.HandleFunc("POST /admin/login", rateLimiter(admin.Login))
	mux.HandleFunc("POST /admin/logout", admin.Logout)

	// ============================================================================
	// MODERATION ROUTES (/admin/*)
	// ============================================================================

	requireAdmin := middleware.RequireAdmin(app.AuthService)
	mux.HandleFunc("GET /admin/pending", requireAdmin(admin.Pending))
	mux.HandleFunc("GET /admin/pending/{id}/file", requireAdmin(admin.PendingFile))
	mux.HandleFunc("POST /admin/approve/{id}", requireAdmin(admin.Approve))
	mux.HandleFunc("POST /admin/reject/{id}", requireAdmin(admin.Reject))
	mux.HandleFunc("POST /admin/upload", requireAdmin(admin.Upload))

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.RequestLogging,
	)

	return handler
}
