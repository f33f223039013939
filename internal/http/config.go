package http

import (
	"bookviewer/internal/auth"
	"bookviewer/internal/config"
	"bookviewer/internal/database"
	"bookviewer/internal/database/authors"
	"bookviewer/internal/database/bookcases"
	"bookviewer/internal/database/books"
	"bookviewer/internal/pictures"
)

// RouterConfig contains all dependencies and configuration needed to create
// the HTTP router. This replaces a long parameter list in NewRouter.
type RouterConfig struct {
	// Core dependencies
	Database  *database.Database
	Bookcases *bookcases.Repository
	Authors   *authors.Repository
	Books     *books.Repository

	// Picture uploads
	PictureStore *pictures.Store

	// Authentication
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	AuthConfig     config.Auth
	CSRFSecret     []byte
	SecureCookies  bool

	// UI
	TemplatesPath string
	StaticPath    string
	PageSize      int

	// Application info
	Version string
}
