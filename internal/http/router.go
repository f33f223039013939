package http

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookviewer/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	tmpl := template.Must(template.New("").ParseGlob(cfg.TemplatesPath + "/*.html"))
	router.SetHTMLTemplate(tmpl)

	router.Static("/static", cfg.StaticPath)

	// Login, logout and first-run setup
	if cfg.AuthService != nil {
		authController, err := auth.NewController(cfg.AuthService, cfg.SessionManager, cfg.TemplatesPath, cfg.AuthConfig)
		if err == nil {
			authController.RegisterRoutes(router)
		}
	}

	render := &renderer{sessions: cfg.SessionManager}

	health := NewHealthController(cfg.Database, cfg.Version)
	bookcasesController := NewBookcasesController(cfg.Bookcases, render, cfg.PageSize)
	authorsController := NewAuthorsController(cfg.Authors, render, cfg.PageSize)
	booksController := NewBooksController(
		cfg.Books, cfg.Authors, cfg.Bookcases, cfg.PictureStore, render, cfg.PageSize,
	)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Dashboard home
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/books")
	})

	// Bookcase pages
	router.GET("/bookcases", bookcasesController.List)
	router.GET("/bookcases/new", bookcasesController.NewPage)
	router.POST("/bookcases", bookcasesController.Create)
	router.GET("/bookcases/:id/edit", bookcasesController.EditPage)
	router.POST("/bookcases/:id", bookcasesController.Update)
	router.GET("/bookcases/:id/delete", bookcasesController.DeletePage)
	router.POST("/bookcases/:id/delete", bookcasesController.Delete)

	// Author pages
	router.GET("/authors", authorsController.List)
	router.GET("/authors/new", authorsController.NewPage)
	router.POST("/authors", authorsController.Create)
	router.GET("/authors/:id/edit", authorsController.EditPage)
	router.POST("/authors/:id", authorsController.Update)
	router.GET("/authors/:id/delete", authorsController.DeletePage)
	router.POST("/authors/:id/delete", authorsController.Delete)

	// Book pages
	router.GET("/books", booksController.List)
	router.GET("/books/new", booksController.NewPage)
	router.POST("/books", booksController.Create)
	router.GET("/books/:id/edit", booksController.EditPage)
	router.POST("/books/:id", booksController.Update)
	router.GET("/books/:id/delete", booksController.DeletePage)
	router.POST("/books/:id/delete", booksController.Delete)

	// Uploaded cover pictures
	router.GET("/pictures/:name", booksController.Picture)

	return router
}
