package http

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bookviewer/internal/auth"
	"bookviewer/internal/database"
	"bookviewer/internal/database/authors"
	"bookviewer/internal/database/bookcases"
	"bookviewer/internal/database/books"
)

// testEnv wires the repositories and a bare router the way NewRouter does,
// minus sessions and CSRF; the stub middleware injects a fixed user.
type testEnv struct {
	db        *gorm.DB
	router    *gin.Engine
	bookcases *bookcases.Repository
	authors   *authors.Repository
	books     *books.Repository
}

// createTestTemplates defines every page template with a short marker body
// so assertions can check which template rendered and with what.
func createTestTemplates() *template.Template {
	return template.Must(template.New("").Parse(`
{{define "bookcases-list"}}bookcases-list rows={{len .Rows}} {{range .Rows}}[{{.Name}} slots={{.SlotCount}}]{{end}}{{end}}
{{define "bookcase-form"}}bookcase-form error={{.Error}}{{end}}
{{define "bookcase-delete"}}bookcase-delete {{.Bookcase.Name}}{{end}}
{{define "authors-list"}}authors-list rows={{len .Authors}} {{range .Authors}}[{{.FullName}}]{{end}}{{end}}
{{define "author-form"}}author-form error={{.Error}}{{end}}
{{define "author-delete"}}author-delete {{.Author.FullName}}{{end}}
{{define "books-list"}}books-list rows={{len .Books}} {{range .Books}}[{{.Name}}@{{.BookcaseSlot.Label}}]{{end}}{{end}}
{{define "book-form"}}book-form error={{.Error}} authors={{len .Authors}} slots={{len .Slots}}{{end}}
{{define "book-delete"}}book-delete {{.Book.Name}}{{end}}
`))
}

func setupTestEnv(t *testing.T, userID uint) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewSilentDatabase(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	env := &testEnv{
		db:        db.DB,
		bookcases: bookcases.NewRepository(db.DB),
		authors:   authors.NewRepository(db.DB),
		books:     books.NewRepository(db.DB),
	}

	render := &renderer{}
	bookcasesController := NewBookcasesController(env.bookcases, render, 10)
	authorsController := NewAuthorsController(env.authors, render, 10)
	booksController := NewBooksController(env.books, env.authors, env.bookcases, nil, render, 10)

	router := gin.New()
	router.SetHTMLTemplate(createTestTemplates())
	router.Use(func(c *gin.Context) {
		c.Set(auth.ContextKeyUserID, userID)
		c.Next()
	})

	router.GET("/bookcases", bookcasesController.List)
	router.POST("/bookcases", bookcasesController.Create)
	router.GET("/bookcases/:id/edit", bookcasesController.EditPage)
	router.POST("/bookcases/:id", bookcasesController.Update)
	router.GET("/bookcases/:id/delete", bookcasesController.DeletePage)
	router.POST("/bookcases/:id/delete", bookcasesController.Delete)

	router.GET("/authors", authorsController.List)
	router.POST("/authors", authorsController.Create)
	router.POST("/authors/:id", authorsController.Update)
	router.POST("/authors/:id/delete", authorsController.Delete)

	router.GET("/books", booksController.List)
	router.GET("/books/new", booksController.NewPage)
	router.POST("/books", booksController.Create)
	router.POST("/books/:id", booksController.Update)
	router.POST("/books/:id/delete", booksController.Delete)

	env.router = router
	return env
}

// postForm submits an urlencoded form the way a browser would.
func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)
	return w
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}
