package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookviewer/internal/database"
	"bookviewer/internal/database/authors"
)

// AuthorsController serves the author dashboard pages. Authors are a shared
// catalog, not scoped per user.
type AuthorsController struct {
	repo     *authors.Repository
	render   *renderer
	pageSize int
}

func NewAuthorsController(repo *authors.Repository, render *renderer, pageSize int) *AuthorsController {
	return &AuthorsController{
		repo:     repo,
		render:   render,
		pageSize: pageSize,
	}
}

// List renders the author table with name filtering, ordering and pagination.
func (ctrl *AuthorsController) List(c *gin.Context) {
	firstnameFilter := c.Query("firstname")
	lastnameFilter := c.Query("lastname")
	orderBy := c.Query("order")
	page := parsePage(c)

	list, total, err := ctrl.repo.List(authors.ListOptions{
		FirstnameContains: firstnameFilter,
		LastnameContains:  lastnameFilter,
		OrderBy:           orderBy,
		Page:              page,
		PageSize:          ctrl.pageSize,
	})
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading authors: %s", err.Error())
		return
	}

	ctrl.render.HTML(c, http.StatusOK, "authors-list", "authors", gin.H{
		"Title":           "Authors",
		"Authors":         list,
		"FirstnameFilter": firstnameFilter,
		"LastnameFilter":  lastnameFilter,
		"OrderBy":         orderBy,
		"Pagination":      newPagination(page, ctrl.pageSize, total),
	})
}

// NewPage renders the empty creation form.
func (ctrl *AuthorsController) NewPage(c *gin.Context) {
	ctrl.render.HTML(c, http.StatusOK, "author-form", "authors", gin.H{
		"Title":     "New author",
		"Action":    "/authors",
		"Firstname": "",
		"Lastname":  "",
	})
}

// Create adds an author to the shared catalog.
func (ctrl *AuthorsController) Create(c *gin.Context) {
	firstname := c.PostForm("firstname")
	lastname := c.PostForm("lastname")

	author, err := ctrl.repo.Create(firstname, lastname)
	if err != nil {
		ctrl.render.HTML(c, http.StatusOK, "author-form", "authors", gin.H{
			"Title":     "New author",
			"Action":    "/authors",
			"Firstname": firstname,
			"Lastname":  lastname,
			"Error":     authorErrorMessage(err),
		})
		return
	}

	ctrl.render.flashSuccess(c, "Author \""+author.FullName()+"\" created")
	c.Redirect(http.StatusFound, "/authors")
}

// EditPage renders the edit form.
func (ctrl *AuthorsController) EditPage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := ctrl.repo.GetByID(id)
	if err != nil {
		c.String(http.StatusNotFound, "Author not found")
		return
	}

	ctrl.render.HTML(c, http.StatusOK, "author-form", "authors", gin.H{
		"Title":     "Edit author",
		"Action":    authorPath(author.ID),
		"Firstname": author.Firstname,
		"Lastname":  author.Lastname,
		"Editing":   true,
	})
}

// Update changes an author's name pair.
func (ctrl *AuthorsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	firstname := c.PostForm("firstname")
	lastname := c.PostForm("lastname")

	author, err := ctrl.repo.Update(id, firstname, lastname)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.String(http.StatusNotFound, "Author not found")
			return
		}
		ctrl.render.HTML(c, http.StatusOK, "author-form", "authors", gin.H{
			"Title":     "Edit author",
			"Action":    authorPath(id),
			"Firstname": firstname,
			"Lastname":  lastname,
			"Editing":   true,
			"Error":     authorErrorMessage(err),
		})
		return
	}

	ctrl.render.flashSuccess(c, "Author \""+author.FullName()+"\" updated")
	c.Redirect(http.StatusFound, authorPath(id)+"/edit")
}

// DeletePage renders the delete confirmation.
func (ctrl *AuthorsController) DeletePage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := ctrl.repo.GetByID(id)
	if err != nil {
		c.String(http.StatusNotFound, "Author not found")
		return
	}

	ctrl.render.HTML(c, http.StatusOK, "author-delete", "authors", gin.H{
		"Title":  "Delete author",
		"Author": author,
		"Action": authorPath(author.ID) + "/delete",
	})
}

// Delete removes the author together with all of their books.
func (ctrl *AuthorsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.repo.Delete(id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.String(http.StatusNotFound, "Author not found")
			return
		}
		c.String(http.StatusInternalServerError, "Error deleting author: %s", err.Error())
		return
	}

	ctrl.render.flashSuccess(c, "Author deleted")
	c.Redirect(http.StatusFound, "/authors")
}

func authorPath(id uint) string {
	return "/authors/" + uintToString(id)
}

func authorErrorMessage(err error) string {
	var ve *database.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, database.ErrConstraint):
		return "An author with this name already exists"
	default:
		return "Failed to save author"
	}
}
