package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookviewer/internal/database"
	"bookviewer/internal/database/bookcases"
	"bookviewer/internal/entities"
)

// BookcasesController serves the bookcase dashboard pages.
type BookcasesController struct {
	repo     *bookcases.Repository
	render   *renderer
	pageSize int
}

func NewBookcasesController(repo *bookcases.Repository, render *renderer, pageSize int) *BookcasesController {
	return &BookcasesController{
		repo:     repo,
		render:   render,
		pageSize: pageSize,
	}
}

// bookcaseRow pairs a bookcase with its slot count for the list table.
type bookcaseRow struct {
	entities.Bookcase
	SlotCount int64
}

// List renders the bookcase table with name filtering, ordering and
// pagination.
func (ctrl *BookcasesController) List(c *gin.Context) {
	userID := GetUserID(c)
	nameFilter := c.Query("name")
	orderBy := c.Query("order")
	page := parsePage(c)

	cases, total, err := ctrl.repo.List(userID, bookcases.ListOptions{
		NameContains: nameFilter,
		OrderBy:      orderBy,
		Page:         page,
		PageSize:     ctrl.pageSize,
	})
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading bookcases: %s", err.Error())
		return
	}

	ids := make([]uint, 0, len(cases))
	for _, bookcase := range cases {
		ids = append(ids, bookcase.ID)
	}
	counts, err := ctrl.repo.SlotCounts(ids)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading slot counts: %s", err.Error())
		return
	}

	rows := make([]bookcaseRow, 0, len(cases))
	for _, bookcase := range cases {
		rows = append(rows, bookcaseRow{Bookcase: bookcase, SlotCount: counts[bookcase.ID]})
	}

	ctrl.render.HTML(c, http.StatusOK, "bookcases-list", "bookcases", gin.H{
		"Title":      "Bookcases",
		"Rows":       rows,
		"NameFilter": nameFilter,
		"OrderBy":    orderBy,
		"Pagination": newPagination(page, ctrl.pageSize, total),
	})
}

// NewPage renders the empty creation form.
func (ctrl *BookcasesController) NewPage(c *gin.Context) {
	ctrl.render.HTML(c, http.StatusOK, "bookcase-form", "bookcases", gin.H{
		"Title":            "New bookcase",
		"Action":           "/bookcases",
		"Name":             "",
		"ShelfCount":       0,
		"ShelfCapacity":    0,
		"MaxShelfCount":    bookcases.MaxShelfCount,
		"MaxShelfCapacity": bookcases.MaxShelfCapacity,
	})
}

// Create provisions a bookcase with its full slot grid.
func (ctrl *BookcasesController) Create(c *gin.Context) {
	userID := GetUserID(c)
	name := c.PostForm("name")
	shelfCount := parseOptionalInt(c.PostForm("shelf_count"))
	shelfCapacity := parseOptionalInt(c.PostForm("shelf_capacity"))

	bookcase, err := ctrl.repo.Create(userID, name, shelfCount, shelfCapacity)
	if err != nil {
		ctrl.render.HTML(c, http.StatusOK, "bookcase-form", "bookcases", gin.H{
			"Title":            "New bookcase",
			"Action":           "/bookcases",
			"Name":             name,
			"ShelfCount":       shelfCount,
			"ShelfCapacity":    shelfCapacity,
			"MaxShelfCount":    bookcases.MaxShelfCount,
			"MaxShelfCapacity": bookcases.MaxShelfCapacity,
			"Error":            bookcaseErrorMessage(err),
		})
		return
	}

	ctrl.render.flashSuccess(c, "Bookcase \""+bookcase.Name+"\" created")
	c.Redirect(http.StatusFound, "/bookcases")
}

// EditPage renders the rename form. Geometry is fixed after provisioning,
// so only the name is editable.
func (ctrl *BookcasesController) EditPage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	bookcase, err := ctrl.repo.GetForUser(id, GetUserID(c))
	if err != nil {
		c.String(http.StatusNotFound, "Bookcase not found")
		return
	}

	ctrl.render.HTML(c, http.StatusOK, "bookcase-form", "bookcases", gin.H{
		"Title":    "Edit bookcase",
		"Action":   bookcasePath(bookcase.ID),
		"Name":     bookcase.Name,
		"Editing":  true,
		"Bookcase": bookcase,
	})
}

// Update renames a bookcase.
func (ctrl *BookcasesController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID := GetUserID(c)
	name := c.PostForm("name")

	bookcase, err := ctrl.repo.Rename(id, userID, name)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.String(http.StatusNotFound, "Bookcase not found")
			return
		}
		ctrl.render.HTML(c, http.StatusOK, "bookcase-form", "bookcases", gin.H{
			"Title":   "Edit bookcase",
			"Action":  bookcasePath(id),
			"Name":    name,
			"Editing": true,
			"Error":   bookcaseErrorMessage(err),
		})
		return
	}

	ctrl.render.flashSuccess(c, "Bookcase \""+bookcase.Name+"\" updated")
	c.Redirect(http.StatusFound, bookcasePath(id)+"/edit")
}

// DeletePage renders the delete confirmation.
func (ctrl *BookcasesController) DeletePage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	bookcase, err := ctrl.repo.GetForUser(id, GetUserID(c))
	if err != nil {
		c.String(http.StatusNotFound, "Bookcase not found")
		return
	}

	ctrl.render.HTML(c, http.StatusOK, "bookcase-delete", "bookcases", gin.H{
		"Title":    "Delete bookcase",
		"Bookcase": bookcase,
		"Action":   bookcasePath(bookcase.ID) + "/delete",
	})
}

// Delete removes the bookcase and its slots; placed books become unplaced.
func (ctrl *BookcasesController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.repo.Delete(id, GetUserID(c)); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.String(http.StatusNotFound, "Bookcase not found")
			return
		}
		c.String(http.StatusInternalServerError, "Error deleting bookcase: %s", err.Error())
		return
	}

	ctrl.render.flashSuccess(c, "Bookcase deleted")
	c.Redirect(http.StatusFound, "/bookcases")
}

func bookcasePath(id uint) string {
	return "/bookcases/" + uintToString(id)
}

// bookcaseErrorMessage maps repository errors to form messages.
func bookcaseErrorMessage(err error) string {
	var ve *database.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, database.ErrConstraint):
		return "You already have a bookcase with this name"
	default:
		return "Failed to save bookcase"
	}
}
