package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bookviewer/internal/auth"
)

// GetUserID extracts the authenticated user's ID from the Gin context.
func GetUserID(c *gin.Context) uint {
	return auth.GetUserID(c)
}

// Pagination carries everything a list template needs to render page links.
type Pagination struct {
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
}

func (p Pagination) HasPrev() bool { return p.Page > 1 }
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }
func (p Pagination) PrevPage() int { return p.Page - 1 }
func (p Pagination) NextPage() int { return p.Page + 1 }

// newPagination clamps the page into range and derives the page count.
func newPagination(page, pageSize int, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	totalPages := 1
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
		if totalPages < 1 {
			totalPages = 1
		}
	}
	if page > totalPages {
		page = totalPages
	}
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// uintToString formats an ID for URL building.
func uintToString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// parsePage reads the page query parameter, defaulting to 1.
func parsePage(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// parseIDParam extracts and validates an unsigned integer ID from URL
// parameters. Responds with a 400 and returns false on garbage input.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid %s", paramName)
		return 0, false
	}
	return uint(id), true
}

// parseOptionalInt reads a positive integer form/query value, returning 0
// for empty or invalid input ("no filter").
func parseOptionalInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parseOptionalID converts a form value to an optional foreign key. Empty
// and zero both mean "none".
func parseOptionalID(value string) *uint {
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil || n == 0 {
		return nil
	}
	id := uint(n)
	return &id
}

// renderer renders dashboard pages with the shared chrome: active menu
// section, username, CSRF token and queued flash messages.
type renderer struct {
	sessions *auth.SessionManager
}

func (r *renderer) HTML(c *gin.Context, status int, template, section string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Section"] = section
	data["Username"] = auth.GetUsername(c)
	data["CSRFToken"] = auth.GetCSRFToken(c)
	flashes := []auth.Flash{}
	if r.sessions != nil {
		flashes = r.sessions.PopFlashes(c.Request)
	}
	data["Flashes"] = flashes
	c.HTML(status, template, data)
}

// flash queues a one-shot notice for the next rendered page.
func (r *renderer) flash(c *gin.Context, level, text string) {
	if r.sessions != nil {
		r.sessions.PutFlash(c.Request, level, text)
	}
}

func (r *renderer) flashSuccess(c *gin.Context, text string) {
	r.flash(c, auth.FlashSuccess, text)
}

func (r *renderer) flashError(c *gin.Context, text string) {
	r.flash(c, auth.FlashError, text)
}
