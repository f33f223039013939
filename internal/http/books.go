package http

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookviewer/internal/database"
	"bookviewer/internal/database/authors"
	"bookviewer/internal/database/bookcases"
	"bookviewer/internal/database/books"
	"bookviewer/internal/pictures"
)

// BooksController serves the book dashboard pages. The form offers the
// shared author catalog and the slots of the user's own bookcases; cover
// pictures are uploaded as multipart files and stored on disk.
type BooksController struct {
	repo      *books.Repository
	authors   *authors.Repository
	bookcases *bookcases.Repository
	store     *pictures.Store
	render    *renderer
	pageSize  int
}

func NewBooksController(
	repo *books.Repository,
	authorsRepo *authors.Repository,
	bookcasesRepo *bookcases.Repository,
	store *pictures.Store,
	render *renderer,
	pageSize int,
) *BooksController {
	return &BooksController{
		repo:      repo,
		authors:   authorsRepo,
		bookcases: bookcasesRepo,
		store:     store,
		render:    render,
		pageSize:  pageSize,
	}
}

// List renders the placed books of the user's bookcases with the filter row
// and pagination.
func (ctrl *BooksController) List(c *gin.Context) {
	userID := GetUserID(c)
	opts := books.ListOptions{
		BookcaseNameContains: c.Query("bookcase"),
		Shelf:                parseOptionalInt(c.Query("shelf")),
		SlotNumber:           parseOptionalInt(c.Query("slot")),
		NameContains:         c.Query("name"),
		AuthorNameContains:   c.Query("author"),
		OrderBy:              c.Query("order"),
		Page:                 parsePage(c),
		PageSize:             ctrl.pageSize,
	}

	list, total, err := ctrl.repo.List(userID, opts)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading books: %s", err.Error())
		return
	}

	ctrl.render.HTML(c, http.StatusOK, "books-list", "books", gin.H{
		"Title":          "Books",
		"Books":          list,
		"BookcaseFilter": opts.BookcaseNameContains,
		"ShelfFilter":    opts.Shelf,
		"SlotFilter":     opts.SlotNumber,
		"NameFilter":     opts.NameContains,
		"AuthorFilter":   opts.AuthorNameContains,
		"OrderBy":        opts.OrderBy,
		"Pagination":     newPagination(opts.Page, ctrl.pageSize, total),
	})
}

// NewPage renders the empty creation form.
func (ctrl *BooksController) NewPage(c *gin.Context) {
	ctrl.renderBookForm(c, GetUserID(c), gin.H{
		"Title":  "New book",
		"Action": "/books",
	})
}

// Create adds a book, optionally placing it into a slot and storing an
// uploaded cover picture.
func (ctrl *BooksController) Create(c *gin.Context) {
	userID := GetUserID(c)
	name := c.PostForm("name")
	authorID := formAuthorID(c)
	slotID := parseOptionalID(c.PostForm("slot_id"))

	picture, err := ctrl.savePictureUpload(c)
	if err != nil {
		ctrl.renderBookForm(c, userID, gin.H{
			"Title":  "New book",
			"Action": "/books",
			"Name":   name,
			"Error":  pictureErrorMessage(err),
		})
		return
	}

	book, err := ctrl.repo.Create(userID, authorID, slotID, name, picture)
	if err != nil {
		if picture != "" {
			_ = ctrl.store.Remove(picture)
		}
		ctrl.renderBookForm(c, userID, gin.H{
			"Title":          "New book",
			"Action":         "/books",
			"Name":           name,
			"SelectedAuthor": authorID,
			"SelectedSlot":   slotValue(slotID),
			"Error":          bookErrorMessage(err),
		})
		return
	}

	ctrl.render.flashSuccess(c, "Book \""+book.Name+"\" created")
	c.Redirect(http.StatusFound, "/books")
}

// EditPage renders the edit form for a book. Unplaced books stay editable
// so they can be re-placed after their bookcase was deleted.
func (ctrl *BooksController) EditPage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID := GetUserID(c)

	book, err := ctrl.repo.GetForUser(id, userID)
	if err != nil {
		c.String(http.StatusNotFound, "Book not found")
		return
	}

	ctrl.renderBookForm(c, userID, gin.H{
		"Title":          "Edit book",
		"Action":         bookPath(book.ID),
		"Name":           book.Name,
		"SelectedAuthor": book.AuthorID,
		"SelectedSlot":   slotValue(book.BookcaseSlotID),
		"Picture":        book.Picture,
		"Editing":        true,
	})
}

// Update changes a book's name, author, placement and picture. Without a
// new upload the stored picture is kept unless removal was requested.
func (ctrl *BooksController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID := GetUserID(c)
	name := c.PostForm("name")
	authorID := formAuthorID(c)
	slotID := parseOptionalID(c.PostForm("slot_id"))

	var picture *string
	uploaded, err := ctrl.savePictureUpload(c)
	if err != nil {
		ctrl.renderBookForm(c, userID, gin.H{
			"Title":          "Edit book",
			"Action":         bookPath(id),
			"Name":           name,
			"SelectedAuthor": authorID,
			"SelectedSlot":   slotValue(slotID),
			"Editing":        true,
			"Error":          pictureErrorMessage(err),
		})
		return
	}
	if uploaded != "" {
		picture = &uploaded
	} else if c.PostForm("remove_picture") != "" {
		empty := ""
		picture = &empty
	}

	book, err := ctrl.repo.Update(id, userID, authorID, slotID, name, picture)
	if err != nil {
		if uploaded != "" {
			_ = ctrl.store.Remove(uploaded)
		}
		if errors.Is(err, database.ErrNotFound) {
			c.String(http.StatusNotFound, "Book not found")
			return
		}
		ctrl.renderBookForm(c, userID, gin.H{
			"Title":          "Edit book",
			"Action":         bookPath(id),
			"Name":           name,
			"SelectedAuthor": authorID,
			"SelectedSlot":   slotValue(slotID),
			"Editing":        true,
			"Error":          bookErrorMessage(err),
		})
		return
	}

	ctrl.render.flashSuccess(c, "Book \""+book.Name+"\" updated")
	c.Redirect(http.StatusFound, bookPath(id)+"/edit")
}

// DeletePage renders the delete confirmation.
func (ctrl *BooksController) DeletePage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := ctrl.repo.GetForUser(id, GetUserID(c))
	if err != nil {
		c.String(http.StatusNotFound, "Book not found")
		return
	}

	ctrl.render.HTML(c, http.StatusOK, "book-delete", "books", gin.H{
		"Title":  "Delete book",
		"Book":   book,
		"Action": bookPath(book.ID) + "/delete",
	})
}

// Delete removes a book and cleans up its stored picture.
func (ctrl *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	picture, err := ctrl.repo.Delete(id, GetUserID(c))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.String(http.StatusNotFound, "Book not found")
			return
		}
		c.String(http.StatusInternalServerError, "Error deleting book: %s", err.Error())
		return
	}
	if picture != "" && ctrl.store != nil {
		_ = ctrl.store.Remove(picture)
	}

	ctrl.render.flashSuccess(c, "Book deleted")
	c.Redirect(http.StatusFound, "/books")
}

// Picture streams a stored cover image.
func (ctrl *BooksController) Picture(c *gin.Context) {
	if ctrl.store == nil {
		c.Status(http.StatusNotFound)
		return
	}
	path, err := ctrl.store.Path(c.Param("name"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.File(path)
}

// formChoices loads the select options shared by the new and edit forms.
func (ctrl *BooksController) formChoices(userID uint) (gin.H, error) {
	authorList, err := ctrl.authors.All()
	if err != nil {
		return nil, err
	}
	slots, err := ctrl.bookcases.SlotChoices(userID)
	if err != nil {
		return nil, err
	}
	return gin.H{
		"Authors": authorList,
		"Slots":   slots,
	}, nil
}

// renderBookForm renders the form with the select options merged in and
// defaults for any field the caller left out.
func (ctrl *BooksController) renderBookForm(c *gin.Context, userID uint, data gin.H) {
	choices, err := ctrl.formChoices(userID)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading form: %s", err.Error())
		return
	}
	for key, value := range choices {
		data[key] = value
	}
	defaults := gin.H{
		"Name":           "",
		"SelectedAuthor": uint(0),
		"SelectedSlot":   uint(0),
		"Picture":        "",
		"Error":          "",
	}
	for key, value := range defaults {
		if _, ok := data[key]; !ok {
			data[key] = value
		}
	}
	ctrl.render.HTML(c, http.StatusOK, "book-form", "books", data)
}

// slotValue flattens an optional slot reference for template comparisons.
func slotValue(id *uint) uint {
	if id == nil {
		return 0
	}
	return *id
}

// savePictureUpload stores an uploaded picture file if one was submitted.
// Returns the stored name or "" when the field was left empty.
func (ctrl *BooksController) savePictureUpload(c *gin.Context) (string, error) {
	if ctrl.store == nil {
		return "", nil
	}
	fileHeader, err := c.FormFile("picture")
	if err != nil {
		// No file submitted
		return "", nil
	}
	if fileHeader.Size > pictures.MaxUploadSize {
		return "", pictures.ErrTooLarge
	}
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer func(file multipart.File) { _ = file.Close() }(file)

	return ctrl.store.Save(fileHeader.Filename, file)
}

func formAuthorID(c *gin.Context) uint {
	if id := parseOptionalID(c.PostForm("author_id")); id != nil {
		return *id
	}
	return 0
}

func bookPath(id uint) string {
	return "/books/" + uintToString(id)
}

func bookErrorMessage(err error) string {
	var ve *database.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, database.ErrConstraint):
		return "This slot is already occupied by another book"
	case errors.Is(err, database.ErrNotFound):
		return "Selected author does not exist"
	default:
		return "Failed to save book"
	}
}

func pictureErrorMessage(err error) string {
	switch {
	case errors.Is(err, pictures.ErrUnsupportedType):
		return "Picture must be a jpg, png, gif or webp file"
	case errors.Is(err, pictures.ErrTooLarge):
		return "Picture must be smaller than 5 MB"
	default:
		return "Failed to store picture"
	}
}
