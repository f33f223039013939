// Package books provides database operations for book records.
//
// A book is visible to a user through the slot it occupies: the list joins
// through bookcase_slots to bookcases and keeps only rows whose bookcase
// belongs to the user. Unplaced books (slot reference cleared) drop out of
// the join and thus out of the list.
package books

import (
	"strings"

	"gorm.io/gorm"

	"bookviewer/internal/database"
	"bookviewer/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a book, optionally placing it into one of the user's slots.
// Placement into a slot of another user's bookcase is rejected before any
// write; placement into an occupied slot is rejected by the unique index.
func (r *Repository) Create(userID, authorID uint, slotID *uint, name, picture string) (*entities.Book, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, database.NewValidationError("name", "book name is required")
	}
	if authorID == 0 {
		return nil, database.NewValidationError("author", "author is required")
	}
	if err := r.checkSlotOwnership(slotID, userID); err != nil {
		return nil, err
	}

	var author entities.BookAuthor
	if err := r.db.First(&author, authorID).Error; err != nil {
		return nil, database.TranslateError(err, "")
	}

	book := &entities.Book{
		BookcaseSlotID: slotID,
		AuthorID:       authorID,
		Name:           name,
		Picture:        picture,
	}
	if err := r.db.Create(book).Error; err != nil {
		return nil, database.TranslateError(err, "slot placement")
	}
	return book, nil
}

// GetForUser retrieves a book by ID, scoped to the acting user. A placed book
// is visible only when its slot's bookcase belongs to the user; an unplaced
// book carries no ownership and stays reachable by ID so it can be re-placed.
func (r *Repository) GetForUser(id, userID uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.
		Preload("Author").
		Preload("BookcaseSlot.Bookcase").
		First(&book, id).Error
	if err != nil {
		return nil, database.TranslateError(err, "")
	}
	if book.BookcaseSlot != nil && book.BookcaseSlot.Bookcase.UserID != userID {
		return nil, database.ErrNotFound
	}
	return &book, nil
}

// Update changes a book's name, author and placement. A nil picture leaves
// the stored picture untouched; an empty string clears it.
func (r *Repository) Update(id, userID, authorID uint, slotID *uint, name string, picture *string) (*entities.Book, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, database.NewValidationError("name", "book name is required")
	}
	if authorID == 0 {
		return nil, database.NewValidationError("author", "author is required")
	}
	if err := r.checkSlotOwnership(slotID, userID); err != nil {
		return nil, err
	}

	book, err := r.GetForUser(id, userID)
	if err != nil {
		return nil, err
	}
	var author entities.BookAuthor
	if err := r.db.First(&author, authorID).Error; err != nil {
		return nil, database.TranslateError(err, "")
	}

	updates := map[string]any{
		"name":             name,
		"author_id":        authorID,
		"bookcase_slot_id": slotID,
	}
	if picture != nil {
		updates["picture"] = *picture
	}
	if err := r.db.Model(book).Updates(updates).Error; err != nil {
		return nil, database.TranslateError(err, "slot placement")
	}
	return r.GetForUser(id, userID)
}

// Delete removes a book. Returns the stored picture name so the caller can
// clean up the asset.
func (r *Repository) Delete(id, userID uint) (picture string, err error) {
	book, err := r.GetForUser(id, userID)
	if err != nil {
		return "", err
	}
	if err := r.db.Delete(book).Error; err != nil {
		return "", err
	}
	return book.Picture, nil
}

func (r *Repository) checkSlotOwnership(slotID *uint, userID uint) error {
	if slotID == nil {
		return nil
	}
	var count int64
	err := r.db.Model(&entities.BookcaseSlot{}).
		Joins("JOIN bookcases ON bookcases.id = bookcase_slots.bookcase_id").
		Where("bookcase_slots.id = ? AND bookcases.user_id = ?", *slotID, userID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return database.NewValidationError("bookcase_slot", "slot does not belong to one of your bookcases")
	}
	return nil
}

// ListOptions controls filtering, ordering and pagination of book lists.
// Shelf and SlotNumber of zero mean "no filter" (both are 1-based).
type ListOptions struct {
	BookcaseNameContains string
	Shelf                int
	SlotNumber           int
	NameContains         string
	AuthorNameContains   string // matches first OR last name
	OrderBy              string
	Page                 int // 1-based
	PageSize             int
}

// orderColumns whitelists the sortable columns; the "-" prefix flips direction.
var orderColumns = map[string]string{
	"bookcase": "bookcases.name",
	"shelf":    "bookcase_slots.bookshelf_number",
	"slot":     "bookcase_slots.number",
	"name":     "books.name",
	"author":   "book_authors.firstname",
}

// List returns one page of the user's placed books plus the total match
// count. The inner join through slots and bookcases both scopes the result
// to the user and hides unplaced books.
func (r *Repository) List(userID uint, opts ListOptions) ([]entities.Book, int64, error) {
	query := r.db.Model(&entities.Book{}).
		Joins("JOIN bookcase_slots ON bookcase_slots.id = books.bookcase_slot_id").
		Joins("JOIN bookcases ON bookcases.id = bookcase_slots.bookcase_id").
		Joins("JOIN book_authors ON book_authors.id = books.author_id").
		Where("bookcases.user_id = ?", userID)

	if opts.BookcaseNameContains != "" {
		query = query.Where("LOWER(bookcases.name) LIKE LOWER(?)", "%"+opts.BookcaseNameContains+"%")
	}
	if opts.Shelf > 0 {
		query = query.Where("bookcase_slots.bookshelf_number = ?", opts.Shelf)
	}
	if opts.SlotNumber > 0 {
		query = query.Where("bookcase_slots.number = ?", opts.SlotNumber)
	}
	if opts.NameContains != "" {
		query = query.Where("LOWER(books.name) LIKE LOWER(?)", "%"+opts.NameContains+"%")
	}
	if opts.AuthorNameContains != "" {
		pattern := "%" + opts.AuthorNameContains + "%"
		query = query.Where(
			"LOWER(book_authors.firstname) LIKE LOWER(?) OR LOWER(book_authors.lastname) LIKE LOWER(?)",
			pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	key := opts.OrderBy
	descending := strings.HasPrefix(key, "-")
	key = strings.TrimPrefix(key, "-")
	if column, ok := orderColumns[key]; ok {
		direction := " ASC"
		if descending {
			direction = " DESC"
		}
		query = query.Order(column + direction)
	} else {
		query = query.Order("books.id DESC")
	}

	if opts.PageSize > 0 {
		page := opts.Page
		if page < 1 {
			page = 1
		}
		query = query.Limit(opts.PageSize).Offset((page - 1) * opts.PageSize)
	}

	var bookList []entities.Book
	err := query.
		Preload("Author").
		Preload("BookcaseSlot.Bookcase").
		Find(&bookList).Error
	if err != nil {
		return nil, 0, err
	}
	return bookList, total, nil
}
