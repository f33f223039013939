// Package authors provides database operations for book authors.
package authors

import (
	"strings"

	"gorm.io/gorm"

	"bookviewer/internal/database"
	"bookviewer/internal/entities"
)

// Repository handles all book author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new author. The (firstname, lastname) pair is unique.
func (r *Repository) Create(firstname, lastname string) (*entities.BookAuthor, error) {
	firstname = strings.TrimSpace(firstname)
	lastname = strings.TrimSpace(lastname)
	if firstname == "" {
		return nil, database.NewValidationError("firstname", "first name is required")
	}
	if lastname == "" {
		return nil, database.NewValidationError("lastname", "last name is required")
	}

	author := &entities.BookAuthor{
		Firstname: firstname,
		Lastname:  lastname,
	}
	if err := r.db.Create(author).Error; err != nil {
		return nil, database.TranslateError(err, "author name")
	}
	return author, nil
}

// GetByID retrieves an author. Authors are not scoped to a user.
func (r *Repository) GetByID(id uint) (*entities.BookAuthor, error) {
	var author entities.BookAuthor
	if err := r.db.First(&author, id).Error; err != nil {
		return nil, database.TranslateError(err, "")
	}
	return &author, nil
}

// Update changes the author's name.
func (r *Repository) Update(id uint, firstname, lastname string) (*entities.BookAuthor, error) {
	firstname = strings.TrimSpace(firstname)
	lastname = strings.TrimSpace(lastname)
	if firstname == "" {
		return nil, database.NewValidationError("firstname", "first name is required")
	}
	if lastname == "" {
		return nil, database.NewValidationError("lastname", "last name is required")
	}

	author, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"firstname": firstname,
		"lastname":  lastname,
	}
	if err := r.db.Model(author).Updates(updates).Error; err != nil {
		return nil, database.TranslateError(err, "author name")
	}
	return author, nil
}

// Delete removes an author together with every book they wrote.
func (r *Repository) Delete(id uint) error {
	author, err := r.GetByID(id)
	if err != nil {
		return err
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("author_id = ?", author.ID).Delete(&entities.Book{}).Error; err != nil {
			return err
		}
		return tx.Delete(author).Error
	})
}

// ListOptions controls filtering, ordering and pagination of author lists.
type ListOptions struct {
	FirstnameContains string
	LastnameContains  string
	OrderBy           string // "firstname", "lastname" or "-"-prefixed; else newest first
	Page              int    // 1-based
	PageSize          int
}

// List returns one page of authors plus the total match count.
func (r *Repository) List(opts ListOptions) ([]entities.BookAuthor, int64, error) {
	query := r.db.Model(&entities.BookAuthor{})

	if opts.FirstnameContains != "" {
		query = query.Where("LOWER(firstname) LIKE LOWER(?)", "%"+opts.FirstnameContains+"%")
	}
	if opts.LastnameContains != "" {
		query = query.Where("LOWER(lastname) LIKE LOWER(?)", "%"+opts.LastnameContains+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch opts.OrderBy {
	case "firstname":
		query = query.Order("firstname ASC")
	case "-firstname":
		query = query.Order("firstname DESC")
	case "lastname":
		query = query.Order("lastname ASC")
	case "-lastname":
		query = query.Order("lastname DESC")
	default:
		query = query.Order("id DESC")
	}

	if opts.PageSize > 0 {
		page := opts.Page
		if page < 1 {
			page = 1
		}
		query = query.Limit(opts.PageSize).Offset((page - 1) * opts.PageSize)
	}

	var authorList []entities.BookAuthor
	if err := query.Find(&authorList).Error; err != nil {
		return nil, 0, err
	}
	return authorList, total, nil
}

// All returns every author ordered by name, for the book form's author picker.
func (r *Repository) All() ([]entities.BookAuthor, error) {
	var authorList []entities.BookAuthor
	err := r.db.Order("firstname ASC, lastname ASC").Find(&authorList).Error
	return authorList, err
}
