// Package bookcases provides database operations for bookcases and their
// slot grids.
//
// A bookcase is provisioned exactly once: creating it also bulk-creates one
// slot per (shelf, position) coordinate inside the same transaction. Resizing
// is unsupported; only the name can change afterwards.
package bookcases

import (
	"strings"

	"gorm.io/gorm"

	"bookviewer/internal/database"
	"bookviewer/internal/entities"
)

// Shelf geometry bounds. The form enforces these too, but the repository
// re-checks so that no caller can provision an unbounded grid.
const (
	MinShelfCount    = 1
	MaxShelfCount    = 10
	MinShelfCapacity = 1
	MaxShelfCapacity = 10
)

// Repository handles all bookcase and slot database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new bookcases repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a bookcase and provisions its full slot grid atomically:
// shelfCount × shelfCapacity slots covering every 1-based (shelf, position)
// pair. If any insert fails the transaction rolls back and neither the
// bookcase nor any slot is visible afterwards.
func (r *Repository) Create(userID uint, name string, shelfCount, shelfCapacity int) (*entities.Bookcase, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, database.NewValidationError("name", "bookcase name is required")
	}
	if shelfCount < MinShelfCount || shelfCount > MaxShelfCount {
		return nil, database.NewValidationError("shelf_count", "shelf count must be between 1 and 10")
	}
	if shelfCapacity < MinShelfCapacity || shelfCapacity > MaxShelfCapacity {
		return nil, database.NewValidationError("shelf_capacity", "shelf capacity must be between 1 and 10")
	}

	bookcase := &entities.Bookcase{
		UserID: userID,
		Name:   name,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(bookcase).Error; err != nil {
			return database.TranslateError(err, "bookcase name")
		}

		slots := make([]entities.BookcaseSlot, 0, shelfCount*shelfCapacity)
		for shelf := 1; shelf <= shelfCount; shelf++ {
			for position := 1; position <= shelfCapacity; position++ {
				slots = append(slots, entities.BookcaseSlot{
					BookcaseID:      bookcase.ID,
					BookshelfNumber: shelf,
					Number:          position,
				})
			}
		}

		if err := tx.Create(&slots).Error; err != nil {
			return database.TranslateError(err, "slot coordinate")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return bookcase, nil
}

// GetForUser retrieves a bookcase by ID, scoped to its owner. A bookcase
// belonging to another user is reported as not found.
func (r *Repository) GetForUser(id, userID uint) (*entities.Bookcase, error) {
	var bookcase entities.Bookcase
	if err := r.db.First(&bookcase, id).Error; err != nil {
		return nil, database.TranslateError(err, "")
	}
	if bookcase.UserID != userID {
		return nil, database.ErrNotFound
	}
	return &bookcase, nil
}

// Rename updates the bookcase name. The only mutable field post-creation.
func (r *Repository) Rename(id, userID uint, name string) (*entities.Bookcase, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, database.NewValidationError("name", "bookcase name is required")
	}

	bookcase, err := r.GetForUser(id, userID)
	if err != nil {
		return nil, err
	}

	if err := r.db.Model(bookcase).Update("name", name).Error; err != nil {
		return nil, database.TranslateError(err, "bookcase name")
	}
	return bookcase, nil
}

// Delete removes a bookcase together with all of its slots. Books placed in
// those slots survive with their slot reference cleared (they become
// unplaced), matching the SET NULL relation between books and slots.
func (r *Repository) Delete(id, userID uint) error {
	bookcase, err := r.GetForUser(id, userID)
	if err != nil {
		return err
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		slotIDs := tx.Model(&entities.BookcaseSlot{}).
			Select("id").
			Where("bookcase_id = ?", bookcase.ID)

		if err := tx.Model(&entities.Book{}).
			Where("bookcase_slot_id IN (?)", slotIDs).
			Update("bookcase_slot_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("bookcase_id = ?", bookcase.ID).
			Delete(&entities.BookcaseSlot{}).Error; err != nil {
			return err
		}
		return tx.Delete(bookcase).Error
	})
}

// ListOptions controls filtering, ordering and pagination of bookcase lists.
type ListOptions struct {
	NameContains string
	OrderBy      string // "name" or "-name"; anything else falls back to newest first
	Page         int    // 1-based
	PageSize     int
}

// List returns one page of the user's bookcases plus the total match count.
func (r *Repository) List(userID uint, opts ListOptions) ([]entities.Bookcase, int64, error) {
	query := r.db.Model(&entities.Bookcase{}).Where("user_id = ?", userID)

	if opts.NameContains != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+opts.NameContains+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch opts.OrderBy {
	case "name":
		query = query.Order("name ASC")
	case "-name":
		query = query.Order("name DESC")
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

	var cases []entities.Bookcase
	if err := query.Find(&cases).Error; err != nil {
		return nil, 0, err
	}
	return cases, total, nil
}

// SlotCounts returns the number of slots per bookcase for the given IDs via
// a single grouped count. Bookcases without slots are absent from the map;
// callers treat a missing key as zero. No ordering is implied.
func (r *Repository) SlotCounts(bookcaseIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(bookcaseIDs))
	if len(bookcaseIDs) == 0 {
		return counts, nil
	}

	type slotCount struct {
		BookcaseID uint
		Total      int64
	}
	var rows []slotCount
	err := r.db.Model(&entities.BookcaseSlot{}).
		Select("bookcase_id", "COUNT(id) AS total").
		Where("bookcase_id IN ?", bookcaseIDs).
		Group("bookcase_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.BookcaseID] = row.Total
	}
	return counts, nil
}

// SlotChoices returns every slot of the user's bookcases, ordered by bookcase
// name, shelf and position, for the book form's slot picker. Occupied slots
// are included on purpose: the original behavior offers them too and the
// unique book-per-slot index still rejects a double placement.
func (r *Repository) SlotChoices(userID uint) ([]entities.BookcaseSlot, error) {
	var slots []entities.BookcaseSlot
	err := r.db.
		Joins("JOIN bookcases ON bookcases.id = bookcase_slots.bookcase_id").
		Where("bookcases.user_id = ?", userID).
		Order("bookcases.name ASC, bookcase_slots.bookshelf_number ASC, bookcase_slots.number ASC").
		Preload("Bookcase").
		Find(&slots).Error
	return slots, err
}

// SlotOwnedByUser checks that a slot belongs to one of the user's bookcases.
// The ownership guard for book placement.
func (r *Repository) SlotOwnedByUser(slotID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.BookcaseSlot{}).
		Joins("JOIN bookcases ON bookcases.id = bookcase_slots.bookcase_id").
		Where("bookcase_slots.id = ? AND bookcases.user_id = ?", slotID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
