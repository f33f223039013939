package entities

import (
	"fmt"
	"time"
)

// User is an account that owns bookcases. Books are reachable for a user
// through the slots of their bookcases, not through a direct ownership column.
type User struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Username         string     `gorm:"uniqueIndex;size:100" json:"username"`
	Email            string     `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash     string     `gorm:"size:100" json:"-"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	FailedLoginCount int        `json:"-"`
	LockedUntil      *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Bookcase groups shelves with books. A user cannot have two bookcases
// with the same name.
type Bookcase struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"uniqueIndex:idx_bookcases_user_name;index" json:"user_id"`
	Name      string         `gorm:"uniqueIndex:idx_bookcases_user_name;size:254" json:"name"`
	User      User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Slots     []BookcaseSlot `gorm:"foreignKey:BookcaseID;constraint:OnDelete:CASCADE" json:"slots,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// BookcaseSlot is one physical (shelf, position) coordinate within a bookcase.
// Both numbers are 1-based. Slots are created in bulk when their bookcase is
// created and never individually afterwards.
type BookcaseSlot struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	BookcaseID      uint      `gorm:"uniqueIndex:idx_slots_coordinate;index" json:"bookcase_id"`
	BookshelfNumber int       `gorm:"uniqueIndex:idx_slots_coordinate" json:"bookshelf_number"`
	Number          int       `gorm:"uniqueIndex:idx_slots_coordinate" json:"number"`
	Bookcase        Bookcase  `gorm:"foreignKey:BookcaseID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

// Label renders the human-meaningful coordinate, e.g. "Living Room:2:3".
func (s BookcaseSlot) Label() string {
	return fmt.Sprintf("%s:%d:%d", s.Bookcase.Name, s.BookshelfNumber, s.Number)
}

// BookAuthor is shared between users; the (firstname, lastname) pair is unique.
type BookAuthor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Firstname string    `gorm:"uniqueIndex:idx_authors_name;size:254" json:"firstname"`
	Lastname  string    `gorm:"uniqueIndex:idx_authors_name;size:254" json:"lastname"`
	Books     []Book    `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"books,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a BookAuthor) FullName() string {
	return a.Firstname + " " + a.Lastname
}

// Book occupies at most one slot; the unique index on BookcaseSlotID enforces
// the one-to-one relation (SQLite allows any number of NULLs in a unique
// index, so unplaced books do not collide). When the slot is deleted the
// reference is cleared and the book survives unplaced.
type Book struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	BookcaseSlotID *uint         `gorm:"uniqueIndex" json:"bookcase_slot_id,omitempty"`
	AuthorID       uint          `gorm:"index" json:"author_id"`
	Name           string        `gorm:"size:254" json:"name"`
	Picture        string        `gorm:"size:254" json:"picture,omitempty"`
	BookcaseSlot   *BookcaseSlot `gorm:"foreignKey:BookcaseSlotID;constraint:OnDelete:SET NULL" json:"bookcase_slot,omitempty"`
	Author         BookAuthor    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Placed reports whether the book currently occupies a slot.
func (b Book) Placed() bool {
	return b.BookcaseSlotID != nil
}

func (User) TableName() string {
	return "users"
}

func (Bookcase) TableName() string {
	return "bookcases"
}

func (BookcaseSlot) TableName() string {
	return "bookcase_slots"
}

func (BookAuthor) TableName() string {
	return "book_authors"
}

func (Book) TableName() string {
	return "books"
}
