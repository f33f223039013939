package http

import (
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookviewer/internal/database"
	"bookviewer/internal/entities"
)

// slotAt finds the slot ID at a (shelf, position) coordinate of a bookcase.
func slotAt(t *testing.T, env *testEnv, bookcaseID uint, shelf, position int) uint {
	t.Helper()
	var slot entities.BookcaseSlot
	err := env.db.
		Where("bookcase_id = ? AND bookshelf_number = ? AND number = ?", bookcaseID, shelf, position).
		First(&slot).Error
	require.NoError(t, err)
	return slot.ID
}

func TestBooksController_Create(t *testing.T) {
	env := setupTestEnv(t, 1)

	author, err := env.authors.Create("Frank", "Herbert")
	require.NoError(t, err)
	bookcase, err := env.bookcases.Create(1, "Living Room", 2, 2)
	require.NoError(t, err)
	slotID := slotAt(t, env, bookcase.ID, 1, 1)

	w := postForm(env.router, "/books", url.Values{
		"name":      {"Dune"},
		"author_id": {strconv.Itoa(int(author.ID))},
		"slot_id":   {strconv.Itoa(int(slotID))},
	})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/books", w.Header().Get("Location"))

	w = get(env.router, "/books")
	assert.Contains(t, w.Body.String(), "rows=1")
	assert.Contains(t, w.Body.String(), "Dune@Living Room:1:1")
}

func TestBooksController_Create_Unplaced(t *testing.T) {
	env := setupTestEnv(t, 1)

	author, err := env.authors.Create("Frank", "Herbert")
	require.NoError(t, err)

	w := postForm(env.router, "/books", url.Values{
		"name":      {"Dune"},
		"author_id": {strconv.Itoa(int(author.ID))},
	})
	assert.Equal(t, http.StatusFound, w.Code)

	// Unplaced books do not show in the list
	w = get(env.router, "/books")
	assert.Contains(t, w.Body.String(), "rows=0")
}

func TestBooksController_Create_ForeignSlot(t *testing.T) {
	env := setupTestEnv(t, 1)

	author, err := env.authors.Create("Frank", "Herbert")
	require.NoError(t, err)
	foreign, err := env.bookcases.Create(2, "Foreign", 1, 1)
	require.NoError(t, err)
	slotID := slotAt(t, env, foreign.ID, 1, 1)

	w := postForm(env.router, "/books", url.Values{
		"name":      {"Dune"},
		"author_id": {strconv.Itoa(int(author.ID))},
		"slot_id":   {strconv.Itoa(int(slotID))},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "slot does not belong to one of your bookcases")

	var count int64
	require.NoError(t, env.db.Model(&entities.Book{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestBooksController_Create_OccupiedSlot(t *testing.T) {
	env := setupTestEnv(t, 1)

	author, err := env.authors.Create("Frank", "Herbert")
	require.NoError(t, err)
	bookcase, err := env.bookcases.Create(1, "Living Room", 1, 1)
	require.NoError(t, err)
	slotID := slotAt(t, env, bookcase.ID, 1, 1)

	form := url.Values{
		"name":      {"Dune"},
		"author_id": {strconv.Itoa(int(author.ID))},
		"slot_id":   {strconv.Itoa(int(slotID))},
	}
	w := postForm(env.router, "/books", form)
	require.Equal(t, http.StatusFound, w.Code)

	form.Set("name", "Dune Messiah")
	w = postForm(env.router, "/books", form)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "This slot is already occupied by another book")
}

func TestBooksController_NewPage_OffersChoices(t *testing.T) {
	env := setupTestEnv(t, 1)

	_, err := env.authors.Create("Frank", "Herbert")
	require.NoError(t, err)
	_, err = env.bookcases.Create(1, "Living Room", 2, 3)
	require.NoError(t, err)

	w := get(env.router, "/books/new")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "authors=1")
	assert.Contains(t, w.Body.String(), "slots=6")
}

func TestBooksController_Update_MoveSlot(t *testing.T) {
	env := setupTestEnv(t, 1)

	author, err := env.authors.Create("Frank", "Herbert")
	require.NoError(t, err)
	bookcase, err := env.bookcases.Create(1, "Living Room", 1, 2)
	require.NoError(t, err)
	first := slotAt(t, env, bookcase.ID, 1, 1)
	second := slotAt(t, env, bookcase.ID, 1, 2)

	book, err := env.books.Create(1, author.ID, &first, "Dune", "")
	require.NoError(t, err)

	w := postForm(env.router, bookPath(book.ID), url.Values{
		"name":      {"Dune"},
		"author_id": {strconv.Itoa(int(author.ID))},
		"slot_id":   {strconv.Itoa(int(second))},
	})
	assert.Equal(t, http.StatusFound, w.Code)

	moved, err := env.books.GetForUser(book.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, moved.BookcaseSlotID)
	assert.Equal(t, second, *moved.BookcaseSlotID)
}

func TestBooksController_Update_ClearSlot(t *testing.T) {
	env := setupTestEnv(t, 1)

	author, err := env.authors.Create("Frank", "Herbert")
	require.NoError(t, err)
	bookcase, err := env.bookcases.Create(1, "Living Room", 1, 1)
	require.NoError(t, err)
	slotID := slotAt(t, env, bookcase.ID, 1, 1)

	book, err := env.books.Create(1, author.ID, &slotID, "Dune", "")
	require.NoError(t, err)

	w := postForm(env.router, bookPath(book.ID), url.Values{
		"name":      {"Dune"},
		"author_id": {strconv.Itoa(int(author.ID))},
		"slot_id":   {""},
	})
	assert.Equal(t, http.StatusFound, w.Code)

	unplaced, err := env.books.GetForUser(book.ID, 1)
	require.NoError(t, err)
	assert.Nil(t, unplaced.BookcaseSlotID)
}

func TestBooksController_Delete(t *testing.T) {
	env := setupTestEnv(t, 1)

	author, err := env.authors.Create("Frank", "Herbert")
	require.NoError(t, err)
	book, err := env.books.Create(1, author.ID, nil, "Dune", "")
	require.NoError(t, err)

	w := postForm(env.router, bookPath(book.ID)+"/delete", nil)
	assert.Equal(t, http.StatusFound, w.Code)

	_, err = env.books.GetForUser(book.ID, 1)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestBooksController_List_Filters(t *testing.T) {
	env := setupTestEnv(t, 1)

	herbert, err := env.authors.Create("Frank", "Herbert")
	require.NoError(t, err)
	leguin, err := env.authors.Create("Ursula", "Le Guin")
	require.NoError(t, err)

	living, err := env.bookcases.Create(1, "Living Room", 1, 2)
	require.NoError(t, err)
	office, err := env.bookcases.Create(1, "Office", 1, 1)
	require.NoError(t, err)

	livingFirst := slotAt(t, env, living.ID, 1, 1)
	livingSecond := slotAt(t, env, living.ID, 1, 2)
	officeFirst := slotAt(t, env, office.ID, 1, 1)

	_, err = env.books.Create(1, herbert.ID, &livingFirst, "Dune", "")
	require.NoError(t, err)
	_, err = env.books.Create(1, herbert.ID, &livingSecond, "Dune Messiah", "")
	require.NoError(t, err)
	_, err = env.books.Create(1, leguin.ID, &officeFirst, "The Dispossessed", "")
	require.NoError(t, err)

	w := get(env.router, "/books?bookcase=living")
	assert.Contains(t, w.Body.String(), "rows=2")

	w = get(env.router, "/books?author=guin")
	assert.Contains(t, w.Body.String(), "rows=1")
	assert.Contains(t, w.Body.String(), "The Dispossessed")

	w = get(env.router, "/books?name=messiah")
	assert.Contains(t, w.Body.String(), "rows=1")

	w = get(env.router, "/books?slot=2")
	assert.Contains(t, w.Body.String(), "rows=1")
	assert.Contains(t, w.Body.String(), "Dune Messiah")
}
