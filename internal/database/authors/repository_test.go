package authors

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bookviewer/internal/database"
	"bookviewer/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	t.Helper()
	dbPath := "./test_authors_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := database.NewSilentDatabase(dbPath)
	require.NoError(t, err)

	repo := NewRepository(db.DB)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}

	return repo, db.DB, cleanup
}

func TestRepository_Create(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	author, err := repo.Create("Frank", "Herbert")
	require.NoError(t, err)
	assert.NotZero(t, author.ID)
	assert.Equal(t, "Frank Herbert", author.FullName())
}

func TestRepository_Create_TrimsWhitespace(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	author, err := repo.Create("  Ursula  ", " Le Guin ")
	require.NoError(t, err)
	assert.Equal(t, "Ursula", author.Firstname)
	assert.Equal(t, "Le Guin", author.Lastname)
}

func TestRepository_Create_RequiresBothNames(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Create("", "Herbert")
	assert.True(t, database.IsValidationError(err))

	_, err = repo.Create("Frank", "  ")
	assert.True(t, database.IsValidationError(err))
}

func TestRepository_Create_DuplicateNamePair(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Create("Frank", "Herbert")
	require.NoError(t, err)

	_, err = repo.Create("Frank", "Herbert")
	assert.ErrorIs(t, err, database.ErrConstraint)

	// Sharing one half of the pair is fine
	_, err = repo.Create("Brian", "Herbert")
	assert.NoError(t, err)
}

func TestRepository_Update(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	author, err := repo.Create("Frank", "Herbert")
	require.NoError(t, err)

	updated, err := repo.Update(author.ID, "Brian", "Herbert")
	require.NoError(t, err)
	assert.Equal(t, "Brian", updated.Firstname)

	_, err = repo.Update(9999, "No", "One")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_Update_DuplicateNamePair(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Create("Frank", "Herbert")
	require.NoError(t, err)
	other, err := repo.Create("Brian", "Herbert")
	require.NoError(t, err)

	_, err = repo.Update(other.ID, "Frank", "Herbert")
	assert.ErrorIs(t, err, database.ErrConstraint)
}

func TestRepository_Delete_CascadesBooks(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	author, err := repo.Create("Frank", "Herbert")
	require.NoError(t, err)
	keep, err := repo.Create("Ursula", "Le Guin")
	require.NoError(t, err)

	require.NoError(t, db.Create(&entities.Book{Name: "Dune", AuthorID: author.ID}).Error)
	require.NoError(t, db.Create(&entities.Book{Name: "Dune Messiah", AuthorID: author.ID}).Error)
	require.NoError(t, db.Create(&entities.Book{Name: "The Dispossessed", AuthorID: keep.ID}).Error)

	require.NoError(t, repo.Delete(author.ID))

	var bookCount int64
	require.NoError(t, db.Model(&entities.Book{}).Count(&bookCount).Error)
	assert.Equal(t, int64(1), bookCount)

	_, err = repo.GetByID(author.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_List(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	seed := [][2]string{
		{"Frank", "Herbert"},
		{"Ursula", "Le Guin"},
		{"Brian", "Herbert"},
	}
	for _, pair := range seed {
		_, err := repo.Create(pair[0], pair[1])
		require.NoError(t, err)
	}

	t.Run("newest first by default", func(t *testing.T) {
		list, total, err := repo.List(ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, list, 3)
		assert.Equal(t, "Brian", list[0].Firstname)
	})

	t.Run("lastname filter", func(t *testing.T) {
		list, total, err := repo.List(ListOptions{LastnameContains: "herb"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, list, 2)
	})

	t.Run("firstname ordering", func(t *testing.T) {
		list, _, err := repo.List(ListOptions{OrderBy: "firstname"})
		require.NoError(t, err)
		assert.Equal(t, "Brian", list[0].Firstname)
		assert.Equal(t, "Ursula", list[2].Firstname)

		list, _, err = repo.List(ListOptions{OrderBy: "-firstname"})
		require.NoError(t, err)
		assert.Equal(t, "Ursula", list[0].Firstname)
	})

	t.Run("pagination", func(t *testing.T) {
		list, total, err := repo.List(ListOptions{OrderBy: "firstname", Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, list, 1)
		assert.Equal(t, "Ursula", list[0].Firstname)
	})
}

func TestRepository_All(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Create("Ursula", "Le Guin")
	require.NoError(t, err)
	_, err = repo.Create("Frank", "Herbert")
	require.NoError(t, err)

	all, err := repo.All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Frank", all[0].Firstname)
}
