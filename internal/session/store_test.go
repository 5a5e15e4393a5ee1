package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/smarttransit/route-booking/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() models.User {
	return models.User{UserID: "u1", Name: "Asha", Email: "asha@example.com", TotalBookings: 2, TotalSpent: 150}
}

func TestStore_SaveLoadClear(t *testing.T) {
	storage := NewMemoryStorage()
	store := NewStore(storage, nil)

	user, ok := store.Load()
	assert.False(t, ok)
	assert.Nil(t, user)
	assert.False(t, store.IsAuthenticated())

	require.NoError(t, store.Save(testUser()))
	assert.True(t, store.IsAuthenticated())

	// a fresh store over the same storage restores the user
	restored := NewStore(storage, nil)
	user, ok = restored.Load()
	require.True(t, ok)
	assert.Equal(t, testUser(), *user)
	assert.True(t, restored.IsAuthenticated())

	require.NoError(t, restored.Clear())
	assert.False(t, restored.IsAuthenticated())
	assert.Nil(t, restored.Current())
	_, present, _ := storage.Get(CurrentUserKey)
	assert.False(t, present)

	// idempotent
	require.NoError(t, restored.Clear())
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := NewStore(NewMemoryStorage(), nil)
	require.NoError(t, store.Save(testUser()))

	other := models.User{UserID: "u2", Name: "Ravi", Email: "ravi@example.com"}
	require.NoError(t, store.Save(other))
	assert.Equal(t, "u2", store.Current().UserID)

	assert.Error(t, store.Save(models.User{UserID: "u3"}))
	assert.Equal(t, "u2", store.Current().UserID)
}

func TestStore_LoadMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"Not JSON", "{oops"},
		{"Missing fields", `{"userID":"u1"}`},
		{"Wrong type", `["u1"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := NewMemoryStorage()
			require.NoError(t, storage.Set(CurrentUserKey, tt.raw))
			store := NewStore(storage, nil)

			user, ok := store.Load()
			assert.False(t, ok)
			assert.Nil(t, user)
			assert.False(t, store.IsAuthenticated())

			_, present, _ := storage.Get(CurrentUserKey)
			assert.False(t, present)
		})
	}
}

type failingStorage struct{}

func (failingStorage) Get(string) (string, bool, error) { return "", false, errors.New("disk gone") }
func (failingStorage) Set(string, string) error         { return errors.New("disk gone") }
func (failingStorage) Remove(string) error              { return errors.New("disk gone") }

func TestStore_StorageFailures(t *testing.T) {
	store := NewStore(failingStorage{}, nil)

	user, ok := store.Load()
	assert.False(t, ok)
	assert.Nil(t, user)

	assert.Error(t, store.Save(testUser()))
	assert.False(t, store.IsAuthenticated())
}

func TestStore_CurrentIsCopy(t *testing.T) {
	store := NewStore(NewMemoryStorage(), nil)
	require.NoError(t, store.Save(testUser()))

	u := store.Current()
	u.TotalBookings = 99
	assert.Equal(t, 2, store.Current().TotalBookings)
}

func TestFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	storage := NewFileStorage(path)

	_, ok, err := storage.Get(CurrentUserKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, storage.Set("a", "1"))
	require.NoError(t, storage.Set("b", "2"))

	reopened := NewFileStorage(path)
	v, ok, err := reopened.Get("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	require.NoError(t, reopened.Remove("a"))
	require.NoError(t, reopened.Remove("missing"))
	_, ok, _ = storage.Get("a")
	assert.False(t, ok)

	t.Run("Corrupt file loads as logged out", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

		store := NewStore(NewFileStorage(path), nil)
		user, ok := store.Load()
		assert.False(t, ok)
		assert.Nil(t, user)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "not json")
		_, ok, err = NewFileStorage(path).Get(CurrentUserKey)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, store.Save(testUser()))
		user, ok = NewStore(NewFileStorage(path), nil).Load()
		require.True(t, ok)
		assert.Equal(t, "u1", user.UserID)
	})
}

func TestAdminSession(t *testing.T) {
	admin := NewAdminSession(NewMemoryStorage())
	assert.False(t, admin.IsAdmin())

	require.NoError(t, admin.SaveAdmin("admin123", "tok"))
	pw, ok := admin.AdminPassword()
	assert.True(t, ok)
	assert.Equal(t, "admin123", pw)
	token, ok := admin.AdminToken()
	assert.True(t, ok)
	assert.Equal(t, "tok", token)

	require.NoError(t, admin.SaveAdmin("admin123", ""))
	_, ok = admin.AdminToken()
	assert.False(t, ok)

	require.NoError(t, admin.ClearAdmin())
	assert.False(t, admin.IsAdmin())
}
