package repositories_test

import (
	"fmt"
	"testing"

	"socialnet/internal/models"
	"socialnet/internal/repositories"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newUserRepo(t *testing.T, name string) *repositories.GORMUserRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}))
	return repositories.NewGORMUserRepository(db)
}

func TestGORMUserRepository_Create_DuplicateIsConflict(t *testing.T) {
	repo := newUserRepo(t, "repo_dup")

	alice := &models.User{Name: "Alice", Username: "alice", Email: "alice@example.com", Password: "hash"}
	assert.NoError(t, repo.Create(alice))
	assert.NotEmpty(t, alice.ID)
	assert.Equal(t, models.DefaultProfileImage, alice.Image)

	// Same username, different email: the unique index reports the
	// conflict, no pre-check read involved.
	err := repo.Create(&models.User{Name: "A2", Username: "alice", Email: "other@example.com", Password: "hash"})
	assert.Error(t, err)
	assert.True(t, models.IsConflict(err))

	// Same email, different username.
	err = repo.Create(&models.User{Name: "A3", Username: "alice2", Email: "alice@example.com", Password: "hash"})
	assert.Error(t, err)
	assert.True(t, models.IsConflict(err))
}

func TestGORMUserRepository_SetColumnsRoundTrip(t *testing.T) {
	repo := newUserRepo(t, "repo_sets")

	user := &models.User{Name: "Alice", Username: "alice", Email: "alice@example.com", Password: "hash"}
	assert.NoError(t, repo.Create(user))

	assert.NoError(t, repo.AppendPost(user.ID, "post-1"))
	assert.NoError(t, repo.AppendPost(user.ID, "post-2"))
	assert.NoError(t, repo.AppendPost(user.ID, "post-1")) // idempotent
	assert.NoError(t, repo.AddFollower(user.ID, "bob"))
	assert.NoError(t, repo.AddFollowing(user.ID, "carol"))

	got, err := repo.GetByID(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.IDSet{"post-1", "post-2"}, got.Posts)
	assert.Equal(t, models.IDSet{"bob"}, got.Followers)
	assert.Equal(t, models.IDSet{"carol"}, got.Following)

	assert.NoError(t, repo.RemovePost(user.ID, "post-1"))
	assert.NoError(t, repo.RemovePost(user.ID, "post-gone")) // tolerant
	assert.NoError(t, repo.RemoveFollower(user.ID, "bob"))
	assert.NoError(t, repo.RemoveFollowing(user.ID, "carol"))

	got, err = repo.GetByID(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.IDSet{"post-2"}, got.Posts)
	assert.Empty(t, got.Followers)
	assert.Empty(t, got.Following)
}

func TestGORMUserRepository_ReplaceSetsRoundTrip(t *testing.T) {
	repo := newUserRepo(t, "repo_replace")

	user := &models.User{Name: "Alice", Username: "alice", Email: "alice@example.com", Password: "hash"}
	assert.NoError(t, repo.Create(user))
	assert.NoError(t, repo.AppendPost(user.ID, "stale-post"))

	assert.NoError(t, repo.ReplaceSets(user.ID,
		models.IDSet{"post-1"},
		models.IDSet{"bob", "carol"},
		nil,
	))

	got, err := repo.GetByID(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.IDSet{"post-1"}, got.Posts)
	assert.Equal(t, models.IDSet{"bob", "carol"}, got.Followers)
	assert.Empty(t, got.Following)

	err = repo.ReplaceSets("no-such-user", nil, nil, nil)
	assert.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestGORMUserRepository_GetByUsernameAndID(t *testing.T) {
	repo := newUserRepo(t, "repo_pair")

	alice := &models.User{Name: "Alice", Username: "alice", Email: "alice@example.com", Password: "hash"}
	bob := &models.User{Name: "Bob", Username: "bob", Email: "bob@example.com", Password: "hash"}
	assert.NoError(t, repo.Create(alice))
	assert.NoError(t, repo.Create(bob))

	got, err := repo.GetByUsernameAndID("alice", alice.ID)
	assert.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	// Mismatched pair is not found.
	_, err = repo.GetByUsernameAndID("alice", bob.ID)
	assert.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestGORMUserRepository_UpdateProfile(t *testing.T) {
	repo := newUserRepo(t, "repo_update")

	alice := &models.User{Name: "Alice", Username: "alice", Email: "alice@example.com", Password: "hash"}
	assert.NoError(t, repo.Create(alice))

	got, err := repo.UpdateProfile(alice.ID, "alice", map[string]interface{}{
		"description": "new bio",
		"image":       "ref_pic.jpg",
		"url":         "/profile/image/ref_pic.jpg",
	})
	assert.NoError(t, err)
	assert.Equal(t, "new bio", got.Description)
	assert.Equal(t, "ref_pic.jpg", got.Image)

	_, err = repo.UpdateProfile(alice.ID, "not-alice", map[string]interface{}{"description": "x"})
	assert.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}
