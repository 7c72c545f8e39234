package services_test

import (
	"testing"
	"time"

	"socialnet/internal/models"
	"socialnet/internal/repositories"
	"socialnet/internal/services"

	"github.com/stretchr/testify/assert"
)

func newLedgerFixture(t *testing.T, userIDs ...string) (*services.LedgerService, *repositories.MockUserRepository, *repositories.MockPostRepository) {
	t.Helper()
	userRepo := repositories.NewMockUserRepository()
	postRepo := repositories.NewMockPostRepository()
	for _, id := range userIDs {
		err := userRepo.Create(&models.User{
			ID:       id,
			Name:     id,
			Username: id,
			Email:    id + "@example.com",
			Password: "hash",
		})
		assert.NoError(t, err)
	}
	return services.NewLedgerService(userRepo, postRepo), userRepo, postRepo
}

func TestLedger_LinkPostToAuthor_Idempotent(t *testing.T) {
	ledger, userRepo, _ := newLedgerFixture(t, "alice")

	assert.NoError(t, ledger.LinkPostToAuthor("post-1", "alice"))
	// A retry after a partial failure must not duplicate the entry.
	assert.NoError(t, ledger.LinkPostToAuthor("post-1", "alice"))

	alice, err := userRepo.GetByID("alice")
	assert.NoError(t, err)
	assert.Equal(t, models.IDSet{"post-1"}, alice.Posts)
}

func TestLedger_UnlinkPostFromAuthor_TolerantOfAbsent(t *testing.T) {
	ledger, userRepo, _ := newLedgerFixture(t, "alice")

	assert.NoError(t, ledger.LinkPostToAuthor("post-1", "alice"))
	assert.NoError(t, ledger.UnlinkPostFromAuthor("post-1", "alice"))
	// Unlinking twice ends in the same state as unlinking once.
	assert.NoError(t, ledger.UnlinkPostFromAuthor("post-1", "alice"))

	alice, err := userRepo.GetByID("alice")
	assert.NoError(t, err)
	assert.Empty(t, alice.Posts)
}

func TestLedger_AddFollowEdge_Symmetric(t *testing.T) {
	ledger, userRepo, _ := newLedgerFixture(t, "bob", "carol")

	assert.NoError(t, ledger.AddFollowEdge("bob", "carol"))

	bob, _ := userRepo.GetByID("bob")
	carol, _ := userRepo.GetByID("carol")
	assert.True(t, bob.Following.Contains("carol"))
	assert.True(t, carol.Followers.Contains("bob"))
	assert.False(t, carol.Following.Contains("bob"))
	assert.False(t, bob.Followers.Contains("carol"))
}

func TestLedger_AddFollowEdge_DuplicateIsConflict(t *testing.T) {
	ledger, _, _ := newLedgerFixture(t, "bob", "carol")

	assert.NoError(t, ledger.AddFollowEdge("bob", "carol"))
	err := ledger.AddFollowEdge("bob", "carol")
	assert.Error(t, err)
	assert.True(t, models.IsConflict(err))
}

func TestLedger_AddFollowEdge_UnknownFollowee(t *testing.T) {
	ledger, _, _ := newLedgerFixture(t, "bob")

	err := ledger.AddFollowEdge("bob", "ghost")
	assert.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestLedger_RemoveFollowEdge(t *testing.T) {
	ledger, userRepo, _ := newLedgerFixture(t, "bob", "carol")

	assert.NoError(t, ledger.AddFollowEdge("bob", "carol"))
	assert.NoError(t, ledger.RemoveFollowEdge("bob", "carol"))

	bob, _ := userRepo.GetByID("bob")
	carol, _ := userRepo.GetByID("carol")
	assert.False(t, bob.Following.Contains("carol"))
	assert.False(t, carol.Followers.Contains("bob"))

	// Removing an edge that no longer exists is a conflict.
	err := ledger.RemoveFollowEdge("bob", "carol")
	assert.Error(t, err)
	assert.True(t, models.IsConflict(err))
}

func TestLedger_RemoveFollowEdge_NeverFollowed(t *testing.T) {
	ledger, _, _ := newLedgerFixture(t, "bob", "carol")

	err := ledger.RemoveFollowEdge("bob", "carol")
	assert.Error(t, err)
	assert.True(t, models.IsConflict(err))
}

func TestLedger_Reconcile_RebuildsPostSets(t *testing.T) {
	ledger, userRepo, postRepo := newLedgerFixture(t, "alice")

	// An orphaned post: persisted but never linked.
	err := postRepo.Create(&models.Post{ID: "post-1", Description: "hello", Date: time.Now(), PostedBy: "alice", User: "alice"})
	assert.NoError(t, err)
	// A stale link: referenced in the set but the post is gone.
	assert.NoError(t, ledger.LinkPostToAuthor("post-gone", "alice"))

	assert.NoError(t, ledger.Reconcile())

	alice, err := userRepo.GetByID("alice")
	assert.NoError(t, err)
	assert.Equal(t, models.IDSet{"post-1"}, alice.Posts)
}

func TestLedger_Reconcile_RepairsAsymmetricEdges(t *testing.T) {
	ledger, userRepo, _ := newLedgerFixture(t, "bob", "carol", "dave")

	// Half-written edges: one observed only on the followee side, one
	// only on the follower side, plus a self-follow to scrub.
	assert.NoError(t, userRepo.AddFollower("carol", "bob"))
	assert.NoError(t, userRepo.AddFollowing("dave", "carol"))
	assert.NoError(t, userRepo.AddFollower("dave", "dave"))

	assert.NoError(t, ledger.Reconcile())

	bob, _ := userRepo.GetByID("bob")
	carol, _ := userRepo.GetByID("carol")
	dave, _ := userRepo.GetByID("dave")

	assert.True(t, bob.Following.Contains("carol"))
	assert.True(t, carol.Followers.Contains("bob"))
	assert.True(t, dave.Following.Contains("carol"))
	assert.True(t, carol.Followers.Contains("dave"))
	assert.False(t, dave.Followers.Contains("dave"))
}
