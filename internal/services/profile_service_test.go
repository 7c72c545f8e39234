package services_test

import (
	"testing"
	"time"

	"socialnet/internal/models"
	"socialnet/internal/repositories"
	"socialnet/internal/services"

	"github.com/stretchr/testify/assert"
)

func newProfileFixture(t *testing.T, userIDs ...string) (*services.ProfileService, *repositories.MockUserRepository, *repositories.MockPostRepository) {
	t.Helper()
	userRepo := repositories.NewMockUserRepository()
	postRepo := repositories.NewMockPostRepository()
	for _, id := range userIDs {
		err := userRepo.Create(&models.User{ID: id, Name: id, Username: id, Email: id + "@example.com", Password: "hash"})
		assert.NoError(t, err)
	}
	ledger := services.NewLedgerService(userRepo, postRepo)
	return services.NewProfileService(userRepo, postRepo, ledger), userRepo, postRepo
}

func TestProfileService_GetProfile(t *testing.T) {
	profileService, userRepo, postRepo := newProfileFixture(t, "alice")

	base := time.Now()
	for i, id := range []string{"post-old", "post-mid", "post-new"} {
		err := postRepo.Create(&models.Post{
			ID: id, Description: id, Date: base.Add(time.Duration(i) * time.Minute),
			PostedBy: "alice", User: "alice",
		})
		assert.NoError(t, err)
		assert.NoError(t, userRepo.AppendPost("alice", id))
	}

	profile, posts, err := profileService.GetProfile("alice", "alice")
	assert.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, models.IDSet{"post-old", "post-mid", "post-new"}, profile.Posts)

	// Authored posts come back newest-first.
	assert.Len(t, posts, 3)
	assert.Equal(t, "post-new", posts[0].ID)
	assert.Equal(t, "post-old", posts[2].ID)
}

func TestProfileService_GetProfile_RequiresMatchingPair(t *testing.T) {
	profileService, _, _ := newProfileFixture(t, "alice", "bob")

	// A username that belongs to someone else is not found.
	_, _, err := profileService.GetProfile("alice", "bob")
	assert.Error(t, err)
	assert.True(t, models.IsNotFound(err))

	_, _, err = profileService.GetProfile("alice", "nobody")
	assert.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestProfileService_EditProfile(t *testing.T) {
	profileService, _, _ := newProfileFixture(t, "alice")

	// Description only: the image keeps its current value.
	profile, err := profileService.EditProfile("alice", "alice", "new bio", "", "")
	assert.NoError(t, err)
	assert.Equal(t, "new bio", profile.Description)
	assert.Equal(t, models.DefaultProfileImage, profile.Image)

	profile, err = profileService.EditProfile("alice", "alice", "new bio", "abc_pic.jpg", "/profile/image/abc_pic.jpg")
	assert.NoError(t, err)
	assert.Equal(t, "abc_pic.jpg", profile.Image)
	assert.Equal(t, "/profile/image/abc_pic.jpg", profile.URL)

	_, err = profileService.EditProfile("alice", "wrongname", "bio", "", "")
	assert.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestProfileService_FollowAndUnfollow(t *testing.T) {
	profileService, userRepo, _ := newProfileFixture(t, "bob", "carol")

	summary, err := profileService.Follow("bob", "carol")
	assert.NoError(t, err)
	assert.Equal(t, "bob", summary.Username)
	assert.Equal(t, 0, summary.Followers)
	assert.Equal(t, 1, summary.Following)

	carol, _ := userRepo.GetByID("carol")
	assert.True(t, carol.Followers.Contains("bob"))

	// Repeating the follow is a conflict.
	_, err = profileService.Follow("bob", "carol")
	assert.Error(t, err)
	assert.True(t, models.IsConflict(err))

	summary, err = profileService.Unfollow("bob", "carol")
	assert.NoError(t, err)
	assert.Equal(t, 0, summary.Following)

	carol, _ = userRepo.GetByID("carol")
	assert.False(t, carol.Followers.Contains("bob"))

	// Unfollowing a never-followed pair is a conflict.
	_, err = profileService.Unfollow("bob", "carol")
	assert.Error(t, err)
	assert.True(t, models.IsConflict(err))
}

func TestProfileService_SelfFollowRejected(t *testing.T) {
	profileService, userRepo, _ := newProfileFixture(t, "bob")

	_, err := profileService.Follow("bob", "bob")
	assert.Error(t, err)
	assert.True(t, models.IsValidation(err))

	_, err = profileService.Unfollow("bob", "bob")
	assert.Error(t, err)
	assert.True(t, models.IsValidation(err))

	bob, _ := userRepo.GetByID("bob")
	assert.Empty(t, bob.Followers)
	assert.Empty(t, bob.Following)
}

func TestProfileService_Follow_UnknownTarget(t *testing.T) {
	profileService, _, _ := newProfileFixture(t, "bob")

	_, err := profileService.Follow("bob", "ghost")
	assert.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}
