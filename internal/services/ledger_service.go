package services

import (
	"fmt"
	"log"

	"socialnet/internal/models"
	"socialnet/internal/repositories"
)

// LedgerService keeps the cross-referencing id sets consistent: the
// user's authored-posts set against post ownership rows, and the
// paired follower/following sets of a follow edge.
//
// Compound operations touch two records sequentially with no
// transaction across them. If the second update fails after the first
// succeeded the records are left in a defined degraded state
// (orphaned post link, asymmetric follow edge) which Reconcile
// repairs; nothing here retries automatically.
type LedgerService struct {
	userRepo repositories.UserRepository
	postRepo repositories.PostRepository
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(userRepo repositories.UserRepository, postRepo repositories.PostRepository) *LedgerService {
	return &LedgerService{
		userRepo: userRepo,
		postRepo: postRepo,
	}
}

// LinkPostToAuthor records postID in the author's authored-posts set.
// Re-linking an already linked post is a no-op, so a retry after a
// partial failure converges instead of duplicating.
func (s *LedgerService) LinkPostToAuthor(postID, authorID string) error {
	if err := s.userRepo.AppendPost(authorID, postID); err != nil {
		return fmt.Errorf("failed to link post %s to author %s: %w", postID, authorID, err)
	}
	return nil
}

// UnlinkPostFromAuthor removes postID from the author's
// authored-posts set. An already absent id is a no-op, not an error.
func (s *LedgerService) UnlinkPostFromAuthor(postID, authorID string) error {
	if err := s.userRepo.RemovePost(authorID, postID); err != nil {
		return fmt.Errorf("failed to unlink post %s from author %s: %w", postID, authorID, err)
	}
	return nil
}

// AddFollowEdge records that follower follows followee on both sides
// of the edge. A duplicate follow is a conflict, not a silent
// success: following someone twice is a user action worth flagging.
func (s *LedgerService) AddFollowEdge(followerID, followeeID string) error {
	followee, err := s.userRepo.GetByID(followeeID)
	if err != nil {
		return err
	}
	if followee.Followers.Contains(followerID) {
		return models.NewConflictError("already following the user", nil)
	}

	if err := s.userRepo.AddFollower(followeeID, followerID); err != nil {
		return fmt.Errorf("failed to record follower side of %s -> %s: %w", followerID, followeeID, err)
	}
	if err := s.userRepo.AddFollowing(followerID, followeeID); err != nil {
		// Edge is now asymmetric until the next reconciliation sweep.
		log.Printf("follow edge %s -> %s left asymmetric: %v", followerID, followeeID, err)
		return fmt.Errorf("failed to record following side of %s -> %s: %w", followerID, followeeID, err)
	}
	return nil
}

// RemoveFollowEdge removes the edge from both sides. Unfollowing
// someone who is not followed is a conflict.
func (s *LedgerService) RemoveFollowEdge(followerID, followeeID string) error {
	followee, err := s.userRepo.GetByID(followeeID)
	if err != nil {
		return err
	}
	if !followee.Followers.Contains(followerID) {
		return models.NewConflictError("not following the user", nil)
	}

	if err := s.userRepo.RemoveFollower(followeeID, followerID); err != nil {
		return fmt.Errorf("failed to remove follower side of %s -> %s: %w", followerID, followeeID, err)
	}
	if err := s.userRepo.RemoveFollowing(followerID, followeeID); err != nil {
		log.Printf("follow edge %s -> %s left asymmetric: %v", followerID, followeeID, err)
		return fmt.Errorf("failed to remove following side of %s -> %s: %w", followerID, followeeID, err)
	}
	return nil
}

// Reconcile is the maintenance sweep that repairs degraded states
// left behind by partial failures. Authored-posts sets are rebuilt
// from post ownership rows (the canonical side), and an asymmetric
// follow edge observed on either side is restored on both. Self-follow
// entries are dropped.
func (s *LedgerService) Reconcile() error {
	posts, err := s.postRepo.GetAll()
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}
	users, err := s.userRepo.GetAll()
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	ownedPosts := make(map[string]models.IDSet)
	for _, post := range posts {
		ownedPosts[post.PostedBy] = ownedPosts[post.PostedBy].Add(post.ID)
	}

	known := make(map[string]bool, len(users))
	for _, user := range users {
		known[user.ID] = true
	}

	// An edge exists if either side recorded it.
	followers := make(map[string]models.IDSet)
	following := make(map[string]models.IDSet)
	record := func(followerID, followeeID string) {
		if followerID == followeeID || !known[followerID] || !known[followeeID] {
			return
		}
		followers[followeeID] = followers[followeeID].Add(followerID)
		following[followerID] = following[followerID].Add(followeeID)
	}
	for _, user := range users {
		for _, followerID := range user.Followers {
			record(followerID, user.ID)
		}
		for _, followeeID := range user.Following {
			record(user.ID, followeeID)
		}
	}

	repaired := 0
	for _, user := range users {
		wantPosts := ownedPosts[user.ID]
		wantFollowers := followers[user.ID]
		wantFollowing := following[user.ID]
		if sameSet(user.Posts, wantPosts) && sameSet(user.Followers, wantFollowers) && sameSet(user.Following, wantFollowing) {
			continue
		}
		if err := s.userRepo.ReplaceSets(user.ID, orEmpty(wantPosts), orEmpty(wantFollowers), orEmpty(wantFollowing)); err != nil {
			return fmt.Errorf("reconcile user %s: %w", user.ID, err)
		}
		repaired++
	}
	if repaired > 0 {
		log.Printf("reconciliation repaired %d user(s)", repaired)
	}
	return nil
}

func orEmpty(s models.IDSet) models.IDSet {
	if s == nil {
		return models.IDSet{}
	}
	return s
}

func sameSet(a, b models.IDSet) bool {
	if len(a) != len(b) {
		return false
	}
	for _, id := range a {
		if !b.Contains(id) {
			return false
		}
	}
	return true
}
