package handlers

import (
	"log"

	"socialnet/internal/middleware"
	"socialnet/internal/services"
	"socialnet/pkg/blobstore"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProfileHandler handles profile reads, edits and follow/unfollow.
type ProfileHandler struct {
	profileService *services.ProfileService
	blobs          *blobstore.FileStore
	validate       *validator.Validate
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *services.ProfileService, blobs *blobstore.FileStore) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		blobs:          blobs,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the profile routes. The static-segment
// routes are registered before the :username wildcard.
func (h *ProfileHandler) RegisterRoutes(router fiber.Router) {
	profileRoutes := router.Group("/profile")
	profileRoutes.Get("/image/:imagename", h.HandleGetImage)
	profileRoutes.Get("/follow/:id", h.HandleFollow)
	profileRoutes.Get("/unfollow/:id", h.HandleUnfollow)
	profileRoutes.Get("/:username", h.HandleGetProfile)
	profileRoutes.Patch("/:username/edit", h.HandleEditProfile)
}

// HandleGetProfile returns the profile matching both the path
// username and the caller's id, with posts sorted newest-first.
func (h *ProfileHandler) HandleGetProfile(c *fiber.Ctx) error {
	profile, posts, err := h.profileService.GetProfile(middleware.UserID(c), c.Params("username"))
	if err != nil {
		return respondError(c, err, fiber.StatusConflict)
	}
	return c.JSON(fiber.Map{
		"user":  profile,
		"posts": posts,
	})
}

// EditProfileRequest is the request body for profile edits. The image
// arrives as an optional multipart file.
type EditProfileRequest struct {
	Description string `json:"description" form:"description" validate:"required,max=2000"`
}

// HandleEditProfile updates the caller's description and optionally
// their profile image.
func (h *ProfileHandler) HandleEditProfile(c *fiber.Ctx) error {
	var req EditProfileRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing edit profile body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	imageRef, err := storeUploadedImage(c, h.blobs, blobstore.ProfileImages)
	if err != nil {
		if fiberErr, ok := err.(*fiber.Error); ok {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
		}
		log.Printf("Error storing profile image: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not store image",
		})
	}
	imageURL := ""
	if imageRef != "" {
		imageURL = "/profile/image/" + imageRef
	}

	profile, err := h.profileService.EditProfile(middleware.UserID(c), c.Params("username"), req.Description, imageRef, imageURL)
	if err != nil {
		return respondError(c, err, fiber.StatusConflict)
	}
	return c.JSON(fiber.Map{
		"message":     "updated successfully",
		"username":    profile.Username,
		"image":       profile.Image,
		"description": profile.Description,
		"url":         profile.URL,
	})
}

// HandleFollow adds a follow edge from the caller to the target.
// Duplicate follows answer 400, unknown targets 404.
func (h *ProfileHandler) HandleFollow(c *fiber.Ctx) error {
	summary, err := h.profileService.Follow(middleware.UserID(c), c.Params("id"))
	if err != nil {
		log.Printf("Error following %s: %v", c.Params("id"), err)
		return respondError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(summary)
}

// HandleUnfollow removes the follow edge from the caller to the
// target. Unfollowing without an edge answers 400.
func (h *ProfileHandler) HandleUnfollow(c *fiber.Ctx) error {
	summary, err := h.profileService.Unfollow(middleware.UserID(c), c.Params("id"))
	if err != nil {
		log.Printf("Error unfollowing %s: %v", c.Params("id"), err)
		return respondError(c, err, fiber.StatusBadRequest)
	}
	return c.JSON(summary)
}

// HandleGetImage serves a stored profile image by its reference.
func (h *ProfileHandler) HandleGetImage(c *fiber.Ctx) error {
	path, err := h.blobs.Path(blobstore.ProfileImages, c.Params("imagename"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "image not found",
		})
	}
	return c.SendFile(path)
}
