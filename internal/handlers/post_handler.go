package handlers

import (
	"log"

	"socialnet/internal/middleware"
	"socialnet/internal/services"
	"socialnet/pkg/blobstore"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PostHandler handles HTTP requests for posts. All routes require an
// authenticated identity from the auth middleware.
type PostHandler struct {
	postService *services.PostService
	blobs       *blobstore.FileStore
	validate    *validator.Validate
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postService *services.PostService, blobs *blobstore.FileStore) *PostHandler {
	return &PostHandler{
		postService: postService,
		blobs:       blobs,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the post routes.
func (h *PostHandler) RegisterRoutes(router fiber.Router) {
	postRoutes := router.Group("/posts")
	postRoutes.Get("/image/:imagename", h.HandleGetImage)
	postRoutes.Get("/", h.HandleGetAllPosts)
	postRoutes.Post("/create", h.HandleCreatePost)
	postRoutes.Get("/:id", h.HandleGetPostByID)
	postRoutes.Patch("/:id", h.HandleUpdatePostByID)
	postRoutes.Delete("/:id", h.HandleDeletePostByID)
}

// CreatePostRequest is the request body for post creation. The image
// arrives as a multipart file, not part of this struct.
type CreatePostRequest struct {
	Description string `json:"description" form:"description" validate:"required,max=2000"`
}

// HandleCreatePost creates a post owned by the caller, with an
// optional image upload.
func (h *PostHandler) HandleCreatePost(c *fiber.Ctx) error {
	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create post body: %v", err)
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

	imageRef, err := storeUploadedImage(c, h.blobs, blobstore.PostImages)
	if err != nil {
		if fiberErr, ok := err.(*fiber.Error); ok {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
		}
		log.Printf("Error storing post image: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not store image",
		})
	}

	post, err := h.postService.CreatePost(middleware.UserID(c), req.Description, imageRef)
	if err != nil {
		log.Printf("Error creating post: %v", err)
		return respondError(c, err, fiber.StatusConflict)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// HandleGetAllPosts lists the caller's posts with page/limit
// pagination.
func (h *PostHandler) HandleGetAllPosts(c *fiber.Ctx) error {
	page := c.QueryInt("page", 0)
	limit := c.QueryInt("limit", 0)

	posts, err := h.postService.GetAllPosts(middleware.UserID(c), page, limit)
	if err != nil {
		log.Printf("Error listing posts: %v", err)
		return respondError(c, err, fiber.StatusConflict)
	}
	return c.JSON(posts)
}

// HandleGetPostByID returns a single post owned by the caller.
func (h *PostHandler) HandleGetPostByID(c *fiber.Ctx) error {
	post, err := h.postService.GetPostByID(middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err, fiber.StatusConflict)
	}
	return c.JSON(post)
}

// UpdatePostRequest is the request body for partial post updates.
type UpdatePostRequest struct {
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Image       *string `json:"image"`
}

// HandleUpdatePostByID applies the provided fields to an owned post.
func (h *PostHandler) HandleUpdatePostByID(c *fiber.Ctx) error {
	var req UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update post body: %v", err)
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

	post, err := h.postService.UpdatePostByID(middleware.UserID(c), c.Params("id"), req.Description, req.Image)
	if err != nil {
		return respondError(c, err, fiber.StatusConflict)
	}
	return c.JSON(post)
}

// HandleDeletePostByID deletes an owned post and returns it.
func (h *PostHandler) HandleDeletePostByID(c *fiber.Ctx) error {
	post, err := h.postService.DeletePostByID(middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err, fiber.StatusConflict)
	}
	return c.JSON(post)
}

// HandleGetImage serves a stored post image by its reference.
func (h *PostHandler) HandleGetImage(c *fiber.Ctx) error {
	path, err := h.blobs.Path(blobstore.PostImages, c.Params("imagename"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "image not found",
		})
	}
	return c.SendFile(path)
}
