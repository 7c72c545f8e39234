package handlers

import (
	"fmt"
	"log"
	"strings"

	"socialnet/internal/models"
	"socialnet/pkg/blobstore"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// storeUploadedImage saves an uploaded image file if one is present
// and returns its blob reference. A missing file is not an error; a
// non-image upload is.
func storeUploadedImage(c *fiber.Ctx, blobs *blobstore.FileStore, namespace string) (string, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return "", nil // no image uploaded
	}
	if !strings.HasPrefix(fileHeader.Header.Get("Content-Type"), "image") {
		return "", fiber.NewError(fiber.StatusBadRequest, "please upload an image")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return blobs.Store(namespace, fileHeader.Filename, f)
}

// validationMessages flattens validator errors into a field → message
// map for the response body.
func validationMessages(err error) map[string]string {
	messages := make(map[string]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			messages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return messages
}

// respondError maps a service error to a status-coded response.
// Conflicts take a per-endpoint status: registration conflicts answer
// 403 while duplicate follow/unfollow answer 400. Only the
// caller-safe message is emitted; causes stay in the logs.
func respondError(c *fiber.Ctx, err error, conflictStatus int) error {
	status := fiber.StatusInternalServerError
	switch {
	case models.IsValidation(err):
		status = fiber.StatusBadRequest
	case models.IsConflict(err):
		status = conflictStatus
	case models.IsAuth(err):
		status = fiber.StatusForbidden
	case models.IsNotFound(err):
		status = fiber.StatusNotFound
	default:
		log.Printf("unexpected error: %v", err)
	}
	return c.Status(status).JSON(fiber.Map{
		"message": models.PublicMessage(err),
	})
}
