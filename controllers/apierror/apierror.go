// Package apierror turns service errors into HTTP responses.
package apierror

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/shopeasy-api/models"
	"github.com/junaidrashid-git/shopeasy-api/storage"
)

// GenericMessage is what clients see for unexpected failures.
const GenericMessage = "Something went wrong!"

func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, models.ErrNotAuthenticated), errors.Is(err, models.ErrInvalidCredentials),
		errors.Is(err, models.ErrSessionNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrCheckoutInProgress):
		return http.StatusConflict
	case errors.Is(err, models.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalid), errors.Is(err, models.ErrConflict),
		errors.Is(err, storage.ErrDuplicateKey):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes {"error": msg} with the status Status picks. Unexpected
// errors are attached to the context for the request logger and replaced
// with GenericMessage.
func Respond(c *gin.Context, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": GenericMessage})
		return
	}
	c.JSON(status, gin.H{"error": message(err)})
}

// message prefers the domain error's own text over any wrapping context.
func message(err error) string {
	for _, target := range []error{
		models.ErrSessionNotFound,
		models.ErrProductNotFound,
		models.ErrReviewNotFound,
		models.ErrOrderNotFound,
		models.ErrUserNotFound,
		models.ErrEmailTaken,
		models.ErrUsernameTaken,
		models.ErrInvalidRating,
		models.ErrInvalidPrice,
		models.ErrInvalidQuantity,
		models.ErrInvalidOrderStatus,
		models.ErrInvalidPayment,
		models.ErrPasswordMismatch,
		models.ErrEmptyCart,
		models.ErrMissingField,
		storage.ErrDuplicateKey,
		storage.ErrNotFound,
	} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}
