package apierror

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/junaidrashid-git/shopeasy-api/models"
	"github.com/junaidrashid-git/shopeasy-api/storage"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{models.ErrProductNotFound, http.StatusNotFound},
		{pkgerrors.Wrap(storage.ErrNotFound, "products/p1"), http.StatusNotFound},
		{models.ErrInvalidRating, http.StatusBadRequest},
		{models.ErrEmailTaken, http.StatusBadRequest},
		{pkgerrors.Wrap(storage.ErrDuplicateKey, "users"), http.StatusBadRequest},
		{models.ErrNotAuthenticated, http.StatusUnauthorized},
		{models.ErrSessionNotFound, http.StatusUnauthorized},
		{models.ErrForbidden, http.StatusForbidden},
		{models.ErrCheckoutInProgress, http.StatusConflict},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.want, Status(tc.err))
		})
	}
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("domain error keeps its message", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		Respond(c, pkgerrors.Wrap(models.ErrEmptyCart, "checkout"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"invalid input: your cart is empty"}`, w.Body.String())
	})

	t.Run("unexpected error is hidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		Respond(c, errors.New("connection refused"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Something went wrong!"}`, w.Body.String())
		assert.Len(t, c.Errors, 1)
	})
}
