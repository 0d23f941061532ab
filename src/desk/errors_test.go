package desk

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NotFound("Book %s not found", "x"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, CodeNotFound, CodeOf(err))
	assert.Equal(t, "wrapped: Book x not found", err.Error())

	assert.Equal(t, Code(""), CodeOf(fmt.Errorf("plain")))

	assert.Equal(t, http.StatusNotFound, CodeNotFound.HTTPStatus())
	assert.Equal(t, http.StatusConflict, CodeInsufficientStock.HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, CodeInvalidArgument.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, Code("").HTTPStatus())
}
