package handlers

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/hadrian75/campusfound/pkg/errors"
	"github.com/hadrian75/campusfound/pkg/response"
	"github.com/hadrian75/campusfound/pkg/validator"
)

// bindAndValidate decodes the JSON body into T and runs struct validation.
// On failure it writes the error response and returns false.
func bindAndValidate[T any](c *gin.Context) (*T, bool) {
	var payload T

	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.NewBadRequest("Invalid request body"))
		return nil, false
	}

	if err := validator.ValidateStruct(&payload); err != nil {
		response.Error(c, appErrors.NewBadRequest(err.Error()))
		return nil, false
	}

	return &payload, true
}
