package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	appErrors "github.com/hadrian75/campusfound/pkg/errors"
)

func TestSuccessEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	Success(c, http.StatusOK, map[string]string{"item": "umbrella"})

	require.Equal(t, http.StatusOK, recorder.Code)

	var payload Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	require.True(t, payload.Success)
	require.Nil(t, payload.Error)
}

func TestErrorEnvelopeFromAppError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	Error(c, appErrors.ErrNotFound)

	require.Equal(t, http.StatusNotFound, recorder.Code)

	var payload Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	require.False(t, payload.Success)
	require.NotNil(t, payload.Error)
	require.Equal(t, appErrors.ErrNotFound.Code, payload.Error.Code)
}

func TestShorthandStatuses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	OK(c, gin.H{"status": "ok"})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(recorder)
	Created(c, gin.H{"id": "abc"})
	require.Equal(t, http.StatusCreated, recorder.Code)
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(2, 20, 41)
	require.Equal(t, 2, meta.Page)
	require.Equal(t, 20, meta.PerPage)
	require.Equal(t, 41, meta.Total)
	require.Equal(t, 3, meta.TotalPages)

	require.Equal(t, 0, NewMeta(1, 0, 5).TotalPages)
}

func TestErrorEnvelopeFromGenericError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	Error(c, nil)

	require.Equal(t, http.StatusInternalServerError, recorder.Code)
}
