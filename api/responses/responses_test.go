package responses

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/quanganhtapcode/store/pkg/errors"
	"github.com/quanganhtapcode/store/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "responses-test", Output: io.Discard})
}

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]any{"success": true})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
}

func TestWriteErrorMapsCodedErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive"), http.StatusBadRequest, "item quantity must be positive"},
		{pkgerrors.New(pkgerrors.CodeNotFound, "order not found"), http.StatusNotFound, "order not found"},
		{pkgerrors.New(pkgerrors.CodeStateConflict, "order already cancelled"), http.StatusUnprocessableEntity, "order already cancelled"},
		{pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"), http.StatusUnauthorized, "missing credentials"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		WriteError(context.Background(), testLogger(), w, tc.err)

		require.Equal(t, tc.status, w.Code)
		var body ErrorBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tc.msg, body.Error)
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), testLogger(), w,
		errors.New("pq: duplicate key value violates unique constraint"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Error)
	assert.NotContains(t, body.Error, "pq:")
}
