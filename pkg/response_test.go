package pkg

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteResponseBytes(t *testing.T) {
	w := httptest.NewRecorder()

	targetsJson := `{"calories":1600,"protein":126}`
	WriteResponseBytes(w, ContentType.JSON, []byte(targetsJson), http.StatusCreated)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, ContentType.JSON, w.Header().Get("Content-Type"))
	assert.Equal(t, targetsJson, w.Body.String())
}

func TestWriteResponseBytes_NoContentType(t *testing.T) {
	w := httptest.NewRecorder()

	WriteResponseBytes(w, "", []byte("ok"), http.StatusOK)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Content-Type"))
	assert.Equal(t, "ok", w.Body.String())
}

func TestWriteResponseBytesOK(t *testing.T) {
	w := httptest.NewRecorder()

	targetsJson := `{"calories":1600}`
	WriteResponseBytesOK(w, ContentType.JSON, []byte(targetsJson))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ContentType.JSON, w.Header().Get("Content-Type"))
	assert.Equal(t, targetsJson, w.Body.String())
}

func TestWriteResponse(t *testing.T) {
	w := httptest.NewRecorder()

	WriteResponse(w, ContentType.Text, "rate limited", http.StatusTooEarly)

	assert.Equal(t, http.StatusTooEarly, w.Code)
	assert.Equal(t, ContentType.Text, w.Header().Get("Content-Type"))
	assert.Equal(t, "rate limited", w.Body.String())
}

func TestWriteTextResponseOK(t *testing.T) {
	w := httptest.NewRecorder()

	WriteTextResponseOK(w, "discarded:some-session-id")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ContentType.Text, w.Header().Get("Content-Type"))
	assert.Equal(t, "discarded:some-session-id", w.Body.String())
}

func TestWriteJSONResponseOK(t *testing.T) {
	w := httptest.NewRecorder()

	WriteJSONResponseOK(w, `{"planId":42}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ContentType.JSON, w.Header().Get("Content-Type"))
	assert.Equal(t, `{"planId":42}`, w.Body.String())
}
