package utils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSONSendsJSONAndDecodes(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/echo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["message"]})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	var out map[string]string
	err := PostJSON(context.Background(), srv.Client(), srv.URL+"/echo", map[string]string{"message": "hi"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "hi", out["echo"])
}

func TestPostJSONRejectsErrorStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/fail", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	var out map[string]string
	err := PostJSON(context.Background(), srv.Client(), srv.URL+"/fail", map[string]string{}, &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
	assert.Contains(t, err.Error(), "500")
}

func TestPostJSONRejectsMalformedBody(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/html", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	var out map[string]string
	err := PostJSON(context.Background(), srv.Client(), srv.URL+"/html", map[string]string{}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestPostJSONRejectsTrailingGarbage(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/mixed", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"echo":"X"} <html>`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	var out map[string]string
	err := PostJSON(context.Background(), srv.Client(), srv.URL+"/mixed", map[string]string{}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}
