package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/backend/internal/domain/link"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>  Newton's Laws  </title>
  <style>body { color: red; }</style>
</head>
<body>
  <script>console.log("ignore me");</script>
  <h1>Newton's Laws of Motion</h1>
  <p>An object   in motion
  stays in motion.</p>
</body>
</html>`

func TestFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	e := New()
	res, err := e.FromURL(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "Newton's Laws", res.Title)
	assert.Equal(t, "Newton's Laws of Motion An object in motion stays in motion.", res.Content)
	assert.Equal(t, link.TypeURL, res.Type)
	assert.NotContains(t, res.Content, "ignore me")
	assert.NotContains(t, res.Content, "color: red")
}

func TestFromURL_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	e := New()
	_, err := e.FromURL(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestFromURLs_ErrorRowInsteadOfFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	e := New()
	results := e.FromURLs(context.Background(), []string{srv.URL, "http://127.0.0.1:1/unreachable"})

	require.Len(t, results, 2)
	assert.Equal(t, link.TypeURL, results[0].Type)
	assert.Equal(t, link.TypeError, results[1].Type)
	assert.Contains(t, results[1].Content, "Failed to extract content")
	assert.Equal(t, "http://127.0.0.1:1/unreachable", results[1].Title)
}

func TestIsYouTube(t *testing.T) {
	assert.True(t, IsYouTube("https://www.youtube.com/watch?v=abc"))
	assert.True(t, IsYouTube("https://youtu.be/abc"))
	assert.False(t, IsYouTube("https://example.com/youtube-history"))
}
