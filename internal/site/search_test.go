package site

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchPage = `<html><body>
<table id="listing">
  <tr><th>Name</th></tr>
  <tr><td><a href="/manga/naruto/" class="series_preview">Naruto</a></td><td>9.9</td></tr>
  <tr><td><a href="http://mangafox.test/manga/naruto_gaiden/">Naruto   Gaiden</a></td></tr>
  <tr><td><a href="/manga/naruto/">Naruto</a></td></tr>
</table>
</body></html>`

func newTestSite(t *testing.T, srv *httptest.Server) *Site {
	t.Helper()
	s, err := New(srv.Client(), Options{BaseURL: srv.URL})
	require.NoError(t, err)
	return s
}

func TestSearch(t *testing.T) {
	var gotName, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotName = r.URL.Query().Get("name")
		gotMethod = r.URL.Query().Get("name_method")
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, searchPage)
	}))
	defer srv.Close()

	results, err := newTestSite(t, srv).Search(context.Background(), "naruto")
	require.NoError(t, err)

	assert.Equal(t, "naruto", gotName)
	assert.Equal(t, "cw", gotMethod)
	require.Len(t, results, 2)
	assert.Equal(t, SearchResult{Name: "Naruto", URL: srv.URL + "/manga/naruto/"}, results[0])
	assert.Equal(t, "Naruto Gaiden", results[1].Name)
}

func TestSearchNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html><body><div>No Manga Series</div></body></html>`)
	}))
	defer srv.Close()

	results, err := newTestSite(t, srv).Search(context.Background(), "zzz")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchRetriesOnceWhenThrottled(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			_, _ = io.WriteString(w, `<html><body><div class="border">Sorry, can't search again within 5 seconds.</div></body></html>`)
			return
		}
		_, _ = io.WriteString(w, searchPage)
	}))
	defer srv.Close()

	results, err := newTestSite(t, srv).Search(context.Background(), "naruto")
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSearchGivesUpAfterSecondThrottle(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestSite(t, srv).Search(context.Background(), "naruto")
	assert.True(t, errors.Is(err, ErrThrottled))
	assert.Equal(t, int32(2), calls.Load())
}

func TestSearchDoesNotRetryOtherErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestSite(t, srv).Search(context.Background(), "naruto")

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSearchRejectsEmptyName(t *testing.T) {
	s, err := New(http.DefaultClient, Options{})
	require.NoError(t, err)

	_, err = s.Search(context.Background(), "  ")
	assert.Error(t, err)
}
