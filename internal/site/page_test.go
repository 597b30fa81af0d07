package site

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const readerPage = `<!DOCTYPE html>
<html><body>
<div id="top_bar">
  <select class="m" onchange="change_page(this)">
    <option value="1" selected="selected">1</option>
    <option value="2">2</option>
    <option value="3">3</option>
    <option value="0">Comments</option>
  </select>
  <a href="javascript:void(0);" class="btn prev_page">prev</a>
  <a href="2.html" class="btn next_page">next</a>
</div>
<div class="read_img">
  <a href="javascript:void(0);" onclick="return enlarge()">
    <img id="image" src="//img.example.com/store/manga/1/01-001.0/compressed/a001.jpg?token=x" alt="page">
  </a>
</div>
<div id="bottom_bar">
  <select class="m"><option value="1">1</option><option value="2">2</option><option value="3">3</option></select>
</div>
</body></html>`

func TestParsePage(t *testing.T) {
	p, err := ParsePage("http://mangafox.test/manga/naruto/v01/c001/1.html", []byte(readerPage))
	require.NoError(t, err)

	assert.Equal(t, "http://img.example.com/store/manga/1/01-001.0/compressed/a001.jpg?token=x", p.ImageURL)
	assert.Equal(t, "http://mangafox.test/manga/naruto/v01/c001/2.html", p.NextURL)
	assert.Equal(t, 3, p.Total)
}

func TestParsePageLastPage(t *testing.T) {
	body := `<html><body>
<a href="javascript:void(0);" class="btn next_page">next</a>
<img id="image" src="/img/last.png">
</body></html>`

	p, err := ParsePage("http://mangafox.test/manga/naruto/v01/c001/9.html", []byte(body))
	require.NoError(t, err)

	assert.Equal(t, "http://mangafox.test/img/last.png", p.ImageURL)
	assert.Empty(t, p.NextURL)
	assert.Zero(t, p.Total)
}

func TestParsePageWithoutImage(t *testing.T) {
	_, err := ParsePage("http://mangafox.test/x/1.html", []byte(`<html><body><img src="a.jpg"></body></html>`))
	assert.True(t, errors.Is(err, ErrImageNotFound))
}

func TestWithNoWarning(t *testing.T) {
	assert.Equal(t, "http://mangafox.test/manga/naruto/?no_warning=1", WithNoWarning("http://mangafox.test/manga/naruto/"))
	assert.Equal(t, "http://mangafox.test/manga/naruto/?a=b&no_warning=1", WithNoWarning("http://mangafox.test/manga/naruto/?a=b"))
}

func TestSameChapter(t *testing.T) {
	start := "http://mangafox.test/manga/naruto/v01/c001/1.html"

	assert.True(t, SameChapter(start, "http://mangafox.test/manga/naruto/v01/c001/2.html"))
	assert.False(t, SameChapter(start, "http://mangafox.test/manga/naruto/v01/c002/1.html"))
	assert.False(t, SameChapter(start, "http://other.test/manga/naruto/v01/c001/2.html"))
}
