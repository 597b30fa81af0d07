package chapters

import (
	"testing"

	"github.com/brogergvhs/mangafox/internal/site"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"My cool movie.mov":          "My_cool_movie.mov",
		"../../../etc/passwd":        "etc_passwd",
		"i contain cool ümläuts.txt": "i_contain_cool_umlauts.txt",
		"Naruto 700: The End!":       "Naruto_700_The_End",
		"  .hidden  ":                "hidden",
		"con.txt":                    "_con.txt",
		"ワンピース":                      "",
	}

	for in, want := range cases {
		assert.Equal(t, want, SanitizeFilename(in), in)
	}
}

func TestFolderName(t *testing.T) {
	c := Chapter{Chapter: site.Chapter{Index: 7, Name: "Naruto 8"}}
	assert.Equal(t, "Naruto_8", c.FolderName(false))
	assert.Equal(t, "007", c.FolderName(true))
	assert.Equal(t, "07", c.Label())

	c.Name = "ワンピース"
	assert.Equal(t, "chapter_007", c.FolderName(false))
}
