// Package site knows the one MangaFox HTML layout this tool understands:
// the search results table, the chapter list of a comic, and the reader
// page with its image and "next page" link.
package site
