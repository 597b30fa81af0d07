package util

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// CreateCBZ packs files, sorted by name, into a comic book archive at output.
// A failed archive is removed so no truncated .cbz is left behind.
func CreateCBZ(files []string, output string) (err error) {
	if len(files) == 0 {
		return fmt.Errorf("cbz: no pages for %s", output)
	}

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("cbz: %w", err)
	}

	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("cbz: close %s: %w", output, cerr)
		}
		if err != nil {
			_ = os.Remove(output)
		}
	}()

	z := zip.NewWriter(out)

	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	for _, file := range sorted {
		if err := addFileToZip(z, file); err != nil {
			_ = z.Close()
			return fmt.Errorf("cbz: %s: %w", file, err)
		}
	}

	if err := z.Close(); err != nil {
		return fmt.Errorf("cbz: finalize %s: %w", output, err)
	}

	return nil
}

func addFileToZip(z *zip.Writer, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}

	header.Name = filepath.Base(file)
	header.Method = zip.Deflate

	w, err := z.CreateHeader(header)
	if err != nil {
		return err
	}

	_, err = io.Copy(w, f)
	return err
}
