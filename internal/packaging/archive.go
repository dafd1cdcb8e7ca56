package packaging

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
)

// Archive writes every regular file under dir into a ZIP archive at
// outputZip. Entry names are slash-separated paths relative to dir and keep
// the file modes. An existing archive is replaced only once the new one is
// complete.
func Archive(dir, outputZip string) error {
	tmp, err := os.CreateTemp(filepath.Dir(outputZip), filepath.Base(outputZip)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create archive %s: %w", outputZip, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	if err := writeArchive(tmp, dir); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to archive %s: %w", dir, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write archive %s: %w", outputZip, err)
	}
	if err := os.Rename(tmpName, outputZip); err != nil {
		return fmt.Errorf("failed to move archive into place: %w", err)
	}
	return nil
}

func writeArchive(w io.Writer, dir string) error {
	zw := zip.NewWriter(w)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate

		entry, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}
		return copyFile(entry, path)
	})
	if err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}

func copyFile(dst io.Writer, path string) error {
	f, err := os.Open(path) // #nosec G304 - path comes from walking the publish directory
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(dst, f)
	return err
}
