package repair_service

import (
	"archive/tar"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
)

// packDir writes srcDir as a tar.gz at dst. Entry names are relative to srcDir.
// The file appears at dst only once it is complete.
func packDir(srcDir, dst string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".packing-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPackaging, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	gz := gzip.NewWriter(tmp)
	tw := tar.NewWriter(gz)

	walkErr := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		return addEntry(tw, path, filepath.ToSlash(rel), d)
	})
	if walkErr != nil {
		return fmt.Errorf("%w: %v", ErrPackaging, walkErr)
	}

	if err = tw.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrPackaging, err)
	}
	if err = gz.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrPackaging, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrPackaging, err)
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrPackaging, err)
	}
	if err = os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("%w: %v", ErrPackaging, err)
	}

	return nil
}

func addEntry(tw *tar.Writer, path, name string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}

	var link string
	if info.Mode()&fs.ModeSymlink != 0 {
		if link, err = os.Readlink(path); err != nil {
			return err
		}
	} else if !info.Mode().IsRegular() && !info.IsDir() {
		return nil
	}

	hdr, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return err
	}
	hdr.Name = name
	if info.IsDir() {
		hdr.Name += "/"
	}

	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(tw, f)
	return err
}

func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrChecksum, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("%w: %v", ErrChecksum, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
