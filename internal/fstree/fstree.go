// Package fstree walks an extracted archive tree.
package fstree

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ListFiles returns every non-directory entry under dir as a slash-separated
// path relative to dir, in lexical walk order.
func ListFiles(dir string) ([]string, error) {
	files := make([]string, 0)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnumeration, err)
	}

	return files, nil
}

// TotalSize sums the sizes of regular files under dir.
func TotalSize(dir string) (int64, error) {
	var total int64

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
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEnumeration, err)
	}

	return total, nil
}

// CopyFiltered copies src into dst, leaving out every non-directory entry for
// which skip returns true. Directories are never skipped as a whole: a
// directory matched by skip is created only when something inside it is kept,
// so exactly the files ListFiles would not report as skipped end up in dst.
// Returns the number of entries written.
func CopyFiltered(src, dst string, skip func(rel string) bool) (int, error) {
	copied := 0

	if err := os.MkdirAll(dst, 0755); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCopy, err)
	}

	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		excluded := skip(filepath.ToSlash(rel))
		if excluded && !d.IsDir() {
			return nil
		}

		target := filepath.Join(dst, rel)
		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			if excluded {
				return nil
			}
			return os.MkdirAll(target, info.Mode().Perm()|0700)
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			if err := os.Symlink(link, target); err != nil {
				return err
			}
			copied++
			return nil
		case d.Type().IsRegular():
			if err := copyFile(path, target, info); err != nil {
				return err
			}
			copied++
			return nil
		default:
			return nil
		}
	})
	if err != nil {
		return copied, fmt.Errorf("%w: %v", ErrCopy, err)
	}

	return copied, nil
}

func copyFile(src, dst string, info fs.FileInfo) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
