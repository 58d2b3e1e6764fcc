package server

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"quicktransfer/internal/api"
	"quicktransfer/internal/errors"
	"quicktransfer/internal/filetype"
)

// Storage is the served directory tree plus the trash that deleted files
// are moved into. All paths handed to it are slash separated and relative
// to the root; "" is the root itself.
type Storage struct {
	root  string
	trash string
}

// NewStorage creates both directories if needed.
func NewStorage(root, trash string) (*Storage, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.NewFileError("invalid storage directory", root, errors.InvalidPath, err)
	}
	absTrash, err := filepath.Abs(trash)
	if err != nil {
		return nil, errors.NewFileError("invalid trash directory", trash, errors.InvalidPath, err)
	}
	for _, dir := range []string{absRoot, absTrash} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.NewFileError("cannot create directory", dir, errors.FileCreateFailed, err)
		}
	}
	// Resolve compares against symlink-free paths.
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = resolved
	}
	return &Storage{root: absRoot, trash: absTrash}, nil
}

// Root returns the absolute storage root.
func (s *Storage) Root() string { return s.root }

// Resolve maps rel to an absolute path and refuses anything that ends up
// outside the root.
func (s *Storage) Resolve(rel string) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if resolved, err := filepath.EvalSymlinks(full); err == nil {
		full = resolved
	}
	r, err := filepath.Rel(s.root, full)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", errors.NewFileError("access denied", rel, errors.FileAccessDenied, nil)
	}
	return full, nil
}

// List returns the entries of the directory rel in name order.
func (s *Storage) List(rel string) ([]api.Entry, error) {
	dir, err := s.Resolve(rel)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, errors.NewFileError("directory does not exist", rel, errors.FileNotFound, err)
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewFileError("cannot read directory", rel, errors.FileAccessDenied, err)
	}

	items := make([]api.Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		info, err := de.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		entry := api.Entry{
			Name:     de.Name(),
			Type:     filetype.Classify(de.Name(), info.IsDir()),
			Modified: float64(info.ModTime().UnixNano()) / 1e9,
		}
		if info.Mode().IsRegular() {
			size := info.Size()
			entry.Size = &size
		}
		items = append(items, entry)
	}
	return items, nil
}

// Open opens the regular file rel for reading.
func (s *Storage) Open(rel string) (*os.File, os.FileInfo, error) {
	path, err := s.Resolve(rel)
	if err != nil {
		return nil, nil, err
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, nil, errors.NewFileError("file does not exist", rel, errors.FileNotFound, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.NewFileError("cannot open file", rel, errors.FileAccessDenied, err)
	}
	return f, info, nil
}

// Save writes r into the directory dir under a sanitised, unused version
// of name and returns the name actually used.
func (s *Storage) Save(dir, name string, r io.Reader) (string, error) {
	target, err := s.Resolve(dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(target, 0755); err != nil {
		return "", errors.NewFileError("cannot create directory", dir, errors.FileCreateFailed, err)
	}

	clean := SanitizeFilename(name)
	for {
		candidate := api.AvailableName(target, clean)
		out, err := os.OpenFile(filepath.Join(target, candidate), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if os.IsExist(err) {
			// Taken by a concurrent upload; pick the next one.
			continue
		}
		if err != nil {
			return "", errors.NewFileError("cannot create file", api.JoinPath(dir, candidate), errors.FileCreateFailed, err)
		}
		if _, err := io.Copy(out, r); err != nil {
			out.Close()
			os.Remove(out.Name())
			return "", errors.NewFileError("cannot write file", api.JoinPath(dir, candidate), errors.FileOperationFailed, err)
		}
		if err := out.Close(); err != nil {
			return "", errors.NewFileError("cannot write file", api.JoinPath(dir, candidate), errors.FileOperationFailed, err)
		}
		return candidate, nil
	}
}

// Trash moves the regular file rel to the same relative location under
// the trash directory and returns its new absolute path.
func (s *Storage) Trash(rel string) (string, error) {
	src, err := s.Resolve(rel)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(src)
	if err != nil || !info.Mode().IsRegular() {
		return "", errors.NewFileError("file does not exist", rel, errors.FileNotFound, err)
	}

	r, err := filepath.Rel(s.root, src)
	if err != nil {
		return "", errors.NewFileError("access denied", rel, errors.FileAccessDenied, err)
	}
	dst := filepath.Join(s.trash, r)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", errors.NewFileError("cannot create directory", filepath.Dir(dst), errors.FileCreateFailed, err)
	}
	if err := moveFile(src, dst); err != nil {
		return "", errors.NewFileError("cannot move file to trash", rel, errors.FileOperationFailed, err)
	}
	return dst, nil
}

// moveFile renames src to dst, copying across filesystems when needed.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy failed: %w", err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}

// SanitizeFilename reduces name to a single safe path component: letters,
// digits, '-', '_' and '.', with whitespace turned into '_'. Leading and
// trailing dots and underscores are dropped. An empty result becomes
// "upload".
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_', r == '.':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}

	clean := strings.Trim(b.String(), "._")
	if clean == "" {
		return "upload"
	}
	return clean
}
