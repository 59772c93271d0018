package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// Destination is the folder an upload lands in. Routes pick it explicitly.
type Destination string

const (
	Discussion  Destination = "discussion"
	Banners     Destination = "banners"
	Submissions Destination = "submissions"
	Avatars     Destination = "avatars"
	Lessons     Destination = "lessons"
)

// PublicPrefix is the URL prefix the upload root is served under.
const PublicPrefix = "/uploads"

// maxNameAttempts bounds the numbered names tried when a stored name is already taken.
const maxNameAttempts = 1000

// StoredFile describes a saved upload. Ext is the lower-cased extension of the client's
// file name with its dot (".pdf"), empty when the name has none.
type StoredFile struct {
	URL  string
	Name string
	Ext  string
}

// LocalStorage writes uploads below a root directory on disk.
type LocalStorage struct {
	root string
	now  func() time.Time
}

func NewLocalStorage(root string) *LocalStorage {
	return &LocalStorage{root: root, now: time.Now}
}

func (s *LocalStorage) Root() string { return s.root }

// Save copies the uploaded file to <root>/<dest>/<unix-millis>-<name> and returns its public URL.
func (s *LocalStorage) Save(dest Destination, fh *multipart.FileHeader) (StoredFile, error) {
	src, err := fh.Open()
	if err != nil {
		return StoredFile{}, err
	}
	defer src.Close()
	return s.Write(dest, fh.Filename, src)
}

func (s *LocalStorage) Write(dest Destination, filename string, r io.Reader) (StoredFile, error) {
	dir := filepath.Join(s.root, string(dest))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return StoredFile{}, fmt.Errorf("create upload dir: %w", err)
	}

	base := cleanName(filename)
	stamp := s.now().UnixMilli()
	name := fmt.Sprintf("%d-%s", stamp, base)
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	for n := 1; errors.Is(err, os.ErrExist) && n <= maxNameAttempts; n++ {
		name = fmt.Sprintf("%d-%d-%s", stamp, n, base)
		f, err = os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	}
	if err != nil {
		return StoredFile{}, fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return StoredFile{}, fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return StoredFile{}, err
	}

	return StoredFile{
		URL:  path.Join(PublicPrefix, string(dest), name),
		Name: name,
		Ext:  strings.ToLower(filepath.Ext(base)),
	}, nil
}

// SaveAll stores at most max files, in order.
func (s *LocalStorage) SaveAll(dest Destination, files []*multipart.FileHeader, max int) ([]StoredFile, error) {
	if len(files) > max {
		files = files[:max]
	}
	out := make([]StoredFile, 0, len(files))
	for _, fh := range files {
		sf, err := s.Save(dest, fh)
		if err != nil {
			return nil, err
		}
		out = append(out, sf)
	}
	return out, nil
}

// cleanName drops whitespace and any directory part of a client supplied name.
func cleanName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." || name == "/" {
		return "file"
	}
	return name
}
