// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage keeps validated uploads on the local filesystem.

Files arrive as temporary spools from the upload middleware and are moved to
a permanent key of the form:

	<category>/<uuidv7>-<slug>.<ext>

Serving the files back is left to the web server in front of the API.
*/
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/taibuivan/cadenza/internal/platform/upload"
	"github.com/taibuivan/cadenza/pkg/slug"
	"github.com/taibuivan/cadenza/pkg/uuid"
)

// maxSlugLength bounds the readable part of a key.
const maxSlugLength = 60

// ErrInvalidKey is returned for keys that escape the storage root.
var ErrInvalidKey = errors.New("storage: invalid key")

// Object describes a stored file.
type Object struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// Store is a directory-backed object store.
type Store struct {
	root    string
	baseURL string
}

// New creates the root directory if needed.
func New(root, baseURL string) (*Store, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("storage: create root %s: %w", root, err)
	}
	return &Store{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save moves file from its temporary path into the store.
func (store *Store) Save(file upload.File) (Object, error) {
	key := path.Join(file.Category.Dir(), objectName(file.Filename))
	destination := filepath.Join(store.root, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(destination), 0o750); err != nil {
		return Object{}, fmt.Errorf("storage: create directory: %w", err)
	}

	if err := move(file.Path, destination); err != nil {
		return Object{}, err
	}

	return Object{Key: key, URL: store.URL(key), Size: file.Size}, nil
}

// Delete removes the object at key. A missing object is not an error.
func (store *Store) Delete(key string) error {
	destination, err := store.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(destination); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

// URL returns the public URL of key.
func (store *Store) URL(key string) string {
	return store.baseURL + "/" + key
}

// KeyFor returns the key of an object URL produced by this store.
func (store *Store) KeyFor(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, store.baseURL+"/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

func (store *Store) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	return filepath.Join(store.root, filepath.FromSlash(clean)), nil
}

// objectName builds "<uuidv7>-<slug>.<ext>" from the client file name.
func objectName(filename string) string {
	extension := strings.ToLower(filepath.Ext(filename))
	if slugged := slug.From(extension); slugged != "" {
		extension = "." + slugged
	} else {
		extension = ""
	}

	base := slug.From(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if len(base) > maxSlugLength {
		base = strings.Trim(base[:maxSlugLength], "-")
	}
	if base == "" {
		base = "file"
	}

	return uuid.New() + "-" + base + extension
}

// move renames source to destination, copying when the rename crosses devices.
func move(source, destination string) error {
	if err := os.Rename(source, destination); err == nil {
		return nil
	}

	input, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("storage: open spool: %w", err)
	}
	defer input.Close()

	output, err := os.OpenFile(destination, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return fmt.Errorf("storage: create object: %w", err)
	}

	if _, err := io.Copy(output, input); err != nil {
		output.Close()
		_ = os.Remove(destination)
		return fmt.Errorf("storage: copy object: %w", err)
	}
	if err := output.Close(); err != nil {
		_ = os.Remove(destination)
		return fmt.Errorf("storage: close object: %w", err)
	}

	_ = os.Remove(source)
	return nil
}
