// Package archive enumerates article archives and walks their fixed layout:
//
//	<source>.zip
//	└── <source>/
//	    └── <source dir>/
//	        └── articles/
//	            └── *.json
package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// ArticleSuffix is the file suffix of article entries.
const ArticleSuffix = ".json"

const archivePattern = "*.zip"

// Archive structure errors.
var (
	ErrInputDir          = errors.New("cannot list input directory")
	ErrMissingSourceRoot = errors.New("archive has no top-level directory named after it")
	ErrMissingArticles   = errors.New("source directory has no articles directory")
	ErrEntryNotFound     = errors.New("archive entry not found")
)

// Enumerate returns the *.zip files directly inside dir, in lexical order.
func Enumerate(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInputDir, dir, err)
	}

	var paths []string

	for _, entry := range entries {
		if ok, _ := filepath.Match(archivePattern, entry.Name()); ok {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}

	return paths, nil
}

// SourceName returns the archive file name without its extension.
func SourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Archive is an open article archive.
type Archive struct {
	reader *zip.ReadCloser
	files  map[string]*zip.File
	path   string
	source string
	names  []string
}

// Open opens the archive at path.
func Open(path string) (*Archive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}

	a := &Archive{
		reader: rc,
		files:  make(map[string]*zip.File, len(rc.File)),
		path:   path,
		source: SourceName(path),
		names:  make([]string, 0, len(rc.File)),
	}

	for _, f := range rc.File {
		if _, dup := a.files[f.Name]; !dup {
			a.names = append(a.names, f.Name)
		}

		a.files[f.Name] = f
	}

	return a, nil
}

// Path returns the file system path the archive was opened from.
func (a *Archive) Path() string {
	return a.path
}

// Source returns the source label derived from the file name.
func (a *Archive) Source() string {
	return a.source
}

// Close releases the underlying file.
func (a *Archive) Close() error {
	return a.reader.Close()
}

// SourceDirs returns the directories directly below the <source>/ root, in the
// order they first appear in the archive.
func (a *Archive) SourceDirs() ([]string, error) {
	root := a.source + "/"

	dirs, _, found := a.children(root)
	if !found {
		return nil, fmt.Errorf("%w: %s in %s", ErrMissingSourceRoot, root, a.path)
	}

	return dirs, nil
}

// ArticleFiles returns the article entries directly inside <dir>/articles/.
// Only file entries ending in ArticleSuffix are returned.
func (a *Archive) ArticleFiles(dir string) ([]string, error) {
	prefix := strings.TrimSuffix(dir, "/") + "/articles/"

	_, files, found := a.children(prefix)
	if !found {
		return nil, fmt.Errorf("%w: %s in %s", ErrMissingArticles, dir, a.path)
	}

	articles := make([]string, 0, len(files))

	for _, name := range files {
		if strings.HasSuffix(name, ArticleSuffix) {
			articles = append(articles, name)
		}
	}

	return articles, nil
}

// ReadArticle returns the full text of the named entry.
func (a *Archive) ReadArticle(name string) (string, error) {
	f, ok := a.files[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}

	r, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}

	return string(data), nil
}

// children lists the immediate child directories and files below prefix.
// Directories are implied by nested entries, so archives without explicit
// directory entries are handled. found reports whether prefix exists at all.
func (a *Archive) children(prefix string) (dirs, files []string, found bool) {
	seen := make(map[string]bool)

	for _, name := range a.names {
		if !strings.HasPrefix(name, prefix) {
			continue
		}

		found = true
		rest := name[len(prefix):]

		if rest == "" {
			continue
		}

		if i := strings.IndexByte(rest, '/'); i >= 0 {
			dir := prefix + rest[:i]
			if !seen[dir] {
				seen[dir] = true
				dirs = append(dirs, dir)
			}

			continue
		}

		files = append(files, name)
	}

	return dirs, files, found
}
