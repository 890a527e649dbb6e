// Package vault provides read/write access to the markdown notes vault.
//
// Notes are plain files with optional YAML frontmatter. The vault never
// silently overwrites: writing a title that already exists picks the next
// free numeric suffix instead.
package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vault is a handle to a notes vault rooted at a directory.
type Vault struct {
	root string
}

// Note is a parsed vault note.
type Note struct {
	Path        string
	Title       string
	Content     string
	Frontmatter map[string]any
}

// New creates a Vault for the given root path.
// Returns an error if the path is empty or not a directory.
func New(root string) (*Vault, error) {
	if root == "" {
		return nil, fmt.Errorf("no vault path configured")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("vault path %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault path %s is not a directory", root)
	}
	return &Vault{root: root}, nil
}

// Root returns the vault root directory.
func (v *Vault) Root() string {
	return v.root
}

// WriteNote creates a note under folder with the given title and markdown
// content, prepending YAML frontmatter when metadata is non-empty. Parent
// directories are created as needed. If <title>.md already exists, a numeric
// suffix is appended ("title-2.md", "title-3.md", ...) rather than
// overwriting. Returns the path of the written note.
func (v *Vault) WriteNote(folder, title, content string, metadata map[string]any) (string, error) {
	dir := filepath.Join(v.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating vault folder %s: %w", dir, err)
	}

	full := content
	if len(metadata) > 0 {
		fm, err := yaml.Marshal(metadata)
		if err != nil {
			return "", fmt.Errorf("marshaling frontmatter: %w", err)
		}
		full = "---\n" + string(fm) + "---\n\n" + content
	}

	path, err := freePath(dir, title)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(full), 0o644); err != nil {
		return "", fmt.Errorf("writing note %s: %w", path, err)
	}
	return path, nil
}

// freePath returns the first non-existing "<title>.md" variant in dir.
func freePath(dir, title string) (string, error) {
	path := filepath.Join(dir, title+".md")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, nil
	}
	for i := 2; i < 1000; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s-%d.md", title, i))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free filename for note %q in %s", title, dir)
}

// ReadNote reads and parses a note: frontmatter (when present) is
// unmarshaled, the remainder is the content.
func (v *Vault) ReadNote(path string) (*Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading note %s: %w", path, err)
	}

	note := &Note{
		Path:  path,
		Title: strings.TrimSuffix(filepath.Base(path), ".md"),
	}

	fm, content := splitFrontmatter(string(data))
	note.Content = content
	if fm != "" {
		meta := map[string]any{}
		if err := yaml.Unmarshal([]byte(fm), &meta); err == nil {
			note.Frontmatter = meta
		}
	}
	return note, nil
}

// splitFrontmatter separates a leading YAML frontmatter block from content.
// Returns ("", input) when there is no well-formed frontmatter.
func splitFrontmatter(input string) (frontmatter, content string) {
	if !strings.HasPrefix(input, "---\n") {
		return "", input
	}
	rest := input[4:]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return "", input
	}
	frontmatter = rest[:end]
	content = strings.TrimPrefix(rest[end+4:], "\n")
	content = strings.TrimPrefix(content, "\n")
	return frontmatter, content
}

// ListNotes returns the paths of all .md notes directly under folder,
// sorted by name. A missing folder yields an empty list, not an error.
func (v *Vault) ListNotes(folder string) ([]string, error) {
	dir := filepath.Join(v.root, folder)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing vault folder %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// SearchNotes returns paths of notes anywhere in the vault whose content
// contains query (case-insensitive). Unreadable files are skipped.
func (v *Vault) SearchNotes(query string) ([]string, error) {
	needle := strings.ToLower(query)
	var matches []string

	err := filepath.WalkDir(v.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip unreadable entries
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil //nolint:nilerr // skip unreadable files
		}
		if strings.Contains(strings.ToLower(string(data)), needle) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("searching vault: %w", err)
	}
	return matches, nil
}
