// Package organize sorts a folder's files into category subfolders and
// finds duplicates. Planning and applying are separate steps so commands
// can preview before touching anything.
package organize

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Mode selects how files are grouped.
type Mode string

const (
	ByType Mode = "by-type"
	ByDate Mode = "by-date"
	BySize Mode = "by-size"
)

// ParseMode validates a mode flag value.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ByType, ByDate, BySize:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown organize mode %q (want by-type, by-date, or by-size)", s)
}

// categories maps a folder name to the extensions it collects. Lookup is
// by lowercased extension; anything unmatched lands in Other.
var categories = []struct {
	name string
	exts []string
}{
	{"Documents", []string{".pdf", ".doc", ".docx", ".txt", ".rtf", ".odt", ".md"}},
	{"Spreadsheets", []string{".xls", ".xlsx", ".csv"}},
	{"Presentations", []string{".ppt", ".pptx"}},
	{"Images", []string{".jpg", ".jpeg", ".png", ".gif", ".svg", ".bmp", ".webp", ".ico"}},
	{"Videos", []string{".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv", ".webm"}},
	{"Audio", []string{".mp3", ".wav", ".flac", ".aac", ".ogg", ".m4a"}},
	{"Archives", []string{".zip", ".rar", ".7z", ".tar", ".gz", ".bz2"}},
	{"Code", []string{".py", ".go", ".js", ".html", ".css", ".java", ".cpp", ".c", ".h", ".json", ".xml", ".yml", ".yaml"}},
	{"Executables", []string{".exe", ".msi", ".dmg", ".app", ".deb", ".rpm"}},
}

// fileInfo is one scanned file.
type fileInfo struct {
	path     string
	name     string
	ext      string
	size     int64
	modified time.Time
}

// Move is one planned file move.
type Move struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Category    string `json:"category"`
}

// Plan is a set of moves rooted at a target directory.
type Plan struct {
	Root  string `json:"root"`
	Mode  Mode   `json:"mode"`
	Moves []Move `json:"moves"`
}

// scan lists the regular files directly under root. Subdirectories are
// left alone so an already organized tree is not reshuffled.
func scan(root string) ([]fileInfo, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	var files []fileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, fileInfo{
			path:     filepath.Join(root, entry.Name()),
			name:     entry.Name(),
			ext:      strings.ToLower(filepath.Ext(entry.Name())),
			size:     info.Size(),
			modified: info.ModTime(),
		})
	}
	return files, nil
}

func categoryFor(ext string) string {
	for _, c := range categories {
		for _, e := range c.exts {
			if e == ext {
				return c.name
			}
		}
	}
	return "Other"
}

func sizeBucket(size int64) string {
	switch {
	case size < 1_000_000:
		return "Small"
	case size < 10_000_000:
		return "Medium"
	case size < 100_000_000:
		return "Large"
	default:
		return "Huge"
	}
}

// BuildPlan scans root and plans moves into category folders. The plan is
// sorted by destination then source so repeated runs produce identical
// output.
func BuildPlan(root string, mode Mode) (*Plan, error) {
	files, err := scan(root)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Root: root, Mode: mode}
	taken := map[string]bool{}

	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })

	for _, f := range files {
		var category string
		switch mode {
		case ByDate:
			category = f.modified.Format("2006-01")
		case BySize:
			category = sizeBucket(f.size)
		default:
			category = categoryFor(f.ext)
		}

		dest := filepath.Join(root, category, f.name)
		dest = uniqueName(dest, taken)
		taken[dest] = true

		plan.Moves = append(plan.Moves, Move{
			Source:      f.path,
			Destination: dest,
			Category:    category,
		})
	}
	return plan, nil
}

// uniqueName appends _1, _2, ... before the extension until the name
// collides with neither the filesystem nor an earlier planned move.
func uniqueName(dest string, taken map[string]bool) string {
	candidate := dest
	ext := filepath.Ext(dest)
	stem := strings.TrimSuffix(dest, ext)
	for i := 1; ; i++ {
		_, statErr := os.Stat(candidate)
		if os.IsNotExist(statErr) && !taken[candidate] {
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}
}

// Apply executes the plan's moves. It stops at the first failure and
// reports how many moves completed, so a partial run is visible.
func (p *Plan) Apply() (int, error) {
	for i, m := range p.Moves {
		if err := os.MkdirAll(filepath.Dir(m.Destination), 0o755); err != nil {
			return i, fmt.Errorf("failed to create %s: %w", filepath.Dir(m.Destination), err)
		}
		if err := os.Rename(m.Source, m.Destination); err != nil {
			return i, fmt.Errorf("failed to move %s: %w", m.Source, err)
		}
	}
	return len(p.Moves), nil
}

// SaveManifest writes the executed plan as JSON under root/.wrapup so a
// run can be undone by hand (each move lists source and destination).
// Returns the manifest path.
func (p *Plan) SaveManifest(now time.Time) (string, error) {
	dir := filepath.Join(p.Root, ".wrapup")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create manifest dir: %w", err)
	}
	path := filepath.Join(dir, "org_"+now.Format("20060102_150405")+".json")
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return path, nil
}

// CategoryCounts tallies planned moves per category, sorted by name.
func (p *Plan) CategoryCounts() []struct {
	Category string
	Count    int
} {
	counts := map[string]int{}
	for _, m := range p.Moves {
		counts[m.Category]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]struct {
		Category string
		Count    int
	}, 0, len(names))
	for _, name := range names {
		out = append(out, struct {
			Category string
			Count    int
		}{name, counts[name]})
	}
	return out
}

// DuplicateSet is a group of files with identical content.
type DuplicateSet struct {
	Hash  string   `json:"hash"`
	Paths []string `json:"paths"`
}

// FindDuplicates hashes every file directly under root and returns the
// groups that share content, sorted by hash.
func FindDuplicates(root string) ([]DuplicateSet, error) {
	files, err := scan(root)
	if err != nil {
		return nil, err
	}

	byHash := map[string][]string{}
	for _, f := range files {
		sum, err := hashFile(f.path)
		if err != nil {
			continue
		}
		byHash[sum] = append(byHash[sum], f.path)
	}

	var sets []DuplicateSet
	for sum, paths := range byHash {
		if len(paths) < 2 {
			continue
		}
		sort.Strings(paths)
		sets = append(sets, DuplicateSet{Hash: sum, Paths: paths})
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].Hash < sets[j].Hash })
	return sets, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
