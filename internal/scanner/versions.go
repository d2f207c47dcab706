package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// versionManager describes one version manager's install layout: where
// installed versions live under home and where the active-version marker
// is written.
type versionManager struct {
	Name       string
	VersionDir string // relative to home
	MarkerFile string // relative to home; first line names the active version
}

var versionManagers = []versionManager{
	{Name: "nvm", VersionDir: ".nvm/versions/node", MarkerFile: ".nvm/alias/default"},
	{Name: "pyenv", VersionDir: ".pyenv/versions", MarkerFile: ".pyenv/version"},
}

// VersionsScanner enumerates installed toolchain versions from the
// version managers' well-known directories. No tree walk is involved; the
// install dirs are flat. Each entry is tagged with its version label and
// whether it is the currently active version.
type VersionsScanner struct {
	env *Env
}

func NewVersionsScanner(env *Env) *VersionsScanner {
	return &VersionsScanner{env: env}
}

func (s *VersionsScanner) Scan(ctx context.Context) (*CategoryResult, error) {
	result := NewCategoryResult(CategoryVersions)

	for _, mgr := range versionManagers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		items, err := s.scanManager(mgr)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			result.add(item)
		}
	}
	return result, nil
}

func (s *VersionsScanner) scanManager(mgr versionManager) ([]Item, error) {
	dir := filepath.Join(s.env.Home, filepath.FromSlash(mgr.VersionDir))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) || os.IsPermission(err) {
			return nil, nil
		}
		return nil, err
	}

	active := s.activeVersion(mgr)

	var items []Item
	for _, entry := range entries {
		if !entry.IsDir() || entry.Type()&fs.ModeSymlink != 0 {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		size, err := s.env.Oracle.DirSize(path)
		if err != nil {
			return nil, err
		}
		items = append(items, Item{
			Path:    path,
			Size:    size,
			AgeDays: s.env.Oracle.AgeDays(path),
			Project: mgr.Name,
			Version: entry.Name(),
			Active:  versionsEqual(entry.Name(), active),
		})
	}

	// Newest versions first; labels that don't parse sort last.
	sort.SliceStable(items, func(i, j int) bool {
		vi, erri := goversion.NewVersion(items[i].Version)
		vj, errj := goversion.NewVersion(items[j].Version)
		switch {
		case erri == nil && errj == nil:
			return vi.GreaterThan(vj)
		case erri == nil:
			return true
		default:
			return false
		}
	})
	return items, nil
}

// activeVersion reads the manager's marker file. An empty string means no
// version is marked active.
func (s *VersionsScanner) activeVersion(mgr versionManager) string {
	data, err := os.ReadFile(filepath.Join(s.env.Home, filepath.FromSlash(mgr.MarkerFile)))
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(string(data), "\n")
	return strings.TrimSpace(line)
}

// versionsEqual matches an installed version label against the marker
// content. Markers are often partial ("18" for v18.17.0), so semantic
// comparison is tried before falling back to exact equality.
func versionsEqual(installed, marker string) bool {
	if marker == "" {
		return false
	}
	if installed == marker {
		return true
	}
	vi, err1 := goversion.NewVersion(installed)
	vm, err2 := goversion.NewVersion(marker)
	if err1 != nil || err2 != nil {
		return false
	}
	// Markers are often partial ("18" for v18.17.0), so compare only the
	// segments the marker actually specifies.
	n := len(strings.Split(vm.Original(), "."))
	iseg, mseg := vi.Segments(), vm.Segments()
	if n > len(iseg) || n > len(mseg) {
		return false
	}
	for idx := 0; idx < n; idx++ {
		if iseg[idx] != mseg[idx] {
			return false
		}
	}
	return true
}
