package scanner

import (
	"context"
	"path/filepath"
)

// toolDataDirs are per-tool data stores at fixed locations under home.
// They are measured for review only; the registry marks this category
// non-deletable because blowing away a whole package-manager store is a
// job for the tool that owns it.
var toolDataDirs = []struct {
	Name string
	Rel  string
}{
	{"npm cache", ".npm"},
	{"pip cache", ".cache/pip"},
	{"pub cache", ".pub-cache"},
	{"maven repository", ".m2/repository"},
	{"cargo registry", ".cargo/registry"},
	{"cocoapods cache", "Library/Caches/CocoaPods"},
}

// ToolDataScanner existence-checks fixed tool-data directories under home.
type ToolDataScanner struct {
	env *Env
}

func NewToolDataScanner(env *Env) *ToolDataScanner {
	return &ToolDataScanner{env: env}
}

func (s *ToolDataScanner) Scan(ctx context.Context) (*CategoryResult, error) {
	result := NewCategoryResult(CategoryToolData)

	for _, td := range toolDataDirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(s.env.Home, filepath.FromSlash(td.Rel))
		if !dirExists(path) {
			continue
		}
		size, err := s.env.Oracle.DirSize(path)
		if err != nil {
			return nil, err
		}
		result.add(Item{
			Path:    path,
			Size:    size,
			AgeDays: s.env.Oracle.AgeDays(path),
			Project: td.Name,
		})
	}
	return result, nil
}
