package scanner

import "context"

var dartDirNames = []string{".dart_tool", "build"}

// DartScanner finds Dart and Flutter build artifacts, gated on the
// project's pubspec.yaml so a generic "build" directory elsewhere is not
// claimed.
type DartScanner struct {
	env *Env
}

func NewDartScanner(env *Env) *DartScanner {
	return &DartScanner{env: env}
}

func (s *DartScanner) Scan(ctx context.Context, root string) (*CategoryResult, error) {
	result := NewCategoryResult(CategoryDart)

	candidates, err := s.env.findDirs(ctx, CategoryDart, root, dartDirNames)
	if err != nil {
		return nil, err
	}

	for _, path := range candidates {
		if !anySiblingFile(path, []string{"pubspec.yaml"}) {
			continue
		}
		item, err := s.env.item(path)
		if err != nil {
			return nil, err
		}
		result.add(item)
	}
	return result, nil
}
