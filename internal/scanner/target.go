package scanner

import "context"

// targetManifests gate a "target" directory on the build manifests that
// produce one: Cargo for Rust, Maven for Java.
var targetManifests = []string{"Cargo.toml", "pom.xml"}

// TargetScanner finds Rust and Maven build output directories. A target
// directory with no recognized sibling manifest is ignored; it could be
// anything.
type TargetScanner struct {
	env *Env
}

func NewTargetScanner(env *Env) *TargetScanner {
	return &TargetScanner{env: env}
}

func (s *TargetScanner) Scan(ctx context.Context, root string) (*CategoryResult, error) {
	result := NewCategoryResult(CategoryTarget)

	candidates, err := s.env.findDirs(ctx, CategoryTarget, root, []string{"target"})
	if err != nil {
		return nil, err
	}

	for _, path := range candidates {
		if !anySiblingFile(path, targetManifests) {
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
