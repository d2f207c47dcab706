package scanner

import "context"

// depCacheNames are dependency caches reinstalled by a single package
// manager command, so no further validation is needed.
var depCacheNames = []string{"node_modules", "Pods"}

// DepCacheScanner finds package-manager dependency directories. Only the
// outermost instance per project is reported: a node_modules inside another
// node_modules belongs to the outer one and is removed along with it.
type DepCacheScanner struct {
	env *Env
}

func NewDepCacheScanner(env *Env) *DepCacheScanner {
	return &DepCacheScanner{env: env}
}

func (s *DepCacheScanner) Scan(ctx context.Context, root string) (*CategoryResult, error) {
	result := NewCategoryResult(CategoryDepCache)

	candidates, err := s.env.findDirs(ctx, CategoryDepCache, root, depCacheNames)
	if err != nil {
		return nil, err
	}

	for _, path := range pruneNested(candidates) {
		item, err := s.env.item(path)
		if err != nil {
			return nil, err
		}
		result.add(item)
	}
	return result, nil
}
