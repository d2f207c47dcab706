package scanner

import "context"

var cmakeBuildNames = []string{"cmake-build-debug", "cmake-build-release"}

// CMakeScanner finds CLion/CMake build trees next to a CMakeLists.txt.
type CMakeScanner struct {
	env *Env
}

func NewCMakeScanner(env *Env) *CMakeScanner {
	return &CMakeScanner{env: env}
}

func (s *CMakeScanner) Scan(ctx context.Context, root string) (*CategoryResult, error) {
	result := NewCategoryResult(CategoryCMake)

	candidates, err := s.env.findDirs(ctx, CategoryCMake, root, cmakeBuildNames)
	if err != nil {
		return nil, err
	}

	for _, path := range candidates {
		if !anySiblingFile(path, []string{"CMakeLists.txt"}) {
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
