package scanner

// Scope says whether a category is scanned once per configured root or
// once per run from fixed locations.
type Scope int

const (
	ScopePerRoot Scope = iota
	ScopeGlobal
)

// Entry is one row of the category table: the classifier, its scope, and
// whether the category's items may be offered for deletion at all.
type Entry struct {
	Category    Category
	Scope       Scope
	Deletable   bool
	Description string

	Root   RootScanner   // set when Scope is ScopePerRoot
	Global GlobalScanner // set when Scope is ScopeGlobal
}

// DefaultRegistry builds the fixed category table. The orchestrator
// iterates it; nothing dispatches on category names.
func DefaultRegistry(env *Env) []Entry {
	return []Entry{
		{
			Category:    CategoryDepCache,
			Scope:       ScopePerRoot,
			Deletable:   true,
			Description: "dependency caches (node_modules, Pods)",
			Root:        NewDepCacheScanner(env),
		},
		{
			Category:    CategoryVenv,
			Scope:       ScopePerRoot,
			Deletable:   true,
			Description: "Python virtual environments",
			Root:        NewVenvScanner(env),
		},
		{
			Category:    CategoryTarget,
			Scope:       ScopePerRoot,
			Deletable:   true,
			Description: "Rust / Maven build output",
			Root:        NewTargetScanner(env),
		},
		{
			Category:    CategoryCMake,
			Scope:       ScopePerRoot,
			Deletable:   true,
			Description: "CMake build trees",
			Root:        NewCMakeScanner(env),
		},
		{
			Category:    CategoryGradle,
			Scope:       ScopePerRoot,
			Deletable:   true,
			Description: "Gradle build output and shared cache",
			Root:        NewGradleScanner(env),
		},
		{
			Category:    CategoryDart,
			Scope:       ScopePerRoot,
			Deletable:   true,
			Description: "Dart / Flutter build artifacts",
			Root:        NewDartScanner(env),
		},
		{
			Category:    CategoryVersions,
			Scope:       ScopeGlobal,
			Deletable:   true,
			Description: "installed toolchain versions (nvm, pyenv)",
			Global:      NewVersionsScanner(env),
		},
		{
			Category:    CategoryToolData,
			Scope:       ScopeGlobal,
			Deletable:   false,
			Description: "tool data stores (review only)",
			Global:      NewToolDataScanner(env),
		},
	}
}

// EntryFor returns the registry row for a category.
func EntryFor(registry []Entry, cat Category) (Entry, bool) {
	for _, e := range registry {
		if e.Category == cat {
			return e, true
		}
	}
	return Entry{}, false
}
