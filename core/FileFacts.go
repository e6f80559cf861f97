package core

// FunctionFact describes one function or method signature found in a file.
type FunctionFact struct {
	Name  string
	Class string // enclosing class name, empty for module-level functions
	Line  int
	// Annotated is true when every parameter (self/cls aside) carries a type
	// annotation and a return annotation is present where one is expected.
	Annotated bool
	// MissingAnnotations lists the parameter names lacking annotations;
	// "return" marks a missing return annotation.
	MissingAnnotations []string
	IsTest             bool
	// Collaborators lists constructor-style calls made directly in the body.
	Collaborators []string
}

// ClassFact describes one class definition found in a file.
type ClassFact struct {
	Name string
	Line int
}

// ImportFact describes one import statement and whether it sits before the
// first non-import statement of the module.
type ImportFact struct {
	Module string
	Line   int
	AtTop  bool
}

// FileFacts captures the structural facts extracted from a single source
// file. One FileFacts is produced per readable source file under the target.
type FileFacts struct {
	Path         string
	RepoName     string
	Language     string
	IsTest       bool
	Functions    []FunctionFact
	Classes      []ClassFact
	Imports      []ImportFact
	UsesMocking  bool
	UsesFixtures bool
}
