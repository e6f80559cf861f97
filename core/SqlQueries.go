package core

type SqlQuery struct {
	Name  string `yaml:"name"`
	Query string `yaml:"query"`
}

// SqlQueries holds a collection of SqlQuery instances used for summary
// reporting.
type SqlQueries struct {
	Queries []SqlQuery `yaml:"queries"`
}
