package core

type FindingSet struct {
	Findings []Finding `json:"findings"`
}

type FindingRepository interface {
	Store(findings []Finding) error
	Clear() error
	NewIterator() FindingIterator
	Close() error
}

type FindingIterator interface {
	HasNext() bool
	Next() (FindingSet, error)
	Reset() error
}

// Reporter renders the findings held by a repository.
type Reporter interface {
	Report(repository FindingRepository) error
}
