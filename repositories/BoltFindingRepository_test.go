package repositories

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/convlint/convlint/core"
)

func newBoltRepository(t *testing.T) core.FindingRepository {
	t.Helper()
	repository, err := NewBoltFindingRepository(filepath.Join(t.TempDir(), "findings.bolt"))
	assert.Nil(t, err)
	t.Cleanup(func() { _ = repository.Close() })
	return repository
}

func TestBoltStoreAndIterate(t *testing.T) {
	repository := newBoltRepository(t)

	assert.Nil(t, repository.Store([]core.Finding{
		{File: "a.py", Status: core.StatusFail},
		{File: "b.py", Status: core.StatusPass},
	}))
	assert.Nil(t, repository.Store([]core.Finding{
		{File: "c.py", Status: core.StatusPass},
	}))

	var files []string
	iterator := repository.NewIterator()
	for iterator.HasNext() {
		findingSet, err := iterator.Next()
		assert.Nil(t, err)
		for _, finding := range findingSet.Findings {
			files = append(files, finding.File)
		}
	}

	assert.Equal(t, []string{"a.py", "b.py", "c.py"}, files)
}

func TestBoltClearEmptiesTheStore(t *testing.T) {
	repository := newBoltRepository(t)

	assert.Nil(t, repository.Store([]core.Finding{{File: "a.py"}}))
	assert.Nil(t, repository.Clear())

	iterator := repository.NewIterator()
	assert.False(t, iterator.HasNext())
}

func TestBoltIteratorReset(t *testing.T) {
	repository := newBoltRepository(t)

	assert.Nil(t, repository.Store([]core.Finding{{File: "a.py"}}))

	iterator := repository.NewIterator()
	assert.True(t, iterator.HasNext())
	assert.False(t, iterator.HasNext())

	assert.Nil(t, iterator.Reset())
	assert.True(t, iterator.HasNext())
}
