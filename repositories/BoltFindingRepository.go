package repositories

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/convlint/convlint/core"
)

var findingsBucket = []byte("findings")

// BoltFindingRepository stores finding batches in a single bbolt file, one
// JSON-encoded batch per sequence key.
type BoltFindingRepository struct {
	db *bbolt.DB
}

func NewBoltFindingRepository(dbPath string) (core.FindingRepository, error) {
	db, err := bbolt.Open(dbPath, 0666, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database '%s': %w", dbPath, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(findingsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create findings bucket: %w", err)
	}

	return &BoltFindingRepository{db: db}, nil
}

func (r *BoltFindingRepository) Store(findings []core.Finding) error {
	payload, err := json.Marshal(findings)
	if err != nil {
		return fmt.Errorf("failed to marshal findings: %w", err)
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(findingsBucket)
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		return bucket.Put(key, payload)
	})
}

func (r *BoltFindingRepository) Clear() error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(findingsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(findingsBucket)
		return err
	})
}

func (r *BoltFindingRepository) Close() error {
	return r.db.Close()
}

func (r *BoltFindingRepository) NewIterator() core.FindingIterator {
	return &BoltFindingIterator{repo: r}
}

// BoltFindingIterator walks the findings bucket in key order.
type BoltFindingIterator struct {
	repo       *BoltFindingRepository
	lastKey    []byte
	currentSet core.FindingSet
}

func (it *BoltFindingIterator) HasNext() bool {
	var payload []byte
	var key []byte

	err := it.repo.db.View(func(tx *bbolt.Tx) error {
		cursor := tx.Bucket(findingsBucket).Cursor()
		var k, v []byte
		if it.lastKey == nil {
			k, v = cursor.First()
		} else {
			cursor.Seek(it.lastKey)
			k, v = cursor.Next()
		}
		if k == nil {
			return nil
		}
		key = append([]byte(nil), k...)
		payload = append([]byte(nil), v...)
		return nil
	})
	if err != nil || key == nil {
		return false
	}

	var findings []core.Finding
	if err := json.Unmarshal(payload, &findings); err != nil {
		return false
	}
	if findings == nil {
		findings = []core.Finding{}
	}

	it.lastKey = key
	it.currentSet = core.FindingSet{Findings: findings}
	return true
}

func (it *BoltFindingIterator) Next() (core.FindingSet, error) {
	if it.currentSet.Findings == nil {
		return core.FindingSet{}, fmt.Errorf("no more finding sets available")
	}
	return it.currentSet, nil
}

func (it *BoltFindingIterator) Reset() error {
	it.lastKey = nil
	it.currentSet = core.FindingSet{}
	return nil
}
