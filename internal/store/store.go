// Package store persists image hashes in a bbolt file and answers
// nearest-neighbour queries over them by Hamming distance.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/ironsheep/image-hash-mcp/internal/dcthash"
)

var (
	recordsBucket = []byte("records")
	pathsBucket   = []byte("paths")
)

// ErrNotFound is returned when no record matches an ID or path.
var ErrNotFound = errors.New("record not found")

// Record is one indexed image.
type Record struct {
	ID        string       `json:"id"`
	Path      string       `json:"path"`
	Algorithm string       `json:"algorithm"`
	Hash      dcthash.Hash `json:"hash"`
	Width     int          `json:"width"`
	Height    int          `json:"height"`
	AddedAt   time.Time    `json:"added_at"`
}

// Match is a record found by a similarity query.
type Match struct {
	Record
	Distance int `json:"distance"`
}

// Store is a hash index backed by a single bbolt file. It is safe for
// concurrent use; bbolt serialises writers.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the index at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open index %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{recordsBucket, pathsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize index %s: %w", path, err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put inserts rec, or replaces the record already stored for rec.Path. The
// stored record is returned with its ID and AddedAt filled in.
func (s *Store) Put(rec Record) (Record, error) {
	if rec.Path == "" {
		return Record{}, errors.New("record path is required")
	}
	if rec.Algorithm == "" {
		return Record{}, errors.New("record algorithm is required")
	}
	if _, err := dcthash.ParseHash(rec.Hash); err != nil {
		return Record{}, err
	}
	if rec.AddedAt.IsZero() {
		rec.AddedAt = time.Now().UTC()
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		records := tx.Bucket(recordsBucket)
		paths := tx.Bucket(pathsBucket)

		if id := paths.Get([]byte(rec.Path)); id != nil {
			rec.ID = string(id)
		} else {
			rec.ID = uuid.NewString()
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := records.Put([]byte(rec.ID), data); err != nil {
			return err
		}
		return paths.Put([]byte(rec.Path), []byte(rec.ID))
	})
	if err != nil {
		return Record{}, fmt.Errorf("failed to store record: %w", err)
	}
	return rec, nil
}

// Get returns the record with the given ID.
func (s *Store) Get(id string) (Record, error) {
	var rec Record
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		rec, err = getRecord(tx, id)
		return err
	})
	return rec, err
}

// GetByPath returns the record stored for path.
func (s *Store) GetByPath(path string) (Record, error) {
	var rec Record
	err := s.db.View(func(tx *bolt.Tx) error {
		id := tx.Bucket(pathsBucket).Get([]byte(path))
		if id == nil {
			return fmt.Errorf("%w: path %s", ErrNotFound, path)
		}
		var err error
		rec, err = getRecord(tx, string(id))
		return err
	})
	return rec, err
}

// Delete removes the record with the given ID.
func (s *Store) Delete(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		rec, err := getRecord(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Bucket(recordsBucket).Delete([]byte(id)); err != nil {
			return err
		}
		return tx.Bucket(pathsBucket).Delete([]byte(rec.Path))
	})
}

// List returns the records for algorithm, or every record when algorithm is
// empty, sorted by path.
func (s *Store) List(algorithm string) ([]Record, error) {
	var out []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(recordsBucket).ForEach(func(_, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("failed to decode record: %w", err)
			}
			if algorithm == "" || rec.Algorithm == algorithm {
				out = append(out, rec)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Count returns the number of stored records.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(recordsBucket).Stats().KeyN
		return nil
	})
	return n, err
}

// FindSimilar returns the records of algorithm whose distance to hash is
// strictly below threshold, nearest first with ties broken by path. A limit
// of zero or less returns every match.
func (s *Store) FindSimilar(hash dcthash.Hash, algorithm string, threshold, limit int) ([]Match, error) {
	if _, err := dcthash.ParseHash(hash); err != nil {
		return nil, err
	}
	records, err := s.List(algorithm)
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, rec := range records {
		d, err := dcthash.Distance(hash, rec.Hash)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		if d < threshold {
			matches = append(matches, Match{Record: rec, Distance: d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Duplicates groups the records of algorithm that are linked by a chain of
// pairs closer than threshold. Only groups of two or more are returned; each
// group is sorted by path and groups are ordered by their first path.
func (s *Store) Duplicates(algorithm string, threshold int) ([][]Record, error) {
	records, err := s.List(algorithm)
	if err != nil {
		return nil, err
	}

	values := make([]uint64, len(records))
	for i, rec := range records {
		v, err := dcthash.ParseHash(rec.Hash)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		values[i] = v
	}

	parent := make([]int, len(records))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	for i := range records {
		for j := i + 1; j < len(records); j++ {
			if dcthash.Hamming(values[i], values[j]) < threshold {
				if ri, rj := find(i), find(j); ri != rj {
					parent[rj] = ri
				}
			}
		}
	}

	// records are sorted by path, so members and group order follow path order
	index := make(map[int]int)
	var groups [][]Record
	for i, rec := range records {
		root := find(i)
		g, ok := index[root]
		if !ok {
			g = len(groups)
			index[root] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], rec)
	}

	out := groups[:0]
	for _, g := range groups {
		if len(g) > 1 {
			out = append(out, g)
		}
	}
	return out, nil
}

func getRecord(tx *bolt.Tx, id string) (Record, error) {
	data := tx.Bucket(recordsBucket).Get([]byte(id))
	if data == nil {
		return Record{}, fmt.Errorf("%w: id %s", ErrNotFound, id)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("failed to decode record %s: %w", id, err)
	}
	return rec, nil
}
