// Package memory implements the repositories in process memory. It backs the
// service and HTTP tests and mirrors the Mongo filters one for one.
package memory

import (
	"reflect"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/etuition/etuition-api/app/repositories"
	"github.com/etuition/etuition-api/pkg/collection"
)

// New returns an empty set of repositories.
func New() repositories.Repositories {
	return repositories.Repositories{
		Users:        NewUsers(),
		Tutors:       NewTutors(),
		Tuitions:     NewTuitions(),
		Applications: NewApplications(),
	}
}

// store is a mutex-guarded slice of documents addressed by ObjectID.
type store[T any] struct {
	mu        sync.RWMutex
	docs      []T
	id        func(*T) *primitive.ObjectID
	createdAt func(T) time.Time
}

// insert assigns a fresh id and stores doc as the driver would read it back.
func (s *store[T]) insert(doc *T) error {
	return s.insertUnique(doc, nil)
}

// insertUnique is insert that fails with ErrDuplicate when any stored
// document matches conflict.
func (s *store[T]) insertUnique(doc *T, conflict func(T) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conflict != nil && collection.IndexOf(s.docs, conflict) >= 0 {
		return repositories.ErrDuplicate
	}

	*s.id(doc) = primitive.NewObjectID()
	normalized, err := applySet(*doc, nil)
	if err != nil {
		return err
	}
	s.docs = append(s.docs, normalized)
	return nil
}

func (s *store[T]) first(fn func(T) bool) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := collection.First(s.docs, fn)
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &v, nil
}

func (s *store[T]) get(hex string) (*T, error) {
	oid, err := repositories.ObjectID(hex)
	if err != nil {
		return nil, err
	}
	return s.first(s.hasID(oid))
}

// where returns matching documents, newest first.
func (s *store[T]) where(fn func(T) bool) []T {
	s.mu.RLock()
	out := collection.Filter(s.docs, fn)
	s.mu.RUnlock()

	return collection.SortBy(out, func(a, b T) bool {
		return s.createdAt(a).After(s.createdAt(b))
	})
}

func (s *store[T]) count(fn func(T) bool) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(collection.Filter(s.docs, fn)))
}

// set applies fields to the first document matching fn, the way $set does.
func (s *store[T]) set(fn func(T) bool, fields map[string]interface{}) (repositories.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := collection.IndexOf(s.docs, fn)
	if i < 0 {
		return repositories.UpdateResult{}, nil
	}

	updated, err := applySet(s.docs[i], fields)
	if err != nil {
		return repositories.UpdateResult{}, err
	}

	res := repositories.UpdateResult{MatchedCount: 1}
	if !reflect.DeepEqual(s.docs[i], updated) {
		s.docs[i] = updated
		res.ModifiedCount = 1
	}
	return res, nil
}

func (s *store[T]) setByID(hex string, fields map[string]interface{}) (repositories.UpdateResult, error) {
	oid, err := repositories.ObjectID(hex)
	if err != nil {
		return repositories.UpdateResult{}, err
	}
	return s.set(s.hasID(oid), fields)
}

func (s *store[T]) remove(hex string) (int64, error) {
	oid, err := repositories.ObjectID(hex)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := collection.IndexOf(s.docs, s.hasID(oid))
	if i < 0 {
		return 0, nil
	}
	s.docs = append(s.docs[:i], s.docs[i+1:]...)
	return 1, nil
}

func (s *store[T]) hasID(oid primitive.ObjectID) func(T) bool {
	return func(doc T) bool { return *s.id(&doc) == oid }
}

// applySet round-trips doc through BSON so field names and numeric
// conversions match what the Mongo driver would store and decode.
func applySet[T any](doc T, fields map[string]interface{}) (T, error) {
	var out T

	raw, err := bson.Marshal(doc)
	if err != nil {
		return out, err
	}
	m := bson.M{}
	if err := bson.Unmarshal(raw, &m); err != nil {
		return out, err
	}
	for k, v := range fields {
		m[k] = v
	}

	raw, err = bson.Marshal(m)
	if err != nil {
		return out, err
	}
	err = bson.Unmarshal(raw, &out)
	return out, err
}
