package memory

import (
	"sync"
	"time"

	"github.com/yndnr/respkv/internal/resp"
)

// Clock returns the current time in milliseconds since the Unix epoch.
type Clock func() int64

// SystemClock reads the wall clock.
func SystemClock() int64 {
	return time.Now().UnixMilli()
}

// Expiry is an optional absolute expiry time.
type Expiry struct {
	At    int64 // milliseconds since the Unix epoch
	Valid bool
}

// NoExpiry marks an entry that never expires.
var NoExpiry = Expiry{}

// ExpireAt returns an expiry at the absolute time ms.
func ExpireAt(ms int64) Expiry {
	return Expiry{At: ms, Valid: true}
}

// Live reports whether an entry with this expiry is readable at now.
func (e Expiry) Live(now int64) bool {
	return !e.Valid || e.At > now
}

type entry struct {
	key    resp.Token
	value  resp.Token
	expiry Expiry
}

// Stats is a point-in-time summary of the store.
type Stats struct {
	Keys    int // entries held, live or expired
	Expired int // entries whose expiry has passed
}

// Store maps key tokens to value tokens with optional expiry.
type Store struct {
	mu      sync.Mutex
	buckets map[uint64][]entry
	count   int
	clock   Clock
}

// Option configures the Store.
type Option func(*Store)

// WithClock replaces the wall clock, typically with a fake in tests.
func WithClock(c Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		buckets: make(map[uint64][]entry),
		clock:   SystemClock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the store's current time in milliseconds.
func (s *Store) Now() int64 {
	return s.clock()
}

// Get returns the value stored under key, or Null if the key is absent or
// expired. Expired entries are left in place.
func (s *Store) Get(key resp.Token) resp.Token {
	h := key.Hash()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.buckets[h] {
		if !e.key.Equal(key) {
			continue
		}
		if e.expiry.Live(s.clock()) {
			return e.value
		}
		return resp.Null()
	}
	return resp.Null()
}

// Set inserts or overwrites the entry for key.
func (s *Store) Set(key, value resp.Token, expiry Expiry) {
	h := key.Hash()

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.buckets[h]
	for i := range bucket {
		if bucket[i].key.Equal(key) {
			bucket[i].value = value
			bucket[i].expiry = expiry
			return
		}
	}
	s.buckets[h] = append(bucket, entry{key: key, value: value, expiry: expiry})
	s.count++
}

// Len returns the number of entries held, including expired ones.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Stats walks the store and counts expired entries.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	st := Stats{Keys: s.count}
	for _, bucket := range s.buckets {
		for _, e := range bucket {
			if !e.expiry.Live(now) {
				st.Expired++
			}
		}
	}
	return st
}
