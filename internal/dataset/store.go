package dataset

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/woozymasta/neairports/internal/airport"
)

// LoadObserver is notified after every load attempt.
type LoadObserver interface {
	ObserveDatasetLoad(records int, err error)
}

// Store is the process-wide cache of the loaded dataset.
//
// The first call to Records loads the source. Later calls return the cached
// slice and reload only when the source Version changed; the version is asked
// at most once per check interval. The returned slice is shared and must be
// treated as read-only.
type Store struct {
	src           Source
	observer      LoadObserver
	checkInterval time.Duration
	now           func() time.Time

	group      singleflight.Group
	refreshing atomic.Bool

	mu        sync.RWMutex
	records   []airport.Record
	version   string
	failed    string
	loaded    bool
	checkedAt time.Time
}

// NewStore returns a lazy store over src. A zero checkInterval asks the
// source on every call.
func NewStore(src Source, checkInterval time.Duration, observer LoadObserver) *Store {
	return &Store{
		src:           src,
		observer:      observer,
		checkInterval: checkInterval,
		now:           time.Now,
	}
}

// Source returns the underlying dataset source.
func (s *Store) Source() Source { return s.src }

// Load forces the initial load and reports any LoadError.
func (s *Store) Load(ctx context.Context) error {
	_, err := s.Records(ctx)
	return err
}

// Records returns the current dataset, loading or reloading it when needed.
// A failed reload keeps serving the previous dataset. Source calls run
// outside the cache lock: concurrent callers share one refresh, and once a
// dataset is loaded they are served the cached copy while it runs.
func (s *Store) Records(ctx context.Context) ([]airport.Record, error) {
	if records, ok := s.cached(); ok {
		return records, nil
	}

	v, err, _ := s.group.Do("refresh", func() (any, error) {
		s.refreshing.Store(true)
		defer s.refreshing.Store(false)
		return s.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]airport.Record), nil
}

// cached returns the snapshot when it may be served without asking the
// source: within the check interval or while another refresh is running.
func (s *Store) cached() ([]airport.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, false
	}
	if s.checkInterval > 0 && s.now().Sub(s.checkedAt) < s.checkInterval {
		return s.records, true
	}
	return s.records, s.refreshing.Load()
}

func (s *Store) refresh(ctx context.Context) ([]airport.Record, error) {
	s.mu.RLock()
	loaded, current, failed, cached := s.loaded, s.version, s.failed, s.records
	checkedAt := s.checkedAt
	s.mu.RUnlock()

	now := s.now()
	if loaded && s.checkInterval > 0 && now.Sub(checkedAt) < s.checkInterval {
		return cached, nil
	}

	version, err := s.src.Version(ctx)
	if err != nil {
		if loaded {
			log.Warn().Err(err).Str("source", s.src.Name()).Msg("Dataset version check failed, serving cached copy")
			s.markChecked(now, "")
			return cached, nil
		}
		s.observe(0, err)
		return nil, &LoadError{Source: s.src.Name(), Err: err}
	}

	if loaded && (version == current || version == failed) {
		s.markChecked(now, "")
		return cached, nil
	}

	records, err := s.read(ctx)
	s.observe(len(records), err)
	if err != nil {
		if loaded {
			log.Error().Err(err).Str("source", s.src.Name()).Msg("Dataset reload failed, serving cached copy")
			s.markChecked(now, version)
			return cached, nil
		}
		return nil, err
	}

	log.Info().
		Str("source", s.src.Name()).
		Str("version", version).
		Int("records", len(records)).
		Int("new_england", len(airport.Universe(records))).
		Bool("reload", loaded).
		Msg("Dataset loaded")

	s.mu.Lock()
	s.records = records
	s.version = version
	s.failed = ""
	s.loaded = true
	s.checkedAt = now
	s.mu.Unlock()

	return records, nil
}

// markChecked records a version check; a non-empty failed version is not
// read again until the source changes.
func (s *Store) markChecked(at time.Time, failed string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkedAt = at
	if failed != "" {
		s.failed = failed
	}
}

func (s *Store) read(ctx context.Context) ([]airport.Record, error) {
	rc, err := s.src.Open(ctx)
	if err != nil {
		return nil, &LoadError{Source: s.src.Name(), Err: err}
	}
	defer func() { _ = rc.Close() }()

	records, err := Load(rc)
	if err != nil {
		return nil, &LoadError{Source: s.src.Name(), Err: err}
	}
	return records, nil
}

func (s *Store) observe(records int, err error) {
	if s.observer != nil {
		s.observer.ObserveDatasetLoad(records, err)
	}
}
