// Package portal is the facade over the cycling data model. Every operation
// validates its arguments before touching the store, so a failed call leaves
// the store exactly as it was.
//
// A Portal is not safe for concurrent use; callers sharing one across
// goroutines must serialize access to it.
package portal

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/MorganPeterson/cyclingportal/internal/classification"
	"github.com/MorganPeterson/cyclingportal/internal/persistence"
	"github.com/MorganPeterson/cyclingportal/internal/store"
)

type Portal struct {
	store  *store.Store
	engine *classification.Engine
	tables classification.Tables
	log    *zap.Logger
}

type Option func(*Portal)

// WithLogger sets the logger used for mutation events.
func WithLogger(l *zap.Logger) Option {
	return func(p *Portal) {
		if l != nil {
			p.log = l
		}
	}
}

// WithTables replaces the scoring tables.
func WithTables(t classification.Tables) Option {
	return func(p *Portal) {
		p.tables = t
	}
}

func New(opts ...Option) *Portal {
	p := &Portal{
		tables: classification.DefaultTables(),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.use(store.New())
	return p
}

func (p *Portal) use(s *store.Store) {
	p.store = s
	p.engine = classification.NewEngine(s, p.tables)
}

// Erase removes every entity and resets all ID counters.
func (p *Portal) Erase() {
	p.store.Reset()
	p.log.Info("portal erased")
}

// Save writes the whole store to filename. The .ser suffix is added when
// missing.
func (p *Portal) Save(filename string) error {
	path, err := persistence.Save(filename, p.store.Snapshot())
	if err != nil {
		return fmt.Errorf("%w: saving portal: %v", ErrIO, err)
	}
	p.log.Info("portal saved", zap.String("path", path))
	return nil
}

// Load replaces the store with the contents of filename. On any failure the
// current store is kept unchanged.
func (p *Portal) Load(filename string) error {
	snap, path, err := persistence.Load(filename)
	if err != nil {
		return fmt.Errorf("%w: loading portal: %v", ErrIO, err)
	}
	s, err := store.FromSnapshot(snap)
	if err != nil {
		return fmt.Errorf("%w: loading portal from %s: %v", ErrIO, path, err)
	}
	p.use(s)
	p.log.Info("portal loaded",
		zap.String("path", path),
		zap.Int("races", s.Races.Len()),
		zap.Int("riders", s.Riders.Len()))
	return nil
}

// atomically runs fn against a scratch copy of the portal and keeps the
// copy's store only when fn succeeds.
func (p *Portal) atomically(fn func(scratch *Portal) error) error {
	scratch := &Portal{tables: p.tables, log: p.log}
	scratch.use(p.store.Clone())
	if err := fn(scratch); err != nil {
		return err
	}
	p.use(scratch.store)
	return nil
}
