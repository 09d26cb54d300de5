// Package persistence writes and reads whole-store snapshots as SQLite files.
package persistence

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/samber/lo"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MorganPeterson/cyclingportal/internal/model"
	"github.com/MorganPeterson/cyclingportal/internal/store"
)

// Suffix is appended to snapshot file names that do not already carry it.
const Suffix = ".ser"

const batchSize = 200

// Path returns filename with the snapshot suffix.
func Path(filename string) string {
	if strings.HasSuffix(filename, Suffix) {
		return filename
	}
	return filename + Suffix
}

// db wraps the GORM DB instance of one snapshot file.
type db struct {
	gorm *gorm.DB
}

// open opens (or creates) the SQLite file at path, applies connection
// settings, and runs migrations.
func open(path string) (*db, error) {
	gormDB, err := gorm.Open(
		sqlite.Open(path),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm sqlite: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Minute)

	return &db{gorm: gormDB}, nil
}

// migrate runs AutoMigrate on all snapshot tables.
func (d *db) migrate() error {
	if err := d.gorm.AutoMigrate(
		&counterRow{},
		&teamRow{},
		&riderRow{},
		&raceRow{},
		&stageRow{},
		&segmentRow{},
		&resultRow{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// close cleanly shuts down the database connection.
func (d *db) close() error {
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Save writes snap to filename, suffixed with .ser when needed, and returns
// the path written. The snapshot is built in a temporary file that replaces
// the target only once it is complete, so a failed save leaves any previous
// file untouched.
func Save(filename string, snap *store.Snapshot) (string, error) {
	if snap == nil {
		return "", errors.New("nil snapshot")
	}
	path := Path(filename)
	tmp := path + ".tmp"
	if err := os.Remove(tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("removing stale %s: %w", tmp, err)
	}

	if err := write(tmp, snap); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("replacing %s: %w", path, err)
	}
	return path, nil
}

func write(path string, snap *store.Snapshot) (err error) {
	d, err := open(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := d.close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	if err := d.migrate(); err != nil {
		return err
	}

	return d.gorm.Transaction(func(tx *gorm.DB) error {
		if err := create(tx, counterRows(snap.Counters)); err != nil {
			return fmt.Errorf("writing counters: %w", err)
		}
		if err := create(tx, lo.Map(snap.Teams, func(t model.Team, i int) teamRow { return fromTeam(i, t) })); err != nil {
			return fmt.Errorf("writing teams: %w", err)
		}
		if err := create(tx, lo.Map(snap.Riders, func(r model.Rider, i int) riderRow { return fromRider(i, r) })); err != nil {
			return fmt.Errorf("writing riders: %w", err)
		}
		if err := create(tx, lo.Map(snap.Races, func(r model.Race, i int) raceRow { return fromRace(i, r) })); err != nil {
			return fmt.Errorf("writing races: %w", err)
		}
		if err := create(tx, lo.Map(snap.Stages, func(s model.Stage, i int) stageRow { return fromStage(i, s) })); err != nil {
			return fmt.Errorf("writing stages: %w", err)
		}
		if err := create(tx, lo.Map(snap.Segments, func(s model.Segment, i int) segmentRow { return fromSegment(i, s) })); err != nil {
			return fmt.Errorf("writing segments: %w", err)
		}
		if err := create(tx, lo.Map(snap.Results, func(r model.Result, i int) resultRow { return fromResult(i, r) })); err != nil {
			return fmt.Errorf("writing results: %w", err)
		}
		return nil
	})
}

// create inserts rows in batches. GORM rejects an empty slice.
func create[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.CreateInBatches(rows, batchSize).Error
}

// Load reads the snapshot stored in filename, suffixed with .ser when needed,
// and returns it with the path read. The file must exist.
func Load(filename string) (*store.Snapshot, string, error) {
	path := Path(filename)
	// sqlite would happily create a missing file
	if _, err := os.Stat(path); err != nil {
		return nil, path, fmt.Errorf("snapshot file not found: %w", err)
	}

	d, err := open(path)
	if err != nil {
		return nil, path, err
	}
	defer d.close()

	snap, err := read(d.gorm)
	if err != nil {
		return nil, path, fmt.Errorf("reading %s: %w", path, err)
	}
	return snap, path, nil
}

func read(tx *gorm.DB) (*store.Snapshot, error) {
	var (
		counters []counterRow
		teams    []teamRow
		riders   []riderRow
		races    []raceRow
		stages   []stageRow
		segments []segmentRow
		results  []resultRow
	)
	if err := tx.Find(&counters).Error; err != nil {
		return nil, fmt.Errorf("counters: %w", err)
	}
	if err := tx.Order("seq").Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("teams: %w", err)
	}
	if err := tx.Order("seq").Find(&riders).Error; err != nil {
		return nil, fmt.Errorf("riders: %w", err)
	}
	if err := tx.Order("seq").Find(&races).Error; err != nil {
		return nil, fmt.Errorf("races: %w", err)
	}
	if err := tx.Order("seq").Find(&stages).Error; err != nil {
		return nil, fmt.Errorf("stages: %w", err)
	}
	if err := tx.Order("seq").Find(&segments).Error; err != nil {
		return nil, fmt.Errorf("segments: %w", err)
	}
	if err := tx.Order("seq").Find(&results).Error; err != nil {
		return nil, fmt.Errorf("results: %w", err)
	}

	snap := &store.Snapshot{
		Counters: countersFrom(counters),
		Teams:    lo.Map(teams, func(r teamRow, _ int) model.Team { return r.model() }),
		Riders:   lo.Map(riders, func(r riderRow, _ int) model.Rider { return r.model() }),
		Races:    lo.Map(races, func(r raceRow, _ int) model.Race { return r.model() }),
		Results:  lo.Map(results, func(r resultRow, _ int) model.Result { return r.model() }),
	}
	for _, r := range stages {
		st, err := r.model()
		if err != nil {
			return nil, fmt.Errorf("stage %d: %w", r.ID, err)
		}
		snap.Stages = append(snap.Stages, st)
	}
	for _, r := range segments {
		seg, err := r.model()
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", r.ID, err)
		}
		snap.Segments = append(snap.Segments, seg)
	}
	return snap, nil
}
