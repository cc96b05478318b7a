package qbluff

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/chefmatteo/Qbluff/internal/config"
	"github.com/chefmatteo/Qbluff/internal/tables"
)

// Tables is a frozen, validated set of lookup tables. A *Tables is safe for
// concurrent use by any number of goroutines.
type Tables struct {
	set     *tables.Set
	classes []tables.Class
}

// Build constructs and validates the lookup tables. It returns an error
// wrapping ErrNotBijective or ErrIncompleteTable, and no tables, if the
// result fails validation.
func Build(ctx context.Context, opts ...BuildOption) (*Tables, error) {
	cfg := applyOptions(opts)
	set, err := tables.Build(ctx, tables.Config{
		Workers: cfg.workers,
		Omaha:   cfg.omaha,
		Logger:  cfg.logger,
	})
	if err != nil {
		return nil, err
	}
	return newTables(set), nil
}

// MustBuild is like Build but panics if the tables cannot be built.
func MustBuild(opts ...BuildOption) *Tables {
	t, err := Build(context.Background(), opts...)
	if err != nil {
		panic(err)
	}
	return t
}

func newTables(set *tables.Set) *Tables {
	return &Tables{set: set, classes: tables.Classes()}
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// Default returns the process-wide tables, initializing them on first use.
// The snapshot named by PHEVAL_TABLES_PATH is loaded when it exists;
// otherwise the tables are built. Default panics if the tables fail
// validation, so no caller ever observes a partial table.
func Default() *Tables {
	defaultOnce.Do(func() {
		t, err := loadDefault(config.Instance())
		if err != nil {
			panic(fmt.Sprintf("qbluff: initialize tables: %v", err))
		}
		defaultTables = t
	})
	return defaultTables
}

func loadDefault(cfg config.Config) (*Tables, error) {
	opts := []BuildOption{WithWorkers(cfg.Workers)}
	if !cfg.Omaha {
		opts = append(opts, WithoutOmaha())
	}
	if cfg.TablesPath != "" {
		t, err := Open(cfg.TablesPath, opts...)
		if !errors.Is(err, fs.ErrNotExist) {
			return t, err
		}
		logrus.WithField("path", cfg.TablesPath).Warn("table snapshot not found, building tables")
	}
	return Build(context.Background(), opts...)
}

// HasOmaha reports whether the Omaha tables were built. Without them
// EvaluatePlo4 falls back to searching every board/hole selection.
func (t *Tables) HasOmaha() bool {
	return t.set.HasOmaha()
}

// Describe returns a name for the hand strength, such as "Aces Full over
// Kings". It returns "" for an invalid rank.
func (t *Tables) Describe(r HandRank) string {
	if !r.Valid() {
		return ""
	}
	return t.classes[r-1].Description()
}

// SampleHand returns the ranks of a hand with strength r, strongest first,
// such as "AKQJT". It returns "" for an invalid rank.
func (t *Tables) SampleHand(r HandRank) string {
	if !r.Valid() {
		return ""
	}
	return t.classes[r-1].SampleHand()
}

// Describe is Default().Describe.
func Describe(r HandRank) string { return Default().Describe(r) }

// SampleHand is Default().SampleHand.
func SampleHand(r HandRank) string { return Default().SampleHand(r) }
