// Package export loads hand-history JSONL into a relational store for
// downstream analysis and dataset building. The JSONL file stays the source
// of truth; exports are idempotent and may be re-run over the same file.
package export

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"holdemsim/record"
)

// Split labels partition exported hands into model datasets.
const (
	SplitTrain = "train"
	SplitVal   = "val"
	SplitTest  = "test"
)

// Store persists exported hands. Both backends accept duplicate hand ids
// silently so a crashed export can simply be re-run.
type Store interface {
	InsertHand(ctx context.Context, rec *record.HandRecord, split string) error
	CountBySplit(ctx context.Context) (map[string]int, error)
	Close() error
}

// Open picks a backend from the DSN shape: postgres URLs go to lib/pq,
// everything else is treated as a sqlite path (":memory:" included).
func Open(dsn string) (Store, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("empty export dsn")
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return openPostgres(dsn)
	}
	return openSQLite(dsn)
}

// SplitFor deterministically assigns a hand to a dataset split by hashing
// its id. The assignment depends only on the id, never on file order, so
// incremental re-exports keep every hand in its original split.
func SplitFor(handID string, valPct, testPct int) string {
	h := fnv.New32a()
	h.Write([]byte(handID))
	bucket := int(h.Sum32() % 100)
	switch {
	case bucket < testPct:
		return SplitTest
	case bucket < testPct+valPct:
		return SplitVal
	default:
		return SplitTrain
	}
}

// ExportFile streams one JSONL file into the store, assigning splits as it
// goes. Returns the number of records offered to the store.
func ExportFile(ctx context.Context, path string, store Store, valPct, testPct int) (int, error) {
	if valPct < 0 || testPct < 0 || valPct+testPct > 100 {
		return 0, fmt.Errorf("invalid split percentages val=%d test=%d", valPct, testPct)
	}
	n := 0
	err := record.ForEach(path, func(rec *record.HandRecord) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := store.InsertHand(ctx, rec, SplitFor(rec.HandID, valPct, testPct)); err != nil {
			return fmt.Errorf("hand %s: %w", rec.HandID, err)
		}
		n++
		return nil
	})
	return n, err
}
