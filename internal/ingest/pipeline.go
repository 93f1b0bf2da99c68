package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/baharkarakas/payledger/internal/models"
	"github.com/baharkarakas/payledger/internal/worker"
)

// Applier consumes records; per-record failures are its own concern.
type Applier interface {
	Apply(rec models.Record) error
}

// Pipeline pumps a record source into the ledger through the sharded
// worker pool, so records for the same client apply in input order while
// different clients proceed in parallel.
type Pipeline struct {
	source Source
	pool   *worker.Pool
	ledger Applier
	log    *slog.Logger
}

func NewPipeline(source Source, pool *worker.Pool, ledger Applier, log *slog.Logger) *Pipeline {
	return &Pipeline{source: source, pool: pool, ledger: ledger, log: log}
}

// Run consumes the source to completion. It returns the first fatal
// ingestion fault, or the context error on cancellation; in both cases
// in-flight work is drained first so every account already touched stays
// reportable. Per-record ledger errors never stop the run.
func (p *Pipeline) Run(ctx context.Context) error {
	defer p.pool.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Warn("ingestion cancelled", "err", ctx.Err())
			return ctx.Err()
		default:
		}

		rec, err := p.source.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			p.log.Error("fatal ingestion fault", "err", err)
			return err
		}

		p.pool.Submit(rec.ClientID, func() {
			// rejected records are logged and counted by the ledger
			_ = p.ledger.Apply(rec)
		})
	}
}
