package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/baharkarakas/payledger/internal/models"
	"github.com/baharkarakas/payledger/internal/money"
)

// ErrIngestionFault marks unrecoverable input: a row that cannot be
// parsed at all. Unlike per-record ledger errors it aborts the stream.
var ErrIngestionFault = errors.New("ingestion fault")

// Source yields records in input order until io.EOF or a fatal fault.
type Source interface {
	Next() (models.Record, error)
}

// CSVSource reads `type, client, tx, amount` rows. The header row is
// skipped and field whitespace is trimmed. Rows that fail to parse are
// fatal; rows that parse but are semantically invalid (negative amount,
// amount on a dispute) are yielded as-is for the ledger to reject
// per-record.
type CSVSource struct {
	r       *csv.Reader
	line    int
	started bool
}

func NewCSVSource(src io.Reader) *CSVSource {
	r := csv.NewReader(src)
	r.TrimLeadingSpace = true
	// the amount column is absent or empty on dispute-class rows
	r.FieldsPerRecord = -1
	return &CSVSource{r: r}
}

func (c *CSVSource) Next() (models.Record, error) {
	if !c.started {
		c.started = true
		c.line++
		if _, err := c.r.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				return models.Record{}, io.EOF
			}
			return models.Record{}, c.fault(err)
		}
	}

	row, err := c.r.Read()
	c.line++
	if err != nil {
		if errors.Is(err, io.EOF) {
			return models.Record{}, io.EOF
		}
		return models.Record{}, c.fault(err)
	}
	return c.parseRow(row)
}

func (c *CSVSource) parseRow(row []string) (models.Record, error) {
	if len(row) < 3 {
		return models.Record{}, c.fault(fmt.Errorf("want at least 3 fields, got %d", len(row)))
	}

	kind := models.Kind(strings.TrimSpace(row[0]))
	switch kind {
	case models.KindDeposit, models.KindWithdrawal, models.KindDispute, models.KindResolve, models.KindChargeback:
	default:
		return models.Record{}, c.fault(fmt.Errorf("unknown transaction type %q", row[0]))
	}

	client, err := strconv.ParseUint(strings.TrimSpace(row[1]), 10, 16)
	if err != nil {
		return models.Record{}, c.fault(fmt.Errorf("client id %q: %v", row[1], err))
	}
	tx, err := strconv.ParseUint(strings.TrimSpace(row[2]), 10, 32)
	if err != nil {
		return models.Record{}, c.fault(fmt.Errorf("tx id %q: %v", row[2], err))
	}

	rec := models.Record{Kind: kind, ClientID: uint16(client), TxID: uint32(tx)}
	if len(row) > 3 {
		if raw := strings.TrimSpace(row[3]); raw != "" {
			amt, err := money.Parse(raw)
			if err != nil {
				return models.Record{}, c.fault(fmt.Errorf("amount %q: %v", row[3], err))
			}
			rec.Amount = amt
		}
	}
	return rec, nil
}

func (c *CSVSource) fault(err error) error {
	return fmt.Errorf("%w: line %d: %v", ErrIngestionFault, c.line, err)
}
