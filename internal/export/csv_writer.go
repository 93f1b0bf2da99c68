package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/baharkarakas/payledger/internal/models"
)

// WriteCSV renders the final account states as
// `client,available,held,total,locked` rows. Callers pass the states in
// the order they want them printed; repository snapshots are already
// ascending by client id.
func WriteCSV(w io.Writer, states []models.AccountState) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	for _, st := range states {
		row := []string{
			strconv.FormatUint(uint64(st.ClientID), 10),
			st.Available.String(),
			st.Held.String(),
			st.Total.String(),
			strconv.FormatBool(st.Locked),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: write client %d: %w", st.ClientID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
