package store

import (
	"encoding/csv"
	"os"

	"github.com/pkg/errors"

	"github.com/saicode/bombalarm/internal/alert"
)

var csvHeader = []string{"ID", "Title", "Details", "Valid From", "Valid Until", "Area", "Sender"}

// WriteCSV snapshots the batch's qualifying alerts to a CSV file,
// overwriting any previous snapshot. An empty batch leaves the existing
// file untouched. This is a reporting side effect only; callers never let
// its outcome influence delivery.
func WriteCSV(path string, alerts []*alert.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create csv file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return errors.Wrap(err, "failed to write csv header")
	}

	for _, a := range alerts {
		row := []string{a.ID, a.Title, a.Details, a.ValidFrom, a.ValidUntil, a.Area, a.Sender}
		if err := w.Write(row); err != nil {
			return errors.Wrap(err, "failed to write csv row")
		}
	}

	w.Flush()
	return errors.Wrap(w.Error(), "failed to flush csv file")
}
