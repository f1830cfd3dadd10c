package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"leadengine/internal/store"
)

// WriteLeads streams the lead table as CSV, one row per lead, for the
// dashboard's download button. Null numerics become empty cells.
func WriteLeads(w io.Writer, leads []store.Lead) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"title", "link", "source", "city", "state", "zip",
		"price", "arv", "equity", "hot_lead", "score",
		"motivation", "latitude", "longitude",
		"date_posted", "created_at",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, l := range leads {
		row := []string{
			l.Title,
			l.Link,
			l.Source,
			l.City,
			l.State,
			l.Zip,
			intCell(l.Price),
			intCell(l.ARV),
			intCell(l.Equity),
			fmt.Sprintf("%t", l.HotLead),
			fmt.Sprintf("%g", l.Score),
			strings.Join(l.Motivation, "|"),
			floatCell(l.Latitude),
			floatCell(l.Longitude),
			l.DatePosted,
			l.CreatedAt,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func intCell(v *int64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%f", *v)
}
