package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"leadengine/internal/domain"
	"leadengine/internal/lead"
)

// propstreamColumns maps the export headers of a PropStream-style CSV
// onto canonical field names. Matching is case-insensitive and
// whitespace-tolerant.
var propstreamColumns = map[string]string{
	"property address": "address",
	"address":          "address",
	"city":             "city",
	"state":            "state",
	"zip code":         "zip",
	"zip":              "zip",
	"amount owed":      "price",
	"price":            "price",
	"estimated value":  "arv",
	"arv":              "arv",
	"description":      "description",
	"link":             "link",
}

// ReadPropStream parses a bulk-import CSV into lead candidates. Rows
// with no address are skipped; unparseable price/arv cells become nil
// and the row is kept. Records enter the pipeline at the scorer stage
// since the estimated value column already supplies the ARV.
func ReadPropStream(r io.Reader) ([]domain.Lead, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := make(map[string]int) // canonical name -> column index
	for i, h := range header {
		key := strings.ToLower(strings.Join(strings.Fields(h), " "))
		if name, ok := propstreamColumns[key]; ok {
			if _, dup := cols[name]; !dup {
				cols[name] = i
			}
		}
	}
	if _, ok := cols["address"]; !ok {
		return nil, fmt.Errorf("csv is missing a Property Address column (got headers: %v)", header)
	}

	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	now := time.Now().UTC()
	var out []domain.Lead
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// one mangled row must not sink the upload
			continue
		}

		addr := lead.NormalizeAddress(field(rec, "address"))
		if addr == "" {
			continue
		}

		out = append(out, domain.Lead{
			Title:       addr,
			Link:        field(rec, "link"),
			Description: field(rec, "description"),
			City:        field(rec, "city"),
			State:       field(rec, "state"),
			Zip:         field(rec, "zip"),
			Price:       lead.ParsePrice(field(rec, "price")),
			ARV:         lead.ParsePrice(field(rec, "arv")),
			Source:      "csv_upload",
			CreatedAt:   now,
		})
	}
	return out, nil
}
