// Command normalize runs the full normalization pass over locally saved
// sheet exports, without a server or any network access. It exists for
// spot-checking officer data offline: download the three CSV exports, point
// the flags at them, and diff the JSON output between runs.
//
// Usage:
//
//	go run ./cmd/normalize \
//	  -traffic data/traffic.csv \
//	  -enforcement data/enforcement.csv \
//	  -safety data/safety.csv \
//	  -out normalized.json
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/patrolwatch/incident-etl/internal/domain"
)

func main() {
	trafficPath := flag.String("traffic", "", "path to the traffic sheet CSV export")
	enforcementPath := flag.String("enforcement", "", "path to the enforcement sheet CSV export")
	safetyPath := flag.String("safety", "", "path to the safety sheet CSV export")
	out := flag.String("out", "", "output JSON path (default stdout)")
	flag.Parse()

	if *trafficPath == "" && *enforcementPath == "" && *safetyPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*trafficPath, *enforcementPath, *safetyPath, *out); code != 0 {
		os.Exit(code)
	}
}

// output is the offline result document. It mirrors what the service keeps
// in a snapshot, plus the summary counts the daily report wants.
type output struct {
	GeneratedAt      time.Time        `json:"generatedAt"`
	Events           []domain.Event   `json:"events"`
	Lanes            domain.LaneStats `json:"lanes"`
	CountsByCategory map[string]int   `json:"countsByCategory"`
	CountsByDivision map[string]int   `json:"countsByDivision"`
}

func run(trafficPath, enforcementPath, safetyPath, outPath string) int {
	sources := []struct {
		path   string
		format domain.SourceFormat
	}{
		{trafficPath, domain.SourceTraffic},
		{enforcementPath, domain.SourceEnforcement},
		{safetyPath, domain.SourceSafety},
	}

	var events []domain.Event
	for _, src := range sources {
		if src.path == "" {
			continue
		}
		rows, err := loadRows(src.path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load %s sheet: %v\n", src.format, err)
			return 1
		}
		sheetEvents, dropped := domain.AssembleSheet(rows, src.format)
		events = append(events, sheetEvents...)
		fmt.Fprintf(os.Stderr, "%s: %d rows, %d events", src.format, len(rows), len(sheetEvents))
		for reason, n := range dropped {
			fmt.Fprintf(os.Stderr, ", %d dropped (%s)", n, reason)
		}
		fmt.Fprintln(os.Stderr)
	}

	doc := output{
		GeneratedAt:      time.Now(),
		Events:           domain.SortNewestFirst(events),
		Lanes:            domain.CorrelateLanes(events),
		CountsByCategory: domain.CountByCategory(events),
		CountsByDivision: domain.CountByDivision(events),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal output: %v\n", err)
		return 1
	}
	data = append(data, '\n')

	if outPath == "" {
		os.Stdout.Write(data)
		return 0
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", outPath, err)
		return 1
	}
	fmt.Fprintf(os.Stderr, "wrote %s (%d events, %d active lanes)\n", outPath, len(doc.Events), doc.Lanes.ActiveCount)
	return 0
}

// loadRows reads a CSV export into labeled rows. The first record is the
// header; its cells become the labels of every following row. Officer sheets
// are ragged, so records longer than the header are truncated and shorter
// ones leave the remaining labels without cells.
func loadRows(path string) ([]domain.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}

	header := all[0]
	rows := make([]domain.RawRow, 0, len(all)-1)
	for _, record := range all[1:] {
		if isEmptyRecord(record) {
			continue
		}
		row := make(domain.RawRow, 0, len(header))
		for i, label := range header {
			if i >= len(record) {
				break
			}
			row = append(row, domain.Cell{Label: label, Value: record[i]})
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isEmptyRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
