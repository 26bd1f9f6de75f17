package memdir

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"namecheck/matcher"
)

// LoadCSV reads a reference directory from a CSV file. Rows may be either
// "id,name" or just "name" (ids are then assigned sequentially); a header
// row is skipped when its first field is not numeric. Names are normalized
// with matcher.Normalize, and rows whose names normalize to the empty
// string or whose normalized form was already seen are dropped.
func LoadCSV(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open directory file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var records []matcher.CandidateRecord
	seen := make(map[string]struct{})
	nextID := int64(1)
	first := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read directory file: %w", err)
		}
		id, name, ok := parseRow(row)
		if !ok {
			if first {
				first = false
				continue // header
			}
			continue
		}
		first = false
		if id == 0 {
			id = nextID
		}
		if id >= nextID {
			nextID = id + 1
		}
		normalized := matcher.Normalize(name)
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		records = append(records, matcher.CandidateRecord{
			ID:             id,
			DisplayName:    strings.TrimSpace(name),
			NormalizedName: normalized,
		})
	}

	dir := New()
	dir.Replace(records)
	return dir, nil
}

// parseRow extracts (id, name) from a CSV row. A two-column row with a
// numeric first field carries an explicit id; a one-column row (or a row
// whose first field is not numeric) is name-only and reports id 0.
func parseRow(row []string) (int64, string, bool) {
	switch {
	case len(row) == 0:
		return 0, "", false
	case len(row) == 1:
		name := strings.TrimSpace(row[0])
		return 0, name, name != ""
	default:
		idField := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		if name == "" {
			return 0, "", false
		}
		id, err := strconv.ParseInt(idField, 10, 64)
		if err != nil {
			return 0, "", false
		}
		return id, name, true
	}
}
