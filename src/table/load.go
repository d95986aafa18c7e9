package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a table file, picking the decoder from the extension
// (.csv, or .yaml/.yml/.json).
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		t, err := ReadCSV(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return t, nil
	case ".yaml", ".yml", ".json":
		t, err := ReadYAML(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unsupported table file %q (want .csv, .yaml, .yml or .json)", path)
	}
}

// ReadCSV parses a header + rows CSV. Header names are matched case-insensitively;
// an empty first header cell is taken as the code column (dataframe index export).
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	idx := map[string]int{}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		if i == 0 && h == "" {
			h = ColCode
		}
		idx[h] = i
	}
	for _, col := range []string{ColCode, ColName, ColRegion, ColCountCN, ColCountNeuro} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}
	var rows []Row
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		cn, err := parseCount(rec[idx[ColCountCN]])
		if err != nil {
			return nil, fmt.Errorf("line %d %s: %w", line, ColCountCN, err)
		}
		neuro, err := parseCount(rec[idx[ColCountNeuro]])
		if err != nil {
			return nil, fmt.Errorf("line %d %s: %w", line, ColCountNeuro, err)
		}
		rows = append(rows, Row{
			Code:       strings.TrimSpace(rec[idx[ColCode]]),
			Name:       strings.TrimSpace(rec[idx[ColName]]),
			Region:     strings.TrimSpace(rec[idx[ColRegion]]),
			CountCN:    cn,
			CountNeuro: neuro,
		})
	}
	return New(rows), nil
}

// ReadYAML parses a YAML (or JSON) list of rows.
func ReadYAML(r io.Reader) (*Table, error) {
	var rows []Row
	if err := yaml.NewDecoder(r).Decode(&rows); err != nil && err != io.EOF {
		return nil, err
	}
	for i, row := range rows {
		if row.CountCN < 0 || row.CountNeuro < 0 {
			return nil, fmt.Errorf("row %d (%s): negative count", i, row.Code)
		}
	}
	return New(rows), nil
}

// parseCount accepts integers and integral floats ("12", "12.0").
func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative count %d", n)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 || f != float64(int(f)) {
		return 0, fmt.Errorf("count %q is not a non-negative integer", s)
	}
	return int(f), nil
}
