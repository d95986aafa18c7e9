// Package table holds the per-country publication counts a chart is drawn from.
//
// Rows keep the order they were loaded or constructed in; rendering code treats
// that order as the display rank (row 0 is drawn at the bottom).
package table

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ErrRowNotFound is returned by lookups that do not match any row.
var ErrRowNotFound = errors.New("row not found")

// Column names as they appear in table files.
const (
	ColCode       = "code"
	ColName       = "name"
	ColRegion     = "region"
	ColCountCN    = "count_cn"
	ColCountNeuro = "count_neuro"
)

// Row is one country.
type Row struct {
	Code       string `yaml:"code" json:"code"`
	Name       string `yaml:"name" json:"name"`
	Region     string `yaml:"region" json:"region"`
	CountCN    int    `yaml:"count_cn" json:"count_cn"`
	CountNeuro int    `yaml:"count_neuro" json:"count_neuro"`
}

// Table is an ordered list of rows.
type Table struct {
	rows []Row
}

// New wraps rows without copying or reordering them.
func New(rows []Row) *Table { return &Table{rows: rows} }

func (t *Table) Len() int { return len(t.rows) }

// Row returns the row at rank i.
func (t *Table) Row(i int) Row { return t.rows[i] }

// Rows returns the rows in display order.
func (t *Table) Rows() []Row { return t.rows }

// IndexOfName returns the rank of the first row whose name matches exactly.
func (t *Table) IndexOfName(name string) (int, error) {
	for i, r := range t.rows {
		if r.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("name %q: %w", name, ErrRowNotFound)
}

// IndexOfCode returns the rank of the row with the given code (case-insensitive).
func (t *Table) IndexOfCode(code string) (int, error) {
	for i, r := range t.rows {
		if strings.EqualFold(r.Code, code) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("code %q: %w", code, ErrRowNotFound)
}

// CountCN returns the first count column as floats.
func (t *Table) CountCN() []float64 {
	out := make([]float64, len(t.rows))
	for i, r := range t.rows {
		out[i] = float64(r.CountCN)
	}
	return out
}

// CountNeuro returns the second count column as floats.
func (t *Table) CountNeuro() []float64 {
	out := make([]float64, len(t.rows))
	for i, r := range t.rows {
		out[i] = float64(r.CountNeuro)
	}
	return out
}

// MaxCN is the largest first count, 0 for an empty table.
func (t *Table) MaxCN() float64 {
	if len(t.rows) == 0 {
		return 0
	}
	return floats.Max(t.CountCN())
}

// MaxNeuro is the largest second count, 0 for an empty table.
func (t *Table) MaxNeuro() float64 {
	if len(t.rows) == 0 {
		return 0
	}
	return floats.Max(t.CountNeuro())
}

// SortedBy returns a copy ordered ascending by column (stable). Rendering never sorts;
// this exists for callers that load unsorted files.
func (t *Table) SortedBy(column string) (*Table, error) {
	var less func(a, b Row) bool
	switch strings.ToLower(strings.TrimSpace(column)) {
	case ColCountCN:
		less = func(a, b Row) bool { return a.CountCN < b.CountCN }
	case ColCountNeuro:
		less = func(a, b Row) bool { return a.CountNeuro < b.CountNeuro }
	case ColName:
		less = func(a, b Row) bool { return a.Name < b.Name }
	case ColCode:
		less = func(a, b Row) bool { return a.Code < b.Code }
	case ColRegion:
		less = func(a, b Row) bool { return a.Region < b.Region }
	default:
		return nil, fmt.Errorf("unknown sort column %q", column)
	}
	rows := make([]Row, len(t.rows))
	copy(rows, t.rows)
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
	return New(rows), nil
}
