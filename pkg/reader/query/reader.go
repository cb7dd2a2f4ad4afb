// Package query provides a streaming reader for batch search files.
//
// A batch file is comma-separated with a header line, then one query per
// line:
//
//	peptide,target_mass,tolerance,ignore,cap_mass,mods
//	YGGFLRRIRPKLK,1205.68,1.0,1,41.0265,Acetyl@-1
//	YGGFLRRIRPKLK,1058.61,,,,
//
// Only peptide and target_mass are required; empty trailing columns take
// the reader's defaults. Blank lines and lines starting with '#' are
// skipped, before and after the header.
package query

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/TruncSearch/pkg/core"
	"github.com/ChrisMcGann/TruncSearch/pkg/search"
)

// Defaults fill optional columns left empty in a batch file.
type Defaults struct {
	Tolerance   float64
	IgnoreCount int
	CapMass     float64
	MaxNodes    int
}

// Reader provides streaming access to batch query files
type Reader struct {
	scanner    *bufio.Scanner
	modDB      *core.ModDatabase
	defaults   Defaults
	lineNum    int
	headerSeen bool
	current    *search.Query
	err        error
}

// NewReader creates a new batch query reader
func NewReader(r io.Reader, modDB *core.ModDatabase, defaults Defaults) *Reader {
	if modDB == nil {
		modDB = core.DefaultModDatabase()
	}

	return &Reader{
		scanner:  bufio.NewScanner(r),
		modDB:    modDB,
		defaults: defaults,
	}
}

// Next advances to the next query. Returns false at end of input or on error.
func (r *Reader) Next() bool {
	r.current = nil
	if r.err != nil {
		return false
	}

	for r.scanner.Scan() {
		r.lineNum++
		line := strings.TrimSpace(r.scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !r.headerSeen {
			r.headerSeen = true
			continue
		}

		q, err := r.parseLine(line)
		if err != nil {
			r.err = fmt.Errorf("line %d: %w", r.lineNum, err)
			return false
		}
		r.current = q
		return true
	}

	if err := r.scanner.Err(); err != nil {
		r.err = err
	}
	return false
}

// Query returns the current query
func (r *Reader) Query() *search.Query {
	return r.current
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	return r.err
}

// ReadAll drains the reader into a slice.
func (r *Reader) ReadAll() ([]search.Query, error) {
	var queries []search.Query
	for r.Next() {
		queries = append(queries, *r.Query())
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return queries, nil
}

// parseLine parses one "peptide,target_mass[,tolerance,ignore,cap_mass,mods]" row
func (r *Reader) parseLine(line string) (*search.Query, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 2 {
		return nil, fmt.Errorf("expected at least 2 fields (peptide,target_mass), got %d", len(fields))
	}
	if len(fields) > 6 {
		return nil, fmt.Errorf("expected at most 6 fields, got %d", len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	q := &search.Query{
		Peptide:     strings.ToUpper(fields[0]),
		Tolerance:   r.defaults.Tolerance,
		IgnoreCount: r.defaults.IgnoreCount,
		CapMass:     r.defaults.CapMass,
		MaxNodes:    r.defaults.MaxNodes,
	}
	if q.Peptide == "" {
		return nil, fmt.Errorf("peptide is empty")
	}

	target, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid target mass '%s': %w", fields[1], err)
	}
	q.TargetMass = target

	if len(fields) > 2 && fields[2] != "" {
		if q.Tolerance, err = strconv.ParseFloat(fields[2], 64); err != nil {
			return nil, fmt.Errorf("invalid tolerance '%s': %w", fields[2], err)
		}
	}

	if len(fields) > 3 && fields[3] != "" {
		if q.IgnoreCount, err = strconv.Atoi(fields[3]); err != nil {
			return nil, fmt.Errorf("invalid ignore count '%s': %w", fields[3], err)
		}
	}

	if len(fields) > 4 && fields[4] != "" {
		if q.CapMass, err = strconv.ParseFloat(fields[4], 64); err != nil {
			return nil, fmt.Errorf("invalid cap mass '%s': %w", fields[4], err)
		}
	}

	if len(fields) > 5 && fields[5] != "" {
		mods, err := r.modDB.ParseModString(fields[5], q.Peptide)
		if err != nil {
			return nil, err
		}
		if q.Adjustments, err = core.Adjustments(q.Peptide, mods); err != nil {
			return nil, err
		}
	}

	return q, nil
}
