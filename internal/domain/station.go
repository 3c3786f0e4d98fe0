package domain

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
)

// StationRecord is one row of the station table.
type StationRecord struct {
	Latitude  float64
	Longitude float64
	Code      string
}

// Directory resolves station codes to coordinates. It is read-only once loaded.
type Directory struct {
	records    map[string]StationRecord
	malformed  map[string]error
	duplicates []string
	rejected   []string
}

// LoadDirectory reads the station table at path.
func LoadDirectory(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: station table %s not found", ErrMissingResource, path)
		}
		return nil, fmt.Errorf("open station table: %w", err)
	}
	defer f.Close()

	return ParseDirectory(f)
}

// ParseDirectory reads whitespace-separated "lat lon code" lines.
//
// A line whose coordinates do not parse is kept as a malformed entry, so the
// error surfaces when that station is looked up. Lines with fewer than three
// fields cannot be keyed and are reported by Rejected. When a code repeats,
// the first entry wins and the code is reported by Duplicates.
func ParseDirectory(r io.Reader) (*Directory, error) {
	d := &Directory{
		records:   make(map[string]StationRecord),
		malformed: make(map[string]error),
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			d.rejected = append(d.rejected, fmt.Sprintf("line %d: %q", lineNo, line))
			continue
		}

		code := fields[2]
		if d.has(code) {
			d.duplicates = append(d.duplicates, code)
			continue
		}

		rec, err := parseStationFields(fields)
		if err != nil {
			d.malformed[code] = fmt.Errorf("%w: station table line %d: %w", ErrMalformedInput, lineNo, err)
			continue
		}
		d.records[code] = rec
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read station table: %w", err)
	}

	return d, nil
}

func parseStationFields(fields []string) (StationRecord, error) {
	lat, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return StationRecord{}, fmt.Errorf("latitude %q: %w", fields[0], err)
	}
	lon, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return StationRecord{}, fmt.Errorf("longitude %q: %w", fields[1], err)
	}
	return StationRecord{Latitude: lat, Longitude: lon, Code: fields[2]}, nil
}

func (d *Directory) has(code string) bool {
	_, ok := d.records[code]
	_, bad := d.malformed[code]
	return ok || bad
}

// Lookup returns the record for code. It fails with ErrStationNotFound when
// the code is absent and ErrMalformedInput when its line did not parse.
func (d *Directory) Lookup(code string) (StationRecord, error) {
	if rec, ok := d.records[code]; ok {
		return rec, nil
	}
	if err, ok := d.malformed[code]; ok {
		return StationRecord{}, err
	}
	return StationRecord{}, fmt.Errorf("%w: %s", ErrStationNotFound, code)
}

// Len returns the number of usable records.
func (d *Directory) Len() int { return len(d.records) }

// Codes returns the usable station codes, sorted.
func (d *Directory) Codes() []string {
	codes := make([]string, 0, len(d.records))
	for code := range d.records {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Duplicates returns codes that appeared more than once, in file order.
func (d *Directory) Duplicates() []string { return d.duplicates }

// Rejected describes lines that had too few fields to be keyed.
func (d *Directory) Rejected() []string { return d.rejected }
