package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ReadCSV parses comma separated values with a header row. Every column must
// hold numbers; blank and NaN cells fail with ErrNonNumeric.
func ReadCSV(r io.Reader) (*Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	switch len(records) {
	case 0:
		return nil, fmt.Errorf("%w: no header", ErrEmpty)
	case 1:
		return nil, fmt.Errorf("%w: no rows", ErrEmpty)
	}

	// LoadRecords renames repeated headers, so check them first.
	seen := make(map[string]bool, len(records[0]))
	for _, name := range records[0] {
		if seen[name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
		seen[name] = true
	}

	df := dataframe.LoadRecords(records)
	if df.Err != nil {
		return nil, fmt.Errorf("read csv: %w", df.Err)
	}
	return FromDataFrame(df)
}

// Load reads the CSV file at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// FromDataFrame converts a gota DataFrame. Int and float columns are accepted;
// any other column type, or a missing value, fails with ErrNonNumeric.
func FromDataFrame(df dataframe.DataFrame) (*Table, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	if df.Nrow() == 0 || df.Ncol() == 0 {
		return nil, ErrEmpty
	}
	names := df.Names()
	types := df.Types()
	columns := make([][]float64, len(names))
	for i, name := range names {
		switch types[i] {
		case series.Int, series.Float:
		default:
			return nil, fmt.Errorf("%w: %q is %s", ErrNonNumeric, name, types[i])
		}
		columns[i] = df.Col(name).Float()
		for row, v := range columns[i] {
			if math.IsNaN(v) {
				return nil, fmt.Errorf("%w: %q has a blank or NaN cell in row %d", ErrNonNumeric, name, row+1)
			}
		}
	}
	return New(names, columns)
}
