package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const maxLineSize = 1024 * 1024

// ParseDataset reads a whitespace-delimited benchmark data file in full.
func ParseDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	return ParseDatasetReader(filepath.Base(path), bytes.NewReader(data))
}

// ParseDatasetReader splits every line of r into a Record. Any line with fewer
// than four fields, blank lines included, fails the whole dataset.
func ParseDatasetReader(name string, r io.Reader) (*Dataset, error) {
	ds := NewDataset(name)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) < minRecordFields {
			return nil, fmt.Errorf("%s line %d: %w: expected at least %d fields, found %d",
				name, lineNo, ErrMalformedRecord, minRecordFields, len(fields))
		}
		ds.Records = append(ds.Records, Record{Fields: fields, Line: lineNo})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", name, err)
	}
	return ds, nil
}

// ParseNormalized reads back a "<key> <ratio>" file written by the normalizer.
func ParseNormalized(path string) ([]RatioLine, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open normalized file: %w", err)
	}
	defer file.Close()

	name := filepath.Base(path)
	var lines []RatioLine
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("%s line %d: %w: expected 2 fields, found %d",
				name, lineNo, ErrMalformedRecord, len(fields))
		}
		ratio, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid ratio %q: %w", name, lineNo, fields[1], err)
		}
		lines = append(lines, RatioLine{Key: fields[0], Ratio: ratio})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", name, err)
	}
	return lines, nil
}
