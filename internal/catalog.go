package internal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
)

// CatalogHeader is the interchange table header shared by both pipelines.
var CatalogHeader = []string{
	"Number", "Video ID", "URL", "Video Title", "Date Published", "Duration", "Duration (sec)",
}

// ErrNoIDColumn is returned when the catalog lacks a "Video ID" column.
// This is fatal for a transcription run.
var ErrNoIDColumn = errors.New(`catalog has no "Video ID" column`)

// Catalog is the append-only CSV table bridging collect and transcribe.
type Catalog struct {
	path string
	ui   UIManager
}

// NewCatalog opens a catalog at the given path. The file need not exist yet.
func NewCatalog(path string, ui UIManager) *Catalog {
	return &Catalog{path: path, ui: ui}
}

// Path returns the catalog file path.
func (c *Catalog) Path() string {
	return c.path
}

// Append writes records to the end of the catalog. The header is written
// only when the file is empty; existing rows are never rewritten.
func (c *Catalog) Append(records []VideoRecord) error {
	file, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("checking catalog: %w", err)
	}

	writer := csv.NewWriter(file)
	if info.Size() == 0 {
		if err := writer.Write(CatalogHeader); err != nil {
			return fmt.Errorf("writing catalog header: %w", err)
		}
	}

	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Number),
			r.VideoID,
			r.URL,
			r.Title,
			r.DatePublished,
			r.Duration,
			strconv.Itoa(r.DurationSec),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing catalog row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing catalog: %w", err)
	}

	return nil
}

// Queue resolves the ordered list of video IDs to transcribe. Rows are read
// top to bottom; a non-empty startID begins the queue at its first
// occurrence (inclusive). Rows with a blank ID are skipped with a warning.
// Repeated header rows from prior appended runs are tolerated.
func (c *Catalog) Queue(startID string) ([]string, error) {
	file, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoIDColumn
	}

	idIndex := -1
	for i, name := range rows[0] {
		if name == "Video ID" {
			idIndex = i
			break
		}
	}
	if idIndex == -1 {
		return nil, ErrNoIDColumn
	}

	var ids []string
	for rowNum, row := range rows[1:] {
		if len(row) <= idIndex {
			c.ui.Warnf("Warning: no video ID in catalog row %d\n", rowNum+2)
			continue
		}
		id := row[idIndex]
		if id == "Video ID" {
			// Header from a previous appended run
			continue
		}
		if id == "" {
			c.ui.Warnf("Warning: no video ID in catalog row %d\n", rowNum+2)
			continue
		}
		ids = append(ids, id)
	}

	if startID == "" {
		return ids, nil
	}

	for i, id := range ids {
		if id == startID {
			return ids[i:], nil
		}
	}

	return nil, fmt.Errorf("start ID %q not found in catalog", startID)
}
