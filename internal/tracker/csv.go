package tracker

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/applyforge/applyforge/internal/domain"
)

// csvHeader is written once when the tracker file is created.
var csvHeader = []string{"Company Name", "Job Title", "Job Level", "Salary Range", "Application Link", "Status"}

// CSV appends application records to a local spreadsheet file.
type CSV struct {
	path   string
	logger *zap.Logger
}

// NewCSV creates a CSV tracker writing to the given path.
func NewCSV(path string, logger *zap.Logger) *CSV {
	return &CSV{path: path, logger: logger}
}

// Track appends the record, creating the file with a header row first
// when it does not exist yet.
func (c *CSV) Track(ctx context.Context, record domain.ApplicationRecord) error {
	_, statErr := os.Stat(c.path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening tracker file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("writing tracker header: %w", err)
		}
	}
	if err := w.Write([]string{
		record.Company,
		record.Title,
		record.Level,
		record.SalaryRange,
		record.Link,
		string(record.Status),
	}); err != nil {
		return fmt.Errorf("writing tracker row: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing tracker file: %w", err)
	}

	c.logger.Info("application recorded",
		zap.String("company", record.Company),
		zap.String("title", record.Title),
		zap.String("status", string(record.Status)),
		zap.String("file", c.path))

	return nil
}
