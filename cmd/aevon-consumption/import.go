package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	v1 "github.com/aevon-lab/aevon-consumption/internal/api/v1"
	"github.com/aevon-lab/aevon-consumption/internal/core/storage"
)

func runImport(ctx context.Context, w storage.RecordWriter, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	path := fs.String("file", "", "Path to a JSON file with yearly and daily records")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return errors.New("import: -file is required")
	}

	f, err := os.Open(*path)
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	years, days, err := importRecords(ctx, w, f)
	if err != nil {
		return err
	}
	slog.Info("[Import] Records imported", "file", *path, "yearly", years, "daily", days)
	return nil
}

func importRecords(ctx context.Context, w storage.RecordWriter, r io.Reader) (int, int, error) {
	var doc v1.RecordBatch
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return 0, 0, fmt.Errorf("decode import file: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return 0, 0, fmt.Errorf("validate import file: %w", err)
	}

	years, err := w.UpsertYearRecords(ctx, doc.Yearly)
	if err != nil {
		return 0, 0, fmt.Errorf("import yearly records: %w", err)
	}
	days, err := w.UpsertDayRecords(ctx, doc.Daily)
	if err != nil {
		return years, 0, fmt.Errorf("import daily records: %w", err)
	}
	return years, days, nil
}
