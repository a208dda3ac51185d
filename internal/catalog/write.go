package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fstopgen/fstop/internal/photo"
)

// ImportImages writes a batch of scanned image records, returning the
// batch ID. Records are upserted by filename, so re-importing a directory
// refreshes metadata in place. The whole batch commits atomically.
//
// Batch IDs are UUIDv7, so listing batches by ID also lists them by
// import time.
func (s *Store) ImportImages(ctx context.Context, source string, images []photo.Image) (string, error) {
	batch := uuid.Must(uuid.NewV7()).String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("catalog: begin import: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO import_batches (id, source, imported_at)
		VALUES (?, ?, ?)
	`, batch, source, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("catalog: write batch: %w", err)
	}

	for i := range images {
		if err := upsertImage(ctx, tx, batch, &images[i]); err != nil {
			return "", fmt.Errorf("catalog: write %s: %w", images[i].Filename, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("catalog: commit import: %w", err)
	}
	return batch, nil
}

func upsertImage(ctx context.Context, tx *sql.Tx, batch string, img *photo.Image) error {
	var dateTaken sql.NullString
	if img.DateTaken != nil {
		dateTaken = sql.NullString{String: img.DateTaken.UTC().Format(time.RFC3339), Valid: true}
	}

	var (
		make_, model, lensModel, exposureTime sql.NullString
		fNumber, focalLength                  sql.NullFloat64
		iso                                   sql.NullInt64
		raw                                   sql.NullString
	)
	if e := img.Exif; e != nil {
		make_ = nullString(e.Make)
		model = nullString(e.Model)
		lensModel = nullString(e.LensModel)
		exposureTime = nullString(e.ExposureTime)
		if e.FNumber != nil {
			fNumber = sql.NullFloat64{Float64: *e.FNumber, Valid: true}
		}
		if e.FocalLength != nil {
			focalLength = sql.NullFloat64{Float64: *e.FocalLength, Valid: true}
		}
		if e.ISO != nil {
			iso = sql.NullInt64{Int64: int64(*e.ISO), Valid: true}
		}
		// exif_raw is always set when an EXIF block exists; it doubles
		// as the presence marker on read.
		tags := e.Raw
		if tags == nil {
			tags = map[string]string{}
		}
		encoded, err := json.Marshal(tags)
		if err != nil {
			return fmt.Errorf("encode raw tags: %w", err)
		}
		raw = sql.NullString{String: string(encoded), Valid: true}
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO images
		(filename, width, height, date_taken,
		 exif_make, exif_model, exif_lens_model, exif_exposure_time,
		 exif_f_number, exif_iso, exif_focal_length, exif_raw,
		 import_batch)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(filename) DO UPDATE SET
			width = excluded.width,
			height = excluded.height,
			date_taken = excluded.date_taken,
			exif_make = excluded.exif_make,
			exif_model = excluded.exif_model,
			exif_lens_model = excluded.exif_lens_model,
			exif_exposure_time = excluded.exif_exposure_time,
			exif_f_number = excluded.exif_f_number,
			exif_iso = excluded.exif_iso,
			exif_focal_length = excluded.exif_focal_length,
			exif_raw = excluded.exif_raw,
			import_batch = excluded.import_batch
	`,
		img.Filename, img.Width, img.Height, dateTaken,
		make_, model, lensModel, exposureTime,
		fNumber, iso, focalLength, raw,
		batch,
	)
	return err
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
