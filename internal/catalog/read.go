package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fstopgen/fstop/internal/photo"
)

// ListImages returns every cataloged image, ordered by filename so builds
// are deterministic before any filter sorting applies.
func (s *Store) ListImages(ctx context.Context) ([]photo.Image, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT filename, width, height, date_taken,
		       exif_make, exif_model, exif_lens_model, exif_exposure_time,
		       exif_f_number, exif_iso, exif_focal_length, exif_raw
		FROM images
		ORDER BY filename ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("catalog: query images: %w", err)
	}
	defer rows.Close()

	images := []photo.Image{}
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate images: %w", err)
	}
	return images, nil
}

// CountImages returns the number of cataloged images.
func (s *Store) CountImages(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM images`).Scan(&n); err != nil {
		return 0, fmt.Errorf("catalog: count images: %w", err)
	}
	return n, nil
}

func scanImage(rows *sql.Rows) (photo.Image, error) {
	var (
		img                                   photo.Image
		dateTaken                             sql.NullString
		make_, model, lensModel, exposureTime sql.NullString
		fNumber, focalLength                  sql.NullFloat64
		iso                                   sql.NullInt64
		raw                                   sql.NullString
	)
	err := rows.Scan(
		&img.Filename, &img.Width, &img.Height, &dateTaken,
		&make_, &model, &lensModel, &exposureTime,
		&fNumber, &iso, &focalLength, &raw,
	)
	if err != nil {
		return photo.Image{}, fmt.Errorf("catalog: scan image: %w", err)
	}

	if dateTaken.Valid {
		t, err := time.Parse(time.RFC3339, dateTaken.String)
		if err != nil {
			return photo.Image{}, fmt.Errorf("catalog: %s: bad date_taken %q: %w", img.Filename, dateTaken.String, err)
		}
		img.DateTaken = &t
	}

	// exif_raw marks EXIF presence; see schema.sql.
	if raw.Valid {
		exif := &photo.Exif{
			Make:         make_.String,
			Model:        model.String,
			LensModel:    lensModel.String,
			ExposureTime: exposureTime.String,
		}
		if fNumber.Valid {
			v := fNumber.Float64
			exif.FNumber = &v
		}
		if focalLength.Valid {
			v := focalLength.Float64
			exif.FocalLength = &v
		}
		if iso.Valid {
			v := int(iso.Int64)
			exif.ISO = &v
		}
		var tags map[string]string
		if err := json.Unmarshal([]byte(raw.String), &tags); err != nil {
			return photo.Image{}, fmt.Errorf("catalog: %s: bad raw tags: %w", img.Filename, err)
		}
		if len(tags) > 0 {
			exif.Raw = tags
		}
		img.Exif = exif
	}

	return img, nil
}
