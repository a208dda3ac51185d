package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fstopgen/fstop/internal/photo"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func ptrFloat(f float64) *float64 { return &f }
func ptrInt(n int) *int           { return &n }

func sampleImages() []photo.Image {
	taken := time.Date(2024, 3, 2, 10, 15, 0, 0, time.UTC)
	return []photo.Image{
		{
			Filename:  "glacier.jpg",
			Width:     6000,
			Height:    4000,
			DateTaken: &taken,
			Exif: &photo.Exif{
				Make:        "Canon",
				Model:       "EOS R5",
				FNumber:     ptrFloat(8),
				ISO:         ptrInt(100),
				FocalLength: ptrFloat(24),
				Raw:         map[string]string{"Rating": "5"},
			},
		},
		{Filename: "scan-001.jpg", Width: 1200, Height: 800},
	}
}

func TestImportAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	batch, err := s.ImportImages(ctx, "testdata/photos", sampleImages())
	require.NoError(t, err)
	assert.NotEmpty(t, batch)

	images, err := s.ListImages(ctx)
	require.NoError(t, err)
	require.Len(t, images, 2)

	// filename order
	assert.Equal(t, "glacier.jpg", images[0].Filename)
	assert.Equal(t, "scan-001.jpg", images[1].Filename)

	glacier := images[0]
	assert.Equal(t, 6000, glacier.Width)
	require.NotNil(t, glacier.DateTaken)
	assert.True(t, glacier.DateTaken.Equal(time.Date(2024, 3, 2, 10, 15, 0, 0, time.UTC)))
	require.NotNil(t, glacier.Exif)
	assert.Equal(t, "Canon", glacier.Exif.Make)
	require.NotNil(t, glacier.Exif.FNumber)
	assert.Equal(t, 8.0, *glacier.Exif.FNumber)
	require.NotNil(t, glacier.Exif.ISO)
	assert.Equal(t, 100, *glacier.Exif.ISO)
	assert.Equal(t, "5", glacier.Exif.Raw["Rating"])

	// absent data stays absent through the round trip
	scan := images[1]
	assert.Nil(t, scan.DateTaken)
	assert.Nil(t, scan.Exif)
}

func TestImportUpsertsByFilename(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.ImportImages(ctx, "first", sampleImages())
	require.NoError(t, err)

	// Re-import the same file with refreshed metadata.
	updated := []photo.Image{{
		Filename: "glacier.jpg",
		Width:    3000,
		Height:   2000,
		Exif:     &photo.Exif{Make: "Nikon"},
	}}
	second, err := s.ImportImages(ctx, "second", updated)
	require.NoError(t, err)
	assert.NotEmpty(t, second)

	n, err := s.CountImages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	images, err := s.ListImages(ctx)
	require.NoError(t, err)
	glacier := images[0]
	assert.Equal(t, 3000, glacier.Width)
	require.NotNil(t, glacier.Exif)
	assert.Equal(t, "Nikon", glacier.Exif.Make)
	assert.Nil(t, glacier.Exif.ISO)
	assert.Nil(t, glacier.DateTaken, "stale date cleared by upsert")
}

func TestBatchIDsAreTimeOrdered(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.ImportImages(ctx, "a", nil)
	require.NoError(t, err)
	second, err := s.ImportImages(ctx, "b", nil)
	require.NoError(t, err)

	// UUIDv7 embeds the timestamp in the most significant bits.
	assert.Less(t, first, second)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	s1, err := Open(path)
	require.NoError(t, err)
	_, err = s1.ImportImages(context.Background(), "x", sampleImages())
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	n, err := s2.CountImages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
