package gallery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fstopgen/fstop/internal/content"
	"github.com/fstopgen/fstop/internal/photo"
)

func fixtures() []photo.Image {
	t1 := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	return []photo.Image{
		{Filename: "a.jpg", Width: 6000, Height: 4000, DateTaken: &t1,
			Exif: &photo.Exif{Make: "Canon"}},
		{Filename: "b.jpg", Width: 1200, Height: 800, DateTaken: &t2,
			Exif: &photo.Exif{Make: "Nikon"}},
		{Filename: "c.jpg", Width: 6000, Height: 4000},
	}
}

func names(images []photo.Image) []string {
	out := make([]string, len(images))
	for i := range images {
		out[i] = images[i].Filename
	}
	return out
}

func TestBuild_Filter(t *testing.T) {
	g, err := Build(&content.Descriptor{
		Title:  "Landscapes",
		Filter: "width >= 6000 | sort filename desc",
	}, fixtures())
	require.NoError(t, err)

	assert.Equal(t, "Landscapes", g.Title)
	assert.Equal(t, []string{"c.jpg", "a.jpg"}, names(g.Images))
	assert.Equal(t, "c.jpg", g.Cover, "cover defaults to first selected image")
}

func TestBuild_EmptyFilterSelectsAll(t *testing.T) {
	images := fixtures()
	g, err := Build(&content.Descriptor{Title: "Everything"}, images)
	require.NoError(t, err)

	assert.Equal(t, names(images), names(g.Images))

	// The gallery owns its slice.
	g.Images[0].Filename = "mutated.jpg"
	assert.Equal(t, "a.jpg", images[0].Filename)
}

func TestBuild_ExplicitCover(t *testing.T) {
	g, err := Build(&content.Descriptor{
		Title:  "Canon",
		Filter: "exif.make == 'Canon'",
		Cover:  "a.jpg",
	}, fixtures())
	require.NoError(t, err)
	assert.Equal(t, "a.jpg", g.Cover)
}

func TestBuild_CoverNotSelected(t *testing.T) {
	_, err := Build(&content.Descriptor{
		Title:  "Canon",
		Filter: "exif.make == 'Canon'",
		Cover:  "b.jpg",
	}, fixtures())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `cover "b.jpg" is not among the selected images`)
}

func TestBuild_BadFilter(t *testing.T) {
	_, err := Build(&content.Descriptor{
		Title:  "Broken",
		Filter: "widht == 100",
	}, fixtures())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `gallery "Broken"`)
	assert.Contains(t, err.Error(), `unknown property "widht"`)
}
