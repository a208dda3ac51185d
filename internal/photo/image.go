package photo

import "time"

// Image is one photo record as produced by the content pipeline.
//
// The filter engine reads these records but never mutates them. All optional
// data uses an explicit absent representation: pointer fields are nil when the
// value is unknown, string fields inside Exif are empty when the tag was not
// present in the file.
type Image struct {
	// Filename is the image file name relative to the photo root.
	Filename string

	// Width and Height are the pixel dimensions.
	Width  int
	Height int

	// DateTaken is the capture timestamp. Nil when the file carried no
	// usable date metadata.
	DateTaken *time.Time

	// Exif holds parsed camera metadata. Nil when the file had no EXIF
	// block at all.
	Exif *Exif
}

// Exif is the parsed camera metadata for one image.
//
// String fields are empty when the tag is missing. Numeric fields are
// pointers so that a missing tag and a zero value stay distinguishable
// (ISO 0 never occurs in practice, but f-numbers and focal lengths are
// compared numerically and must not default to 0).
type Exif struct {
	Make         string
	Model        string
	LensModel    string
	ExposureTime string

	FNumber     *float64
	ISO         *int
	FocalLength *float64

	// Raw holds every tag the extractor found, keyed by tag name, with the
	// value in its original string form. This is the escape hatch for tags
	// the typed fields above do not cover (e.g. Rating, Software).
	Raw map[string]string
}
