package content

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fstopgen/fstop/internal/photo"
)

// imageDoc is the YAML shape of one scanned image record, as written by
// the metadata extraction step. It converts into the in-memory
// photo.Image, mapping missing keys to absent values.
type imageDoc struct {
	Filename  string     `yaml:"filename"`
	Width     int        `yaml:"width"`
	Height    int        `yaml:"height"`
	DateTaken *time.Time `yaml:"date_taken,omitempty"`
	Exif      *exifDoc   `yaml:"exif,omitempty"`
}

type exifDoc struct {
	Make         string            `yaml:"make,omitempty"`
	Model        string            `yaml:"model,omitempty"`
	LensModel    string            `yaml:"lens_model,omitempty"`
	ExposureTime string            `yaml:"exposure_time,omitempty"`
	FNumber      *float64          `yaml:"f_number,omitempty"`
	ISO          *int              `yaml:"iso,omitempty"`
	FocalLength  *float64          `yaml:"focal_length,omitempty"`
	Raw          map[string]string `yaml:"raw,omitempty"`
}

func (d *imageDoc) toImage() (photo.Image, error) {
	if d.Filename == "" {
		return photo.Image{}, fmt.Errorf("image record is missing a filename")
	}
	img := photo.Image{
		Filename:  d.Filename,
		Width:     d.Width,
		Height:    d.Height,
		DateTaken: d.DateTaken,
	}
	if d.Exif != nil {
		img.Exif = &photo.Exif{
			Make:         d.Exif.Make,
			Model:        d.Exif.Model,
			LensModel:    d.Exif.LensModel,
			ExposureTime: d.Exif.ExposureTime,
			FNumber:      d.Exif.FNumber,
			ISO:          d.Exif.ISO,
			FocalLength:  d.Exif.FocalLength,
			Raw:          d.Exif.Raw,
		}
	}
	return img, nil
}

// ParseImages decodes a YAML list of image records.
func ParseImages(data []byte) ([]photo.Image, error) {
	var docs []imageDoc
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("content: invalid image list: %w", err)
	}
	images := make([]photo.Image, 0, len(docs))
	for i := range docs {
		img, err := docs[i].toImage()
		if err != nil {
			return nil, fmt.Errorf("content: image %d: %w", i, err)
		}
		images = append(images, img)
	}
	return images, nil
}

// LoadImages reads and decodes one image metadata file.
func LoadImages(path string) ([]photo.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", path, err)
	}
	images, err := ParseImages(data)
	if err != nil {
		return nil, fmt.Errorf("content: parse %s: %w", path, err)
	}
	return images, nil
}
