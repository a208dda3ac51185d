// Package gallery assembles galleries from content descriptors and the
// image catalog by compiling and running each descriptor's filter query.
package gallery

import (
	"fmt"

	"github.com/fstopgen/fstop/internal/content"
	"github.com/fstopgen/fstop/internal/filterql"
	"github.com/fstopgen/fstop/internal/photo"
)

// Gallery is one built gallery: the descriptor's presentation fields plus
// the selected images in final order.
type Gallery struct {
	Title       string
	Description string
	Cover       string
	Images      []photo.Image
}

// Build runs the descriptor's filter over the catalog images and resolves
// the cover. An empty filter selects every image in catalog order. The
// input slice is never modified.
func Build(desc *content.Descriptor, images []photo.Image) (*Gallery, error) {
	selected := images
	if desc.Filter != "" {
		q, err := filterql.CompileQuery(desc.Filter)
		if err != nil {
			return nil, fmt.Errorf("gallery %q: %w", desc.Title, err)
		}
		selected = q.Run(images)
	} else {
		selected = append([]photo.Image(nil), images...)
	}

	g := &Gallery{
		Title:       desc.Title,
		Description: desc.Description,
		Cover:       desc.Cover,
		Images:      selected,
	}

	if g.Cover == "" && len(g.Images) > 0 {
		g.Cover = g.Images[0].Filename
	}
	if g.Cover != "" && !containsFilename(g.Images, g.Cover) {
		return nil, fmt.Errorf("gallery %q: cover %q is not among the selected images", desc.Title, g.Cover)
	}
	return g, nil
}

func containsFilename(images []photo.Image, name string) bool {
	for i := range images {
		if images[i].Filename == name {
			return true
		}
	}
	return false
}
