package content

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Descriptor is the YAML frontmatter of one gallery content file. The
// Filter field carries a filter query string compiled by the gallery build
// step; content only transports it.
type Descriptor struct {
	// Title is the gallery heading.
	Title string `yaml:"title"`

	// Filter selects, orders, and truncates the gallery's images. Empty
	// means every image in the catalog.
	Filter string `yaml:"filter,omitempty"`

	// Cover names the image used as the gallery thumbnail. Empty picks
	// the first selected image.
	Cover string `yaml:"cover,omitempty"`

	// Description is optional free-form text shown under the title.
	Description string `yaml:"description,omitempty"`
}

var fence = []byte("---")

// ParseFrontmatter splits a content document into its YAML frontmatter and
// markdown body. The document must open with a "---" fence on its own line
// and close the frontmatter with another.
func ParseFrontmatter(data []byte) (*Descriptor, []byte, error) {
	rest, ok := bytes.CutPrefix(data, fence)
	if !ok {
		return nil, nil, fmt.Errorf("content: missing frontmatter fence")
	}
	rest, ok = bytes.CutPrefix(rest, []byte("\n"))
	if !ok {
		// Allow CRLF content files.
		rest, ok = bytes.CutPrefix(rest, []byte("\r\n"))
		if !ok {
			return nil, nil, fmt.Errorf("content: missing frontmatter fence")
		}
	}

	end := bytes.Index(rest, append([]byte("\n"), fence...))
	if end < 0 {
		return nil, nil, fmt.Errorf("content: unterminated frontmatter")
	}
	head := rest[:end]
	body := rest[end+1+len(fence):]
	body = bytes.TrimPrefix(body, []byte("\r"))
	body = bytes.TrimPrefix(body, []byte("\n"))

	var desc Descriptor
	if err := yaml.Unmarshal(head, &desc); err != nil {
		return nil, nil, fmt.Errorf("content: invalid frontmatter: %w", err)
	}
	if desc.Title == "" {
		return nil, nil, fmt.Errorf("content: frontmatter is missing a title")
	}
	return &desc, body, nil
}

// LoadDescriptor reads and parses one gallery content file.
func LoadDescriptor(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", path, err)
	}
	desc, _, err := ParseFrontmatter(data)
	if err != nil {
		return nil, fmt.Errorf("content: parse %s: %w", path, err)
	}
	return desc, nil
}
