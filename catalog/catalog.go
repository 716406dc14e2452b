// Package catalog loads exhibition files: the wall slots of a gallery and
// the artworks hung on them. Files may be JSON, TOML or YAML, selected by
// extension, and can be watched for changes.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/gallery"
)

// Format is an exhibition file encoding.
type Format uint8

const (
	FormatJSON Format = iota
	FormatTOML
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	}
	return fmt.Sprintf("Format(%d)", f)
}

// ErrUnknownFormat is returned for file extensions without a decoder.
var ErrUnknownFormat = errors.New("catalog: unknown file format")

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Catalog is one exhibition.
type Catalog struct {
	Title    string                `json:"title" toml:"title" yaml:"title"`
	Spawn    mgl64.Vec3            `json:"spawn" toml:"spawn" yaml:"spawn"`
	Slots    []gallery.Slot        `json:"slots" toml:"slots" yaml:"slots"`
	Artworks []gallery.ArtworkData `json:"artworks" toml:"artworks" yaml:"artworks"`
}

// Load reads and validates the catalog at path.
func Load(path string) (*Catalog, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	c, err := Decode(data, f)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return c, nil
}

// Decode parses and validates a catalog. Unknown fields are rejected.
func Decode(data []byte, f Format) (*Catalog, error) {
	var c Catalog
	var err error
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&c)
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&c)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&c)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("catalog: decode %v: empty document", f)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: decode %v: %w", f, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks slot directions, artwork ids, widths and locations.
func (c *Catalog) Validate() error {
	for i, s := range c.Slots {
		if !axisAligned(s.Direction) {
			return fmt.Errorf("catalog: slot %d: direction %v is not a horizontal unit axis", i+1, s.Direction)
		}
		for _, v := range s.Position {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("catalog: slot %d: position %v is not finite", i+1, s.Position)
			}
		}
	}
	seen := make(map[string]bool, len(c.Artworks))
	for i, a := range c.Artworks {
		if a.ID == "" {
			return fmt.Errorf("catalog: artwork %d: missing id", i)
		}
		if seen[a.ID] {
			return fmt.Errorf("catalog: artwork %q: duplicate id", a.ID)
		}
		seen[a.ID] = true
		if !(a.Width > 0) {
			return fmt.Errorf("catalog: artwork %q: width must be positive", a.ID)
		}
		if a.Location < 0 || a.Location > len(c.Slots) {
			return fmt.Errorf("catalog: artwork %q: location %d out of range 0..%d", a.ID, a.Location, len(c.Slots))
		}
		if a.URL == "" && a.VideoURL == "" {
			return fmt.Errorf("catalog: artwork %q: needs url or videoUrl", a.ID)
		}
	}
	return nil
}

// axisAligned reports whether v is ±X or ±Z.
func axisAligned(v mgl64.Vec3) bool {
	if v.Y() != 0 {
		return false
	}
	x, z := math.Abs(v.X()), math.Abs(v.Z())
	return (x == 1 && z == 0) || (x == 0 && z == 1)
}

// Apply hangs the catalog in ex immediately. Call it from the update
// goroutine. It returns the number of artworks hung.
func (c *Catalog) Apply(ex *gallery.Exhibition) int {
	return ex.Replace(c.Slots, c.Artworks)
}

// Queue hands the catalog to ex for the next tick. Safe from any goroutine.
func (c *Catalog) Queue(ex *gallery.Exhibition) {
	ex.QueueReplace(c.Slots, c.Artworks)
}
