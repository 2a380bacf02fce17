// Package flowfile reads, writes and renders flow diagrams.
package flowfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
)

// ErrUnknownFormat is returned for file extensions with no codec.
var ErrUnknownFormat = errors.New("unknown diagram format")

// Format names a diagram file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// document is the on-disk shape shared by every format.
type document struct {
	Name        string            `json:"name" toml:"name" yaml:"name"`
	Blocks      []flow.Block      `json:"blocks" toml:"blocks" yaml:"blocks"`
	Pins        []flow.Pin        `json:"pins" toml:"pins" yaml:"pins"`
	Connections []flow.Connection `json:"connections" toml:"connections" yaml:"connections"`
}

// Parse decodes a diagram. Blocks, pins and connections are added in file
// order, so a pin must follow its block and a connection its pins.
func Parse(data []byte, format Format) (*flow.Diagram, error) {
	var doc document
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}

	d := flow.New(doc.Name)
	for _, b := range doc.Blocks {
		if err := d.AddBlock(b); err != nil {
			return nil, err
		}
	}
	for _, p := range doc.Pins {
		if err := d.AddPin(p); err != nil {
			return nil, err
		}
	}
	for _, c := range doc.Connections {
		if _, err := d.Connect(c.ID, c.From, c.To); err != nil {
			return nil, fmt.Errorf("connection %q: %w", c.ID, err)
		}
	}
	return d, nil
}

// Marshal encodes a diagram.
func Marshal(d *flow.Diagram, format Format) ([]byte, error) {
	doc := document{
		Name:        d.Name,
		Blocks:      d.Blocks(),
		Pins:        d.Pins(),
		Connections: d.Connections(),
	}
	switch format {
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatTOML:
		return toml.Marshal(doc)
	case FormatYAML:
		return yaml.Marshal(doc)
	}
	return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
}

// ReadFile loads a diagram, choosing the codec by extension.
func ReadFile(path string) (*flow.Diagram, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if d.Name == "" {
		d.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return d, nil
}

// WriteFile saves a diagram, choosing the codec by extension.
func WriteFile(path string, d *flow.Diagram) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Marshal(d, format)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
