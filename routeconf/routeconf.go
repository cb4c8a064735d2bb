// Package routeconf loads the static route configuration of an application:
// the list of {path, name, view} triples a viewrouter.RouteTable is built from.
package routeconf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/liffevent/viewrouter"
)

// Format is a configuration file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor picks the format from the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unsupported route config extension %q", filepath.Ext(path))
}

// Route is one route entry as written in the config file.
type Route struct {
	Path string `yaml:"path" toml:"path"`
	Name string `yaml:"name" toml:"name"`
	View string `yaml:"view" toml:"view"`
}

// File is the whole route config.
//
//	routes:
//	  - path: /
//	    name: home
//	    view: RegisterEvent
type File struct {
	Routes []Route `yaml:"routes" toml:"routes"`
}

// Load reads and validates the route config at path.
func Load(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("route config path is empty")
	}

	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read route config: %w", err)
	}

	f, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes data in the given format and validates the result.
func Parse(data []byte, format Format) (*File, error) {

	var f File

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("failed to parse YAML route config: %w", err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, fmt.Errorf("failed to parse TOML route config: %w", err)
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return nil, fmt.Errorf("failed to parse TOML route config: unknown key %q", undec[0].String())
		}
	default:
		return nil, fmt.Errorf("unsupported route config format %q", format)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks that the config describes a usable route table.
func (f *File) Validate() error {
	if len(f.Routes) == 0 {
		return fmt.Errorf("%w: route config has no routes", viewrouter.ErrInvalidRoute)
	}
	_, err := f.Table()
	return err
}

// Definitions converts the config entries, in file order.
func (f *File) Definitions() []viewrouter.RouteDefinition {
	ret := make([]viewrouter.RouteDefinition, 0, len(f.Routes))
	for _, r := range f.Routes {
		ret = append(ret, viewrouter.RouteDefinition{
			Path: r.Path,
			Name: r.Name,
			View: viewrouter.ViewID(r.View),
		})
	}
	return ret
}

// Table builds the route table described by the config.
func (f *File) Table() (*viewrouter.RouteTable, error) {
	return viewrouter.NewRouteTable(f.Definitions()...)
}
