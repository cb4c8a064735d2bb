// Package rgen generates Go source for a route table from a route config
// file, so the table is compiled into the application instead of being
// read at startup.
package rgen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"

	"github.com/liffevent/viewrouter/routeconf"
)

// DefaultOutputFile is the name of the generated file.
const DefaultOutputFile = "0_routes_vgen.go"

// DefaultConfigFiles are tried in order when no config file is set.
var DefaultConfigFiles = []string{"routes.yaml", "routes.yml", "routes.toml"}

// New returns a new Generator instance.
func New() *Generator {
	return &Generator{}
}

// Generator performs route generation for a given directory.
type Generator struct {
	dir         string // directory to generate in
	configFile  string // route config, relative to dir unless absolute
	packageName string // package clause of the generated file
	outputFile  string // generated file name, relative to dir
}

// SetDir assigns the directory to generate in.
func (g *Generator) SetDir(dir string) *Generator {
	g.dir = dir
	return g
}

// SetConfigFile sets the route config file.  Relative paths are resolved
// against the directory set with SetDir.  If not set, the first of
// DefaultConfigFiles found in the directory is used.
func (g *Generator) SetConfigFile(configFile string) *Generator {
	g.configFile = configFile
	return g
}

// SetPackageName sets the package name used in the generated file.
// If not set, the base name of the directory is used.
func (g *Generator) SetPackageName(packageName string) *Generator {
	g.packageName = packageName
	return g
}

// SetOutputFile sets the name of the generated file.
func (g *Generator) SetOutputFile(outputFile string) *Generator {
	g.outputFile = outputFile
	return g
}

// ConfigPath returns the absolute path of the route config the generator reads.
func (g *Generator) ConfigPath() (string, error) {

	dir, err := filepath.Abs(g.dir)
	if err != nil {
		return "", err
	}

	if g.configFile != "" {
		if filepath.IsAbs(g.configFile) {
			return g.configFile, nil
		}
		return filepath.Join(dir, g.configFile), nil
	}

	for _, name := range DefaultConfigFiles {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no route config (%s) found in %s", strings.Join(DefaultConfigFiles, ", "), dir)
}

// OutputPath returns the absolute path of the generated file.
func (g *Generator) OutputPath() (string, error) {
	dir, err := filepath.Abs(g.dir)
	if err != nil {
		return "", err
	}
	out := g.outputFile
	if out == "" {
		out = DefaultOutputFile
	}
	return filepath.Join(dir, out), nil
}

// Generate does the route generation.
func (g *Generator) Generate() error {

	b, err := g.Render()
	if err != nil {
		return err
	}

	outPath, err := g.OutputPath()
	if err != nil {
		return err
	}

	err = os.WriteFile(outPath, b, 0644)
	if err != nil {
		return err
	}

	return nil
}

// Render loads and validates the route config and returns the formatted
// source without writing it.  A config that would not produce a valid
// route table (duplicate paths or names, empty views) is an error.
func (g *Generator) Render() ([]byte, error) {

	configPath, err := g.ConfigPath()
	if err != nil {
		return nil, err
	}

	f, err := routeconf.Load(configPath)
	if err != nil {
		return nil, err
	}

	packageName := g.packageName
	if packageName == "" {
		dir, err := filepath.Abs(g.dir)
		if err != nil {
			return nil, err
		}
		packageName = filepath.Base(dir)
	}
	if !token.IsIdentifier(packageName) {
		return nil, fmt.Errorf("%q is not a valid package name, use SetPackageName", packageName)
	}

	views, err := viewIdents(f.Routes)
	if err != nil {
		return nil, err
	}

	cm := map[string]interface{}{
		"PackageName": packageName,
		"ConfigFile":  filepath.Base(configPath),
		"Routes":      f.Routes,
		"Views":       views,
	}

	t, err := template.New(DefaultOutputFile).Funcs(template.FuncMap{
		"ViewIdent": func(view string) string { return "View" + identName(view) },
	}).Parse(routesTemplate)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = t.Execute(&buf, cm)
	if err != nil {
		return nil, err
	}

	b, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("error formatting generated routes: %w; source:\n%s", err, buf.Bytes())
	}

	return b, nil
}

const routesTemplate = `package {{.PackageName}}

// WARNING: This file was generated by viewrouter/rgen from {{.ConfigFile}}. Do not modify.

import "github.com/liffevent/viewrouter"

// View identifiers used by the generated routes.
const (
{{range .Views}}	{{ViewIdent .}} viewrouter.ViewID = {{printf "%q" .}}
{{end}})

// vgRouteDefs is the generated route list, in config order.
var vgRouteDefs = []viewrouter.RouteDefinition{
{{range .Routes}}	{Path: {{printf "%q" .Path}}, Name: {{printf "%q" .Name}}, View: {{ViewIdent .View}}},
{{end}}}

// MakeRouteTable returns a new route table built from the generated routes.
func MakeRouteTable() (*viewrouter.RouteTable, error) {
	return viewrouter.NewRouteTable(vgRouteDefs...)
}

// MustMakeRouteTable is like MakeRouteTable but panics upon error.
func MustMakeRouteTable() *viewrouter.RouteTable {
	return viewrouter.MustRouteTable(vgRouteDefs...)
}
`

// viewIdents returns the distinct views in config order and checks that
// each maps to its own Go identifier.
func viewIdents(routes []routeconf.Route) ([]string, error) {
	var ret []string
	seen := make(map[string]string, len(routes))
	for _, r := range routes {
		ident := identName(r.View)
		if !token.IsIdentifier("View" + ident) {
			return nil, fmt.Errorf("view %q does not produce a valid Go identifier", r.View)
		}
		if prev, ok := seen[ident]; ok {
			if prev != r.View {
				return nil, fmt.Errorf("views %q and %q both produce identifier View%s", prev, r.View, ident)
			}
			continue
		}
		seen[ident] = r.View
		ret = append(ret, r.View)
	}
	return ret, nil
}

// identName transforms a view name the same way vugu turns file names into
// type names: "event-list" becomes "EventList".  Spaces and underscores are
// treated like dashes.
func identName(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	for i := range parts {
		p := parts[i]
		if len(p) > 0 {
			p = strings.ToUpper(p[:1]) + p[1:]
		}
		parts[i] = p
	}
	return strings.Join(parts, "")
}
