package viewrouter

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// ViewID identifies a renderable view.  The router never constructs views,
// it only hands the identifier of the active one to the rendering surface.
type ViewID string

// RouteDefinition binds a path pattern and a unique name to a view.
// Path segments starting with ":" are parameters, e.g. "/event/:id".
type RouteDefinition struct {
	Path string
	Name string
	View ViewID
}

// Match is the result of resolving a path against a RouteTable.
type Match struct {
	Route  RouteDefinition
	Path   string        // cleaned input path
	Params PathParamList // values for the route's path parameters
}

// RouteTable is an ordered, immutable list of route definitions.
// Lookups by path are first-match-wins in table order.
type RouteTable struct {
	entries []routeEntry
	byName  map[string]int
}

type routeEntry struct {
	def   RouteDefinition
	mpath mpath
}

// NewRouteTable validates defs and returns the table.  Two definitions
// with the same path pattern (ignoring parameter names) or the same name
// produce a *DuplicateRouteError.
func NewRouteTable(defs ...RouteDefinition) (*RouteTable, error) {

	t := &RouteTable{
		entries: make([]routeEntry, 0, len(defs)),
		byName:  make(map[string]int, len(defs)),
	}
	byShape := make(map[string]int, len(defs))

	for _, def := range defs {

		if strings.TrimSpace(def.Name) == "" {
			return nil, fmt.Errorf("%w: route %q has no name", ErrInvalidRoute, def.Path)
		}
		if def.View == "" {
			return nil, fmt.Errorf("%w: route %q has no view", ErrInvalidRoute, def.Name)
		}

		mp, err := parseMpath(def.Path)
		if err != nil {
			return nil, fmt.Errorf("route %q: %w", def.Name, err)
		}
		def.Path = mp.String()

		if i, ok := t.byName[def.Name]; ok {
			return nil, &DuplicateRouteError{Field: "name", Value: def.Name, First: t.entries[i].def, Second: def}
		}
		if i, ok := byShape[mp.shape()]; ok {
			return nil, &DuplicateRouteError{Field: "path", Value: def.Path, First: t.entries[i].def, Second: def}
		}

		t.byName[def.Name] = len(t.entries)
		byShape[mp.shape()] = len(t.entries)
		t.entries = append(t.entries, routeEntry{def: def, mpath: mp})
	}

	return t, nil
}

// MustRouteTable is like NewRouteTable but panics upon error.
func MustRouteTable(defs ...RouteDefinition) *RouteTable {
	t, err := NewRouteTable(defs...)
	if err != nil {
		panic(err)
	}
	return t
}

// ResolveByPath returns the first route whose pattern matches p exactly.
// p is an escaped path; one that cannot be unescaped matches nothing.
func (t *RouteTable) ResolveByPath(p string) (Match, error) {
	p = path.Clean("/" + p)
	if _, err := url.PathUnescape(p); err != nil {
		return Match{}, fmt.Errorf("%w for path %q: %v", ErrNoMatchingRoute, p, err)
	}
	for _, e := range t.entries {
		params, exact, ok := e.mpath.match(p)
		if ok && exact {
			return Match{Route: e.def, Path: p, Params: params}, nil
		}
	}
	return Match{}, fmt.Errorf("%w for path %q", ErrNoMatchingRoute, p)
}

// ResolveByName returns the route registered under name.
func (t *RouteTable) ResolveByName(name string) (RouteDefinition, error) {
	i, ok := t.byName[name]
	if !ok {
		return RouteDefinition{}, fmt.Errorf("%w named %q", ErrNoMatchingRoute, name)
	}
	return t.entries[i].def, nil
}

// BuildPath interpolates params into the pattern of the named route.
// Params not consumed by the pattern are returned as query.
func (t *RouteTable) BuildPath(name string, params url.Values) (p string, query url.Values, err error) {
	i, ok := t.byName[name]
	if !ok {
		return "", nil, fmt.Errorf("%w named %q", ErrNoMatchingRoute, name)
	}
	p, query, err = t.entries[i].mpath.merge(params)
	if err != nil {
		return "", nil, fmt.Errorf("route %q: %w", name, err)
	}
	return p, query, nil
}

// Routes returns a copy of the definitions in table order.
func (t *RouteTable) Routes() []RouteDefinition {
	ret := make([]RouteDefinition, len(t.entries))
	for i, e := range t.entries {
		ret[i] = e.def
	}
	return ret
}

// Len returns the number of routes.
func (t *RouteTable) Len() int { return len(t.entries) }

func (t *RouteTable) entryByName(name string) (routeEntry, bool) {
	i, ok := t.byName[name]
	if !ok {
		return routeEntry{}, false
	}
	return t.entries[i], true
}
