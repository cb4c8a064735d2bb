package viewrouter

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateRoute is matched by errors returned when a route table
	// contains two definitions with the same path or the same name.
	ErrDuplicateRoute = errors.New("duplicate route")

	// ErrInvalidRoute is returned for a definition with a missing name,
	// view or an unparsable path.
	ErrInvalidRoute = errors.New("invalid route")

	// ErrNoMatchingRoute is returned when a navigation intent matches no route.
	ErrNoMatchingRoute = errors.New("no matching route")

	// ErrMissingParam is returned when a named navigation lacks a value
	// for one of the route's path parameters.
	ErrMissingParam = errors.New("missing param")

	ErrNotStarted     = errors.New("router not started")
	ErrAlreadyStarted = errors.New("router already started")

	// ErrNoBrowser is returned by BrowserHistory outside a js environment.
	ErrNoBrowser = errors.New("not in browser (js) environment")
)

// DuplicateRouteError describes a configuration conflict between two route
// definitions.  Field is either "path" or "name".
type DuplicateRouteError struct {
	Field  string
	Value  string
	First  RouteDefinition
	Second RouteDefinition
}

func (e *DuplicateRouteError) Error() string {
	return fmt.Sprintf("duplicate route %s %q: %q and %q", e.Field, e.Value, e.First.Name, e.Second.Name)
}

// Is reports ErrDuplicateRoute.
func (e *DuplicateRouteError) Is(target error) bool { return target == ErrDuplicateRoute }

// NavigationError is returned by navigation calls that could not be resolved.
// Target is the path or route name that was requested.
type NavigationError struct {
	Target string
	Err    error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigate to %q: %v", e.Target, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }
