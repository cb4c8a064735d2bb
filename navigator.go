package viewrouter

import "net/url"

// Intent is a request to change the active route.  Exactly one of Path
// or Name is expected to be set; use ToPath or ToName to build one.
type Intent struct {
	Path   string     // logical path, may carry a "?query"
	Name   string     // route name
	Params url.Values // path params (and extra query values) for Name
}

// ToPath returns an Intent for the given path and optional query string.
func ToPath(p string) Intent { return Intent{Path: p} }

// ToName returns an Intent for the named route.  Values in params that are
// not path parameters of the route end up in the query string.
func ToName(name string, params url.Values) Intent {
	return Intent{Name: name, Params: params}
}

func (i Intent) String() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Path
}

// NavigatorOpt is a marker interface to ensure that options to Navigator are passed intentionally.
type NavigatorOpt interface {
	IsNavigatorOpt()
}

type intNavigatorOpt int

// IsNavigatorOpt implements NavigatorOpt.
func (i intNavigatorOpt) IsNavigatorOpt() {}

var (
	// NavReplace will cause this navigation to replace the
	// current history entry rather than pushing to the stack.
	// Implemented using window.history.replaceState()
	NavReplace NavigatorOpt = intNavigatorOpt(1)

	// NavSkipRender will cause this navigation to not notify change
	// listeners.  It can be used when a component has already accounted
	// for the render in some other way and just wants to inform the
	// router of the current logical path.
	NavSkipRender NavigatorOpt = intNavigatorOpt(2)
)

type navOpts []NavigatorOpt

func (no navOpts) has(o NavigatorOpt) bool {
	for _, o2 := range no {
		if o == o2 {
			return true
		}
	}
	return false
}

// Navigator is the part of the Router that views need in order to move
// the application to another route.
type Navigator interface {
	Navigate(intent Intent, opts ...NavigatorOpt) (State, error)
}

// NavigatorRef can be embedded in a view so the host can inject the router
// after the view is created.
type NavigatorRef struct {
	Navigator // embed Navigator
}

// NavigatorSet implements NavigatorSetter.
func (h *NavigatorRef) NavigatorSet(o Navigator) {
	h.Navigator = o
}

// NavigatorSetter is implemented by anything that accepts a Navigator.
type NavigatorSetter interface {
	NavigatorSet(Navigator)
}
