package viewrouter

import (
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// EventEnv is our view of a Vugu EventEnv.  Browser-initiated transitions
// run under its write lock so they never overlap a render.
type EventEnv interface {
	Lock()         // acquire write lock
	UnlockOnly()   // release write lock
	UnlockRender() // release write lock and request re-render
}

// State is the resolved route the application is showing.  The zero
// value means no route has been resolved yet.
type State struct {
	Path      string        // concrete path, params interpolated
	RouteName string        // name of the matched route
	View      ViewID        // view bound to the matched route
	Params    PathParamList // path parameter values
	Query     url.Values    // query values, nil if none
}

// Resolved reports whether s describes a matched route.
func (s State) Resolved() bool { return s.RouteName != "" }

// Address returns the path and query as shown in the address bar.
func (s State) Address() string {
	if q := s.Query.Encode(); q != "" {
		return s.Path + "?" + q
	}
	return s.Path
}

// Option configures a Router.
type Option func(r *Router)

// WithLogger sets the logger.  The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithEventEnv sets the environment locked around browser-initiated transitions.
func WithEventEnv(env EventEnv) Option {
	return func(r *Router) { r.eventEnv = env }
}

// WithDefaultPath sets the path resolved on Start when the host has no
// address yet.  It defaults to "/".
func WithDefaultPath(p string) Option {
	return func(r *Router) { r.defaultPath = p }
}

// Router keeps the active route and the visible address in sync.
// It is not safe for concurrent use; all calls are expected to come from
// the host's single event loop.
type Router struct {
	table       *RouteTable
	history     History
	eventEnv    EventEnv
	logger      *zap.Logger
	defaultPath string

	started bool
	closed  bool
	state   State

	listeners      []listenerEntry
	nextListenerID int
}

// New returns a Router over table that synchronizes with history.
// Nothing is resolved until Start is called.
func New(table *RouteTable, history History, opts ...Option) *Router {
	r := &Router{
		table:       table,
		history:     history,
		logger:      zap.NewNop(),
		defaultPath: "/",
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Start resolves the address the browser is showing (or the default path
// if there is none) and begins listening for back/forward transitions.
// It must be called exactly once, before any navigation.  If the initial
// address matches no route the router is still started but stays
// unresolved, and the error is returned.  A closed router cannot be
// started again.
func (r *Router) Start() (State, error) {

	if r.started || r.closed {
		return r.state, ErrAlreadyStarted
	}

	u, err := r.history.Location()
	if err != nil {
		return State{}, fmt.Errorf("reading initial address: %w", err)
	}

	target := r.defaultPath
	if u.Path != "" {
		target = u.String()
	}

	if err := r.history.Listen(r.handlePopState); err != nil {
		return State{}, fmt.Errorf("listening for history transitions: %w", err)
	}
	r.started = true

	r.logger.Info("router started", zap.String("address", target), zap.Int("routes", r.table.Len()))

	return r.apply(ToPath(target), DirectionNone, navOpts{NavReplace}, true)
}

// Close stops listening for history transitions.
func (r *Router) Close() error {
	if !r.started {
		return nil
	}
	r.started = false
	r.closed = true
	return r.history.Unlisten()
}

// MustNavigate is like Navigate but panics upon error.
func (r *Router) MustNavigate(intent Intent, opts ...NavigatorOpt) State {
	s, err := r.Navigate(intent, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Navigate resolves intent, updates the visible address and makes the
// matched route active.  On error nothing changes.  Navigating to the
// address already shown replaces the history entry instead of pushing a
// duplicate.
func (r *Router) Navigate(intent Intent, opts ...NavigatorOpt) (State, error) {
	if !r.started {
		return r.state, &NavigationError{Target: intent.String(), Err: ErrNotStarted}
	}
	return r.apply(intent, DirectionNone, navOpts(opts), true)
}

// HandleHistoryTransition re-resolves the address the browser has already
// moved to.  No history entry is written.  It is called by the browsing
// context on back/forward; hosts that drive history themselves may call
// it directly.
func (r *Router) HandleHistoryTransition(dir Direction) (State, error) {

	if !r.started {
		return r.state, &NavigationError{Err: ErrNotStarted}
	}

	u, err := r.history.Location()
	if err != nil {
		return r.state, fmt.Errorf("reading address after %s transition: %w", dir, err)
	}

	return r.apply(ToPath(u.String()), dir, nil, false)
}

func (r *Router) handlePopState(dir Direction) {

	if r.eventEnv != nil {
		r.eventEnv.Lock()
	}

	_, err := r.HandleHistoryTransition(dir)

	if r.eventEnv != nil {
		if err != nil {
			r.eventEnv.UnlockOnly()
			return
		}
		r.eventEnv.UnlockRender()
	}
}

// apply is the single place where state and address change.
func (r *Router) apply(intent Intent, dir Direction, opts navOpts, writeHistory bool) (State, error) {

	next, err := r.resolve(intent)
	if err != nil {
		r.logger.Warn("navigation not resolved",
			zap.Stringer("intent", intent),
			zap.Stringer("direction", dir),
			zap.Error(err))
		return r.state, &NavigationError{Target: intent.String(), Err: err}
	}

	replace := false
	if writeHistory {
		addr := next.Address()
		replace = opts.has(NavReplace) || (r.state.Resolved() && addr == r.state.Address())

		write := r.history.Push
		if replace {
			write = r.history.Replace
		}
		if err := write(addr); err != nil {
			r.logger.Warn("address update failed", zap.String("address", addr), zap.Error(err))
			return r.state, fmt.Errorf("updating address to %q: %w", addr, err)
		}
	}

	prev := r.state
	r.state = next

	r.logger.Debug("route resolved",
		zap.String("path", next.Path),
		zap.String("route", next.RouteName),
		zap.String("view", string(next.View)),
		zap.Stringer("direction", dir),
		zap.Bool("replace", replace))

	if !opts.has(NavSkipRender) {
		r.notify(Change{From: prev, To: next, Direction: dir, Replace: replace})
	}

	return next, nil
}

// resolve turns intent into a State without touching anything.
func (r *Router) resolve(intent Intent) (State, error) {

	switch {

	case intent.Name != "":
		e, ok := r.table.entryByName(intent.Name)
		if !ok {
			return State{}, fmt.Errorf("%w named %q", ErrNoMatchingRoute, intent.Name)
		}
		p, query, err := r.table.BuildPath(intent.Name, intent.Params)
		if err != nil {
			return State{}, err
		}
		params, _, _ := e.mpath.match(p)
		return State{
			Path:      p,
			RouteName: e.def.Name,
			View:      e.def.View,
			Params:    params,
			Query:     nilIfEmpty(query),
		}, nil

	case intent.Path != "":
		// the path is never parsed as a URL, "//x" is a path and not a host
		p, rawQuery, _ := strings.Cut(intent.Path, "?")
		p, _, _ = strings.Cut(p, "#")
		rawQuery, _, _ = strings.Cut(rawQuery, "#")
		query, err := url.ParseQuery(rawQuery)
		if err != nil {
			return State{}, fmt.Errorf("%w: query of %q: %v", ErrNoMatchingRoute, intent.Path, err)
		}
		m, err := r.table.ResolveByPath(p)
		if err != nil {
			return State{}, err
		}
		for k, v := range intent.Params {
			query[k] = append(query[k], v...)
		}
		return State{
			Path:      m.Path,
			RouteName: m.Route.Name,
			View:      m.Route.View,
			Params:    m.Params,
			Query:     nilIfEmpty(query),
		}, nil

	}

	return State{}, fmt.Errorf("%w: empty intent", ErrNoMatchingRoute)
}

// CurrentView returns the view the rendering surface should mount, or ""
// before the first route is resolved.
func (r *Router) CurrentView() ViewID { return r.state.View }

// State returns the active route state.
func (r *Router) State() State { return r.state }

// Resolved reports whether a route is active.
func (r *Router) Resolved() bool { return r.state.Resolved() }

// Table returns the route table the router resolves against.
func (r *Router) Table() *RouteTable { return r.table }

func nilIfEmpty(v url.Values) url.Values {
	if len(v) == 0 {
		return nil
	}
	return v
}
