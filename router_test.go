package viewrouter

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newStartedRouter(t *testing.T, initial string, opts ...Option) (*Router, *MemoryHistory) {
	t.Helper()
	rt, err := NewRouteTable(append(eventRoutes(),
		RouteDefinition{Path: "/event/:id", Name: "event", View: viewEventDetail},
	)...)
	require.NoError(t, err)
	h := NewMemoryHistory(initial)
	r := New(rt, h, opts...)
	_, err = r.Start()
	require.NoError(t, err)
	return r, h
}

func TestRouterStart(t *testing.T) {

	tlist := []struct {
		initial string
		path    string
		view    ViewID
	}{
		{"", "/", viewRegisterEvent},
		{"/", "/", viewRegisterEvent},
		{"/eventlist", "/eventlist", viewEventList},
		{"/event/9?tab=1", "/event/9", viewEventDetail},
	}

	for _, ti := range tlist {
		t.Run(ti.initial, func(t *testing.T) {
			r, h := newStartedRouter(t, ti.initial)
			assert.True(t, r.Resolved())
			assert.Equal(t, ti.path, r.State().Path)
			assert.Equal(t, ti.view, r.CurrentView())
			assert.Len(t, h.Entries(), 1, "start must not push an entry")
		})
	}
}

func TestRouterStartTwice(t *testing.T) {
	r, _ := newStartedRouter(t, "/")
	_, err := r.Start()
	assert.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestRouterStartUnknownAddress(t *testing.T) {
	r := New(MustRouteTable(eventRoutes()...), NewMemoryHistory("/nowhere"))

	s, err := r.Start()
	assert.ErrorIs(t, err, ErrNoMatchingRoute)
	assert.False(t, s.Resolved())
	assert.Equal(t, ViewID(""), r.CurrentView())

	// the host may still navigate somewhere explicit
	s, err = r.Navigate(ToPath("/"))
	require.NoError(t, err)
	assert.Equal(t, viewRegisterEvent, s.View)
}

func TestRouterStartDefaultPath(t *testing.T) {
	r := New(MustRouteTable(eventRoutes()...), NewMemoryHistory(""), WithDefaultPath("/eventlist"))
	s, err := r.Start()
	require.NoError(t, err)
	assert.Equal(t, "/eventlist", s.Path)
}

func TestRouterNavigateBeforeStart(t *testing.T) {
	r := New(MustRouteTable(eventRoutes()...), NewMemoryHistory("/"))
	_, err := r.Navigate(ToPath("/eventlist"))
	assert.ErrorIs(t, err, ErrNotStarted)
	assert.False(t, r.Resolved())
}

func TestRouterNavigateEveryPath(t *testing.T) {
	r, h := newStartedRouter(t, "/")
	for _, def := range eventRoutes() {
		s, err := r.Navigate(ToPath(def.Path))
		require.NoError(t, err)
		assert.Equal(t, def.View, r.CurrentView())
		assert.Equal(t, def.Name, s.RouteName)
		assert.Equal(t, def.Path, h.Entries()[h.Index()])
	}
}

func TestRouterNavigateScenario(t *testing.T) {
	r, h := newStartedRouter(t, "/")

	s, err := r.Navigate(ToPath("/eventlist"))
	require.NoError(t, err)
	assert.Equal(t, State{Path: "/eventlist", RouteName: "event list", View: viewEventList}, s)
	assert.Equal(t, s, r.State())
	assert.Equal(t, []string{"/", "/eventlist"}, h.Entries())

	loc, err := h.Location()
	require.NoError(t, err)
	assert.Equal(t, "/eventlist", loc.String())
}

func TestRouterNavigateByName(t *testing.T) {
	r, h := newStartedRouter(t, "/")

	for _, def := range eventRoutes() {
		want, err := r.Table().ResolveByName(def.Name)
		require.NoError(t, err)
		s, err := r.Navigate(ToName(def.Name, nil))
		require.NoError(t, err)
		assert.Equal(t, want.Name, s.RouteName)
		assert.Equal(t, want.View, s.View)
		assert.Equal(t, want.Path, s.Path)
	}

	s, err := r.Navigate(ToName("event", url.Values{"id": {"12"}, "tab": {"members"}}))
	require.NoError(t, err)
	assert.Equal(t, "/event/12", s.Path)
	assert.Equal(t, "12", s.Params.ByName("id"))
	assert.Equal(t, "/event/12?tab=members", h.Entries()[h.Index()])
}

func TestRouterNavigateMatchesResolveByPath(t *testing.T) {

	tlist := []struct {
		in    string
		path  string
		query url.Values
	}{
		{"//eventlist", "/eventlist", nil},
		{"//eventlist?tab=1", "/eventlist", url.Values{"tab": {"1"}}},
		{"/eventlist/../event/3", "/event/3", nil},
		{"/event/a%20b", "/event/a%20b", nil},
		{"/eventlist#top", "/eventlist", nil},
	}

	for _, ti := range tlist {
		t.Run(ti.in, func(t *testing.T) {
			r, h := newStartedRouter(t, "/")

			path, _, _ := strings.Cut(ti.in, "?")
			path, _, _ = strings.Cut(path, "#")
			want, err := r.Table().ResolveByPath(path)
			require.NoError(t, err)

			s, err := r.Navigate(ToPath(ti.in))
			require.NoError(t, err)
			assert.Equal(t, want.Route.Name, s.RouteName)
			assert.Equal(t, want.Route.View, s.View)
			assert.Equal(t, ti.path, s.Path)
			assert.Equal(t, ti.query, s.Query)
			assert.Equal(t, s.Address(), h.Entries()[h.Index()])
		})
	}
}

func TestRouterNavigateIdempotent(t *testing.T) {
	r, h := newStartedRouter(t, "/")

	s1, err := r.Navigate(ToPath("/eventlist"))
	require.NoError(t, err)
	s2, err := r.Navigate(ToPath("/eventlist"))
	require.NoError(t, err)

	assert.Equal(t, s1, s2)
	assert.Equal(t, []string{"/", "/eventlist"}, h.Entries())
}

func TestRouterNavigateFailureIsolation(t *testing.T) {
	r, h := newStartedRouter(t, "/")
	_, err := r.Navigate(ToPath("/eventlist"))
	require.NoError(t, err)

	before := r.State()
	calls := 0
	r.Subscribe(ChangeListenerFunc(func(Change) { calls++ }))

	for _, in := range []Intent{
		ToPath("/does-not-exist"),
		ToPath("/event/%zz"),
		ToPath("/eventlist?tab=%zz"),
		ToName("missing", nil),
		ToName("event", nil),
		{},
	} {
		s, err := r.Navigate(in)
		require.Error(t, err)
		assert.Equal(t, before, s)
		assert.Equal(t, before, r.State())

		var navErr *NavigationError
		assert.True(t, errors.As(err, &navErr))
	}

	_, err = r.Navigate(ToPath("/does-not-exist"))
	assert.ErrorIs(t, err, ErrNoMatchingRoute)
	_, err = r.Navigate(ToName("event", nil))
	assert.ErrorIs(t, err, ErrMissingParam)
	_, err = r.Navigate(ToPath("/event/%zz"))
	assert.ErrorIs(t, err, ErrNoMatchingRoute)
	_, err = r.Navigate(ToPath("/eventlist?tab=%zz"))
	assert.ErrorIs(t, err, ErrNoMatchingRoute)

	assert.Equal(t, []string{"/", "/eventlist"}, h.Entries())
	assert.Zero(t, calls)
}

func TestRouterNavigateReplace(t *testing.T) {
	r, h := newStartedRouter(t, "/")

	var changes []Change
	r.Subscribe(ChangeListenerFunc(func(c Change) { changes = append(changes, c) }))

	_, err := r.Navigate(ToPath("/eventlist"), NavReplace)
	require.NoError(t, err)
	assert.Equal(t, []string{"/eventlist"}, h.Entries())
	require.Len(t, changes, 1)
	assert.True(t, changes[0].Replace)
	assert.Equal(t, "/", changes[0].From.Path)
	assert.Equal(t, "/eventlist", changes[0].To.Path)
}

func TestRouterNavigateSkipRender(t *testing.T) {
	r, _ := newStartedRouter(t, "/")

	calls := 0
	r.Subscribe(ChangeListenerFunc(func(Change) { calls++ }))

	_, err := r.Navigate(ToPath("/eventlist"), NavSkipRender)
	require.NoError(t, err)
	assert.Equal(t, viewEventList, r.CurrentView())
	assert.Zero(t, calls)
}

func TestRouterBackForward(t *testing.T) {
	r, h := newStartedRouter(t, "/")

	var dirs []Direction
	r.Subscribe(ChangeListenerFunc(func(c Change) { dirs = append(dirs, c.Direction) }))

	_, err := r.Navigate(ToPath("/eventlist"))
	require.NoError(t, err)

	require.True(t, h.Back())
	assert.Equal(t, "/", r.State().Path)
	assert.Equal(t, viewRegisterEvent, r.CurrentView())

	require.True(t, h.Forward())
	assert.Equal(t, "/eventlist", r.State().Path)
	assert.Equal(t, viewEventList, r.CurrentView())

	assert.Equal(t, []Direction{DirectionNone, DirectionBack, DirectionForward}, dirs)
	assert.Equal(t, []string{"/", "/eventlist"}, h.Entries(), "transitions must not write history")
}

func TestRouterHistoryTransitionUnknownAddress(t *testing.T) {
	r, h := newStartedRouter(t, "/")
	require.NoError(t, h.Push("/gone"))
	_, err := r.Navigate(ToPath("/eventlist"))
	require.NoError(t, err)

	before := r.State()
	require.True(t, h.Back())
	assert.Equal(t, before, r.State())

	_, err = r.HandleHistoryTransition(DirectionBack)
	assert.ErrorIs(t, err, ErrNoMatchingRoute)
}

type fakeEnv struct {
	locks, unlockOnly, unlockRender int
}

func (e *fakeEnv) Lock()         { e.locks++ }
func (e *fakeEnv) UnlockOnly()   { e.unlockOnly++ }
func (e *fakeEnv) UnlockRender() { e.unlockRender++ }

func TestRouterEventEnv(t *testing.T) {
	env := &fakeEnv{}
	r, h := newStartedRouter(t, "/", WithEventEnv(env))

	_, err := r.Navigate(ToPath("/eventlist"))
	require.NoError(t, err)
	assert.Zero(t, env.locks, "program navigation runs under the caller's lock")

	require.True(t, h.Back())
	assert.Equal(t, 1, env.locks)
	assert.Equal(t, 1, env.unlockRender)

	require.NoError(t, h.Push("/gone"))
	require.True(t, h.Back())
	require.True(t, h.Forward())
	assert.Equal(t, 3, env.locks)
	assert.Equal(t, 1, env.unlockOnly)
}

func TestRouterClose(t *testing.T) {
	r, h := newStartedRouter(t, "/")
	_, err := r.Navigate(ToPath("/eventlist"))
	require.NoError(t, err)

	require.NoError(t, r.Close())
	require.True(t, h.Back())
	assert.Equal(t, "/eventlist", r.State().Path)

	_, err = r.Navigate(ToPath("/"))
	assert.ErrorIs(t, err, ErrNotStarted)

	_, err = r.Start()
	assert.ErrorIs(t, err, ErrAlreadyStarted)
	assert.Equal(t, "/eventlist", r.State().Path)
}

func TestRouterUnsubscribe(t *testing.T) {
	r, _ := newStartedRouter(t, "/")

	calls := 0
	cancel := r.Subscribe(ChangeListenerFunc(func(Change) { calls++ }))
	r.MustNavigate(ToPath("/eventlist"))
	cancel()
	r.MustNavigate(ToPath("/"))
	assert.Equal(t, 1, calls)

	assert.Panics(t, func() { r.MustNavigate(ToPath("/does-not-exist")) })
}

func TestRouterLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r, _ := newStartedRouter(t, "/", WithLogger(zap.New(core)))

	_, err := r.Navigate(ToPath("/does-not-exist"))
	require.Error(t, err)

	assert.Equal(t, 1, logs.FilterMessage("router started").Len())
	assert.Equal(t, 1, logs.FilterMessage("navigation not resolved").Len())
	assert.Equal(t, 1, logs.FilterMessage("route resolved").Len())
}

type navView struct {
	NavigatorRef
}

func TestNavigatorRef(t *testing.T) {
	r, _ := newStartedRouter(t, "/")

	var v navView
	var setter NavigatorSetter = &v
	setter.NavigatorSet(r)

	_, err := v.Navigate(ToName("event list", nil))
	require.NoError(t, err)
	assert.Equal(t, viewEventList, r.CurrentView())
}
