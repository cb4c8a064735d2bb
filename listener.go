package viewrouter

// Change describes one successful transition of the router state.
type Change struct {
	From      State
	To        State
	Direction Direction // DirectionNone for program-initiated navigation
	Replace   bool      // the history entry was replaced rather than pushed
}

// ChangeListener implementations are called after the active route changes.
// The rendering surface typically mounts Change.To.View in response.
type ChangeListener interface {
	RouteChanged(c Change)
}

// ChangeListenerFunc implements ChangeListener as a function.
type ChangeListenerFunc func(c Change)

// RouteChanged implements the ChangeListener interface.
func (f ChangeListenerFunc) RouteChanged(c Change) { f(c) }

type listenerEntry struct {
	id int
	l  ChangeListener
}

// Subscribe registers l to be called after every state change.  The
// returned function removes the subscription.
func (r *Router) Subscribe(l ChangeListener) (cancel func()) {
	r.nextListenerID++
	id := r.nextListenerID
	r.listeners = append(r.listeners, listenerEntry{id: id, l: l})
	return func() {
		for i := range r.listeners {
			if r.listeners[i].id == id {
				r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
				return
			}
		}
	}
}

func (r *Router) notify(c Change) {
	// copy so a listener may unsubscribe during the callback
	ls := make([]listenerEntry, len(r.listeners))
	copy(ls, r.listeners)
	for _, e := range ls {
		e.l.RouteChanged(c)
	}
}
