package viewrouter

import (
	"net/url"

	"github.com/vugu/vugu/js"
)

// stateIndexKey is the key under which the entry position is stored in
// window.history.state so popstate can tell back from forward.
const stateIndexKey = "viewrouterIdx"

// BrowserHistory implements History on top of window.history using
// path-based URLs (history mode).  Outside a js environment every method
// returns ErrNoBrowser.
type BrowserHistory struct {
	index        int
	popStateFunc js.Func
}

// NewBrowserHistory returns a BrowserHistory bound to the global window.
func NewBrowserHistory() *BrowserHistory {
	b := &BrowserHistory{}
	h := b.history()
	if !h.Truthy() {
		return b
	}
	// resume the entry position after a reload
	if st := h.Get("state"); st.Truthy() {
		if idx := st.Get(stateIndexKey); !idx.IsUndefined() {
			b.index = idx.Int()
		}
	}
	return b
}

func (b *BrowserHistory) window() js.Value {
	g := js.Global()
	if !g.Truthy() {
		return js.Value{}
	}
	return g.Get("window")
}

func (b *BrowserHistory) history() js.Value {
	w := b.window()
	if !w.Truthy() {
		return js.Value{}
	}
	return w.Get("history")
}

// Location implements History.  Only the path and query of the address are returned.
func (b *BrowserHistory) Location() (*url.URL, error) {

	w := b.window()
	if !w.Truthy() {
		return nil, ErrNoBrowser
	}

	u, err := url.Parse(w.Get("location").Call("toString").String())
	if err != nil {
		return nil, err
	}

	return &url.URL{Path: u.Path, RawQuery: u.RawQuery}, nil
}

// Push implements History.
func (b *BrowserHistory) Push(pathAndQuery string) error {
	h := b.history()
	if !h.Truthy() {
		return ErrNoBrowser
	}
	b.index++
	h.Call("pushState", map[string]interface{}{stateIndexKey: b.index}, "", pathAndQuery)
	return nil
}

// Replace implements History.
func (b *BrowserHistory) Replace(pathAndQuery string) error {
	h := b.history()
	if !h.Truthy() {
		return ErrNoBrowser
	}
	h.Call("replaceState", map[string]interface{}{stateIndexKey: b.index}, "", pathAndQuery)
	return nil
}

// Listen implements History by adding a popstate listener to window.
func (b *BrowserHistory) Listen(f func(Direction)) error {

	w := b.window()
	if !w.Truthy() {
		return ErrNoBrowser
	}

	if !b.popStateFunc.IsUndefined() {
		return errListenerSet
	}

	jf := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		dir := DirectionNone
		if len(args) > 0 {
			if st := args[0].Get("state"); st.Truthy() {
				if idx := st.Get(stateIndexKey); !idx.IsUndefined() {
					n := idx.Int()
					switch {
					case n < b.index:
						dir = DirectionBack
					case n > b.index:
						dir = DirectionForward
					}
					b.index = n
				}
			}
		}
		f(dir)
		return nil
	})

	w.Call("addEventListener", "popstate", jf)

	b.popStateFunc = jf

	return nil
}

// Unlisten implements History.
func (b *BrowserHistory) Unlisten() error {

	w := b.window()
	if !w.Truthy() {
		return ErrNoBrowser
	}

	if b.popStateFunc.IsUndefined() {
		return errListenerNotSet
	}

	w.Call("removeEventListener", "popstate", b.popStateFunc)

	b.popStateFunc.Release()
	b.popStateFunc = js.Func{}

	return nil
}
