// Package viewrouter is a client-side router for single-page applications
// built with Go and WebAssembly.
//
// A RouteTable binds path patterns and names to view identifiers.  A Router
// resolves navigation intents against the table, keeps the browser address
// in sync using path-based URLs (window.history, no hash fragment, no
// reload) and tells the rendering surface which view to mount:
//
//	table, err := viewrouter.NewRouteTable(
//		viewrouter.RouteDefinition{Path: "/", Name: "home", View: "RegisterEvent"},
//		viewrouter.RouteDefinition{Path: "/eventlist", Name: "event list", View: "EventList"},
//	)
//	if err != nil {
//		log.Fatal(err) // duplicate path or name
//	}
//	r := viewrouter.New(table, viewrouter.NewBrowserHistory(), viewrouter.WithEventEnv(env))
//	r.Subscribe(viewrouter.ChangeListenerFunc(func(c viewrouter.Change) {
//		root.Mount(c.To.View)
//	}))
//	if _, err := r.Start(); err != nil {
//		log.Print(err)
//	}
//
// Outside a browser, MemoryHistory stands in for window.history.
package viewrouter
