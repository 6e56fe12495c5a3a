package urls

import "net/http"

// Decorator wraps a handler with cross-cutting behaviour, e.g. an
// authentication check.
type Decorator func(http.Handler) http.Handler

// wrappable entries let [Require] replace their resolution in place.
type wrappable interface {
	resolver() resolveFunc
	setResolver(resolveFunc)
}

// Require makes every handler resolved through entries pass the
// decorators. Decorators are applied so the first one is the outermost
// wrapper: Require(entries, A, B) serves A(B(h)).
//
// *Route and *Include entries are modified in place and returned; other
// [Entry] implementations are returned unchanged.
func Require(entries []Entry, decorators ...Decorator) []Entry {
	for _, entry := range entries {
		w, ok := entry.(wrappable)
		if !ok {
			continue
		}

		resolve := w.resolver()
		w.setResolver(func(path string) (*Match, bool) {
			m, ok := resolve(path)
			if !ok || m.Handler == nil {
				return m, ok
			}
			m.Handler = Chain(m.Handler, decorators...)
			return m, true
		})
	}
	return entries
}

// Chain applies decorators to h, the first decorator being the outermost.
func Chain(h http.Handler, decorators ...Decorator) http.Handler {
	for i := len(decorators) - 1; i >= 0; i-- {
		h = decorators[i](h)
	}
	return h
}
