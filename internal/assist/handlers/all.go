// Package handlers contains the rsfix assists.
package handlers

import "github.com/hargabyte/rsfix/internal/assist"

// All returns every assist in the order they are offered.
func All() []assist.Handler {
	return []assist.Handler{
		ConvertIfToFilter,
	}
}

// ByName returns the handler with the given id name.
func ByName(name string) (assist.Handler, bool) {
	for _, h := range All() {
		if h.ID.Name == name {
			return h, true
		}
	}
	return assist.Handler{}, false
}
