package web

import "net/http"

// redirectNavigator turns a navigation into an HTTP redirect.
type redirectNavigator struct {
	w      http.ResponseWriter
	r      *http.Request
	status int
}

func (n redirectNavigator) Navigate(target string) {
	http.Redirect(n.w, n.r, target, n.status)
}
