// Package routes gates navigation to authenticated-only views.
package routes

import "iteminsight/internal/core"

const (
	Home     = "/"
	Login    = "/login"
	Write    = "/write"
	MyPosts  = "/myposts"
	Bookmark = "/bookmark"
	Profile  = "/profile"
	Password = "/password"
)

var guarded = map[string]struct{}{
	Write:    {},
	MyPosts:  {},
	Bookmark: {},
	Profile:  {},
	Password: {},
}

// CanEnter is a pure function of session state.
func CanEnter(sess core.Session) bool {
	return sess.IsAuthenticated
}

func Guarded(route string) bool {
	_, ok := guarded[route]
	return ok
}

// Resolve returns the login route for guarded routes when the session
// is unauthenticated, the requested route otherwise. The original
// destination is not remembered across login, after logging in the
// user always lands on Home.
func Resolve(sess core.Session, route string) string {
	if Guarded(route) && !CanEnter(sess) {
		return Login
	}
	return route
}

// PostLogin is the fixed destination after a successful login.
func PostLogin() string {
	return Home
}
