package routes_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"iteminsight/internal/core"
	"iteminsight/internal/routes"
)

func TestGuarded(t *testing.T) {
	t.Parallel()

	require.True(t, routes.Guarded(routes.Write))
	require.True(t, routes.Guarded(routes.MyPosts))
	require.True(t, routes.Guarded(routes.Bookmark))
	require.True(t, routes.Guarded(routes.Profile))
	require.True(t, routes.Guarded(routes.Password))

	require.False(t, routes.Guarded(routes.Home))
	require.False(t, routes.Guarded(routes.Login))
	require.False(t, routes.Guarded("/no-such-route"))
}

func TestResolve(t *testing.T) {
	t.Parallel()

	anonymous := core.Session{}
	signedIn := core.Session{IsAuthenticated: true, UserID: "u1"}

	t.Run("guarded routes redirect anonymous users to login", func(t *testing.T) {
		t.Parallel()

		for _, route := range []string{routes.Write, routes.MyPosts, routes.Bookmark, routes.Profile, routes.Password} {
			require.Equal(t, routes.Login, routes.Resolve(anonymous, route))
		}
	})

	t.Run("public routes pass through for everyone", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, routes.Home, routes.Resolve(anonymous, routes.Home))
		require.Equal(t, routes.Login, routes.Resolve(anonymous, routes.Login))
		require.Equal(t, routes.Home, routes.Resolve(signedIn, routes.Home))
	})

	t.Run("guarded routes pass through when signed in", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, routes.Write, routes.Resolve(signedIn, routes.Write))
		require.Equal(t, routes.Profile, routes.Resolve(signedIn, routes.Profile))
	})
}

func TestPostLogin(t *testing.T) {
	t.Parallel()

	// Login never returns to the originally requested route.
	require.Equal(t, routes.Home, routes.PostLogin())
}
