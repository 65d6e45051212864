package internal_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mallo-web/mallo/internal"
)

func okHandler(r *internal.Request, p internal.Params) (any, error) {
	return "ok", nil
}

func otherHandler(r *internal.Request, p internal.Params) (any, error) {
	return "other", nil
}

func TestRouter_StaticMatch(t *testing.T) {
	t.Parallel()

	rt := internal.NewRouter()
	require.NoError(t, rt.Add("/about", okHandler))

	_, params, ok := rt.Match("/about", "GET")
	require.True(t, ok)
	require.Empty(t, params)

	_, _, ok = rt.Match("/about/", "GET")
	require.False(t, ok)

	_, _, ok = rt.Match("/about", "POST")
	require.False(t, ok)
}

func TestRouter_TypedParams(t *testing.T) {
	t.Parallel()

	rt := internal.NewRouter()
	require.NoError(t, rt.Add("/post/<int:id>", okHandler))
	require.NoError(t, rt.Add("/price/<float:amount>", okHandler))
	require.NoError(t, rt.Add("/file/<path:name>", okHandler))
	require.NoError(t, rt.Add("/user/<name>", okHandler))

	_, params, ok := rt.Match("/post/123", "GET")
	require.True(t, ok)
	require.Equal(t, 123, params["id"])
	require.Equal(t, 123, params.Int("id"))

	// A fraction does not satisfy the int class.
	_, _, ok = rt.Match("/post/12.5", "GET")
	require.False(t, ok)

	_, params, ok = rt.Match("/price/12.5", "GET")
	require.True(t, ok)
	require.Equal(t, 12.5, params["amount"])

	_, params, ok = rt.Match("/price/12", "GET")
	require.True(t, ok)
	require.Equal(t, 12.0, params["amount"])

	// path placeholders match across slashes.
	_, params, ok = rt.Match("/file/docs/guide.pdf", "GET")
	require.True(t, ok)
	require.Equal(t, "docs/guide.pdf", params["name"])

	// str placeholders stop at slashes.
	_, params, ok = rt.Match("/user/ada", "GET")
	require.True(t, ok)
	require.Equal(t, "ada", params.String("name"))

	_, _, ok = rt.Match("/user/ada/extra", "GET")
	require.False(t, ok)
}

func TestRouter_FirstRegisteredWins(t *testing.T) {
	t.Parallel()

	rt := internal.NewRouter()
	require.NoError(t, rt.Add("/item/<name>", okHandler))
	require.NoError(t, rt.Add("/item/<int:id>", otherHandler))

	// "/item/42" matches both templates; registration order decides.
	h, params, ok := rt.Match("/item/42", "GET")
	require.True(t, ok)
	require.Equal(t, "42", params["name"])

	result, err := h(nil, params)
	require.NoError(t, err)
	require.Equal(t, "ok", result)
}

func TestRouter_MultipleMethods(t *testing.T) {
	t.Parallel()

	rt := internal.NewRouter()
	require.NoError(t, rt.Add("/submit", okHandler, "GET", "POST"))
	require.Equal(t, 2, rt.Routes())

	_, _, ok := rt.Match("/submit", "POST")
	require.True(t, ok)
	_, _, ok = rt.Match("/submit", "GET")
	require.True(t, ok)
}

func TestRouter_RegistrationErrors(t *testing.T) {
	t.Parallel()

	rt := internal.NewRouter()

	err := rt.Add("/x", okHandler, "BREW")
	require.ErrorIs(t, err, internal.ErrUnknownMethod)

	err = rt.Add("/pair/<a>/<a>", okHandler)
	require.ErrorIs(t, err, internal.ErrDuplicateParam)
}

func TestRouter_URLFor(t *testing.T) {
	t.Parallel()

	rt := internal.NewRouter()
	require.NoError(t, rt.Add("/user/<int:id>", okHandler))
	require.NoError(t, rt.Add("/user/<int:id>/posts/<slug>", okHandler))

	url, err := rt.URLFor("okHandler", map[string]any{"id": 5})
	require.NoError(t, err)
	require.Equal(t, "/user/5", url)

	// Round-trip: a reconstructed URL matches back to the same params.
	_, params, ok := rt.Match(url, "GET")
	require.True(t, ok)
	require.Equal(t, 5, params["id"])

	_, err = rt.URLFor("okHandler", map[string]any{})
	require.ErrorIs(t, err, internal.ErrMissingURLParam)

	_, err = rt.URLFor("nopeHandler", map[string]any{})
	require.ErrorIs(t, err, internal.ErrHandlerNotFound)

	// Substituted values are not validated against the placeholder type.
	url, err = rt.URLFor("okHandler", map[string]any{"id": "abc"})
	require.NoError(t, err)
	require.Equal(t, "/user/abc", url)
	_, _, ok = rt.Match(url, "GET")
	require.False(t, ok)
}
