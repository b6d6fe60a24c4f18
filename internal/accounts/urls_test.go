package accounts

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/abisalde/accounts-service/internal/routes"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeView struct {
	name string
}

func (v *fakeView) Methods() []string { return []string{fiber.MethodGet, fiber.MethodPost} }

func (v *fakeView) Dispatch(c *fiber.Ctx) error { return c.SendString(v.name) }

func TestURLPatterns_SocialLogin(t *testing.T) {
	view := &fakeView{name: "social-login"}
	table, err := routes.Build(routes.Include{Prefix: "api/accounts/", Namespace: URLPatterns(view)})
	require.NoError(t, err)

	entry, ok := table.Resolve("/api/accounts/oauth/login/")
	require.True(t, ok)
	assert.Same(t, view, entry.View)
	assert.Equal(t, AppName, entry.Namespace)
	assert.Empty(t, entry.Name)
	assert.Len(t, table.Entries(), 1)

	for _, path := range []string{
		"/api/accounts/oauth/logout/",
		"/api/accounts/oauth/login",
		"/api/accounts/oauth/login/extra/",
	} {
		_, ok := table.Resolve(path)
		assert.False(t, ok, path)
	}
}

func TestURLPatterns_UnnamedRouteHasNoReverse(t *testing.T) {
	table, err := routes.Build(routes.Include{Prefix: "api/accounts/", Namespace: URLPatterns(&fakeView{})})
	require.NoError(t, err)

	_, err = table.Reverse("accounts:")
	assert.ErrorIs(t, err, routes.ErrNoReverseMatch)
}

func TestURLPatterns_RegisteredTwiceFailsStartup(t *testing.T) {
	ns := URLPatterns(&fakeView{})
	ns.Routes = append(ns.Routes, routes.Path(SocialLoginPattern, &fakeView{}))

	_, err := routes.Build(routes.Include{Prefix: "api/accounts/", Namespace: ns})
	assert.ErrorIs(t, err, routes.ErrDuplicatePattern)
}

func TestURLPatterns_NilViewFailsStartup(t *testing.T) {
	_, err := routes.Build(routes.Include{Prefix: "api/accounts/", Namespace: URLPatterns(nil)})
	assert.ErrorIs(t, err, routes.ErrUnresolvedView)
}

func TestURLPatterns_Dispatch(t *testing.T) {
	table, err := routes.Build(routes.Include{Prefix: "api/accounts/", Namespace: URLPatterns(&fakeView{name: "social-login"})})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{StrictRouting: true, CaseSensitive: true})
	table.Mount(app)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/api/accounts/oauth/login/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "social-login", string(body))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/accounts/oauth/logout/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
