package routes

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubView struct {
	body    string
	methods []string
}

func (v *stubView) Methods() []string { return v.methods }

func (v *stubView) Dispatch(c *fiber.Ctx) error {
	return c.SendString(v.body)
}

// checkedView reports itself unresolved when it is a typed nil.
type checkedView struct{}

func (v *checkedView) Methods() []string { return []string{fiber.MethodGet} }

func (v *checkedView) Dispatch(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) }

func (v *checkedView) Check() error {
	if v == nil {
		return errors.New("view not constructed")
	}
	return nil
}

func newStub(body string) *stubView {
	return &stubView{body: body, methods: []string{fiber.MethodGet, fiber.MethodPost}}
}

func newApp(t *testing.T, table *Table) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{StrictRouting: true, CaseSensitive: true})
	table.Mount(app)
	return app
}

func TestBuild_ResolvesLiteralPath(t *testing.T) {
	login := newStub("login")
	other := newStub("other")

	table, err := Build(Include{
		Prefix: "api/accounts/",
		Namespace: Namespace{Name: "accounts", Routes: []Route{
			Path("oauth/login/", login),
			Path("oauth/logout/", other, WithName("logout")),
		}},
	})
	require.NoError(t, err)

	entry, ok := table.Resolve("/api/accounts/oauth/login/")
	require.True(t, ok)
	assert.Same(t, login, entry.View)
	assert.Equal(t, "accounts", entry.Namespace)
	assert.Equal(t, "oauth/login/", entry.Pattern)

	for _, path := range []string{
		"/api/accounts/oauth/login",
		"/api/accounts/oauth/login/extra/",
		"/api/accounts/OAUTH/login/",
		"/oauth/login/",
	} {
		_, ok := table.Resolve(path)
		assert.False(t, ok, path)
	}

	entry, ok = table.Resolve("/api/accounts/oauth/logout/")
	require.True(t, ok)
	assert.Same(t, other, entry.View)
}

func TestBuild_RegistrationErrors(t *testing.T) {
	view := newStub("x")

	tests := []struct {
		name     string
		includes []Include
		want     error
	}{
		{
			name: "nil view",
			includes: []Include{{Prefix: "a/", Namespace: Namespace{Name: "accounts", Routes: []Route{
				Path("oauth/login/", nil),
			}}}},
			want: ErrUnresolvedView,
		},
		{
			name: "typed nil view",
			includes: []Include{{Prefix: "a/", Namespace: Namespace{Name: "accounts", Routes: []Route{
				Path("oauth/login/", (*checkedView)(nil)),
			}}}},
			want: ErrUnresolvedView,
		},
		{
			name: "view without methods",
			includes: []Include{{Prefix: "a/", Namespace: Namespace{Name: "accounts", Routes: []Route{
				Path("oauth/login/", &stubView{}),
			}}}},
			want: ErrUnresolvedView,
		},
		{
			name: "duplicate pattern in namespace",
			includes: []Include{{Prefix: "a/", Namespace: Namespace{Name: "accounts", Routes: []Route{
				Path("oauth/login/", view),
				Path("oauth/login/", newStub("y")),
			}}}},
			want: ErrDuplicatePattern,
		},
		{
			name: "duplicate mounted path across namespaces",
			includes: []Include{
				{Prefix: "a/", Namespace: Namespace{Name: "accounts", Routes: []Route{Path("oauth/login/", view)}}},
				{Prefix: "a/", Namespace: Namespace{Name: "social", Routes: []Route{Path("oauth/login/", view)}}},
			},
			want: ErrDuplicatePattern,
		},
		{
			name: "duplicate name",
			includes: []Include{{Prefix: "a/", Namespace: Namespace{Name: "accounts", Routes: []Route{
				Path("oauth/login/", view, WithName("login")),
				Path("oauth/logout/", view, WithName("login")),
			}}}},
			want: ErrDuplicateName,
		},
		{
			name: "duplicate namespace",
			includes: []Include{
				{Prefix: "a/", Namespace: Namespace{Name: "accounts"}},
				{Prefix: "b/", Namespace: Namespace{Name: "accounts"}},
			},
			want: ErrDuplicateNamespace,
		},
		{
			name: "parameter capture",
			includes: []Include{{Prefix: "a/", Namespace: Namespace{Name: "accounts", Routes: []Route{
				Path("oauth/:provider/", view),
			}}}},
			want: ErrInvalidPattern,
		},
		{
			name: "wildcard",
			includes: []Include{{Prefix: "a/", Namespace: Namespace{Name: "accounts", Routes: []Route{
				Path("oauth/*", view),
			}}}},
			want: ErrInvalidPattern,
		},
		{
			name: "absolute pattern",
			includes: []Include{{Prefix: "a/", Namespace: Namespace{Name: "accounts", Routes: []Route{
				Path("/oauth/login/", view),
			}}}},
			want: ErrInvalidPattern,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Build(tt.includes...)
			assert.Nil(t, table)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestBuild_CheckedViewAccepted(t *testing.T) {
	table, err := Build(Include{Prefix: "a/", Namespace: Namespace{Name: "accounts", Routes: []Route{
		Path("oauth/login/", &checkedView{}),
	}}})
	require.NoError(t, err)

	_, ok := table.Resolve("/a/oauth/login/")
	assert.True(t, ok)
}

func TestReverse(t *testing.T) {
	table, err := Build(Include{
		Prefix: "/api/accounts",
		Namespace: Namespace{Name: "accounts", Routes: []Route{
			Path("oauth/login/", newStub("login")),
			Path("oauth/logout/", newStub("logout"), WithName("logout")),
		}},
	})
	require.NoError(t, err)

	path, err := table.Reverse("accounts:logout")
	require.NoError(t, err)
	assert.Equal(t, "/api/accounts/oauth/logout/", path)

	_, err = table.Reverse("accounts:")
	assert.ErrorIs(t, err, ErrNoReverseMatch)
	_, err = table.Reverse("other:logout")
	assert.ErrorIs(t, err, ErrNoReverseMatch)
}

func TestMount_DispatchesOnlyExactPath(t *testing.T) {
	table, err := Build(Include{
		Prefix: "api/accounts/",
		Namespace: Namespace{Name: "accounts", Routes: []Route{
			Path("oauth/login/", newStub("login")),
			Path("oauth/logout/", newStub("logout")),
		}},
	})
	require.NoError(t, err)
	app := newApp(t, table)

	tests := []struct {
		method string
		path   string
		status int
		body   string
	}{
		{fiber.MethodGet, "/api/accounts/oauth/login/", fiber.StatusOK, "login"},
		{fiber.MethodPost, "/api/accounts/oauth/login/", fiber.StatusOK, "login"},
		{fiber.MethodGet, "/api/accounts/oauth/logout/", fiber.StatusOK, "logout"},
		{fiber.MethodGet, "/api/accounts/oauth/login", fiber.StatusNotFound, ""},
		{fiber.MethodGet, "/api/accounts/oauth/login/extra/", fiber.StatusNotFound, ""},
		{fiber.MethodGet, "/oauth/login/", fiber.StatusNotFound, ""},
		{fiber.MethodDelete, "/api/accounts/oauth/login/", fiber.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tt.method, tt.path, nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.body != "" {
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Equal(t, tt.body, string(body))
			}
		})
	}
}

func TestMount_RemovedRouteFallsThrough(t *testing.T) {
	table, err := Build(Include{
		Prefix:    "api/accounts/",
		Namespace: Namespace{Name: "accounts", Routes: []Route{Path("oauth/logout/", newStub("logout"))}},
	})
	require.NoError(t, err)
	app := newApp(t, table)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/accounts/oauth/login/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestMount_RouteMiddlewareRunsFirst(t *testing.T) {
	var order []string
	mw := func(c *fiber.Ctx) error {
		order = append(order, "middleware")
		return c.Next()
	}
	view := &recordingView{order: &order}

	table, err := Build(Include{
		Prefix:    "",
		Namespace: Namespace{Name: "accounts", Routes: []Route{Path("oauth/login/", view, WithMiddleware(mw))}},
	})
	require.NoError(t, err)
	app := newApp(t, table)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/oauth/login/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"middleware", "view"}, order)
}

type recordingView struct {
	order *[]string
}

func (v *recordingView) Methods() []string { return []string{fiber.MethodGet} }

func (v *recordingView) Dispatch(c *fiber.Ctx) error {
	*v.order = append(*v.order, "view")
	return c.SendStatus(fiber.StatusOK)
}
