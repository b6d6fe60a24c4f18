package routes

import (
	"github.com/gofiber/fiber/v2"
)

// View handles every request routed to a single path pattern.
type View interface {
	// Methods lists the HTTP methods the view serves. Others get 405 from the router.
	Methods() []string
	Dispatch(c *fiber.Ctx) error
}

// Checker is implemented by views that can report whether they were fully
// constructed. A typed nil pointer stored in a View is not == nil, so Build asks.
type Checker interface {
	Check() error
}

// Route binds a literal path pattern to a view.
type Route struct {
	Pattern    string
	Name       string
	View       View
	Middleware []fiber.Handler
}

type Option func(*Route)

func WithName(name string) Option {
	return func(r *Route) { r.Name = name }
}

func WithMiddleware(handlers ...fiber.Handler) Option {
	return func(r *Route) { r.Middleware = append(r.Middleware, handlers...) }
}

// Path declares a route. Patterns are relative, e.g. "oauth/login/".
func Path(pattern string, view View, opts ...Option) Route {
	r := Route{Pattern: pattern, View: view}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Namespace groups routes so their names can be reversed as "namespace:name".
type Namespace struct {
	Name   string
	Routes []Route
}

// Include mounts a namespace under a URL prefix.
type Include struct {
	Prefix    string
	Namespace Namespace
}
