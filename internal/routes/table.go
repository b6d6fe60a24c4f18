package routes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrUnresolvedView     = errors.New("route view cannot be resolved")
	ErrInvalidPattern     = errors.New("invalid route pattern")
	ErrDuplicatePattern   = errors.New("duplicate route pattern")
	ErrDuplicateName      = errors.New("duplicate route name")
	ErrDuplicateNamespace = errors.New("duplicate namespace")
	ErrNoReverseMatch     = errors.New("no reverse match")
)

// Entry is a route resolved against its mount prefix.
type Entry struct {
	Namespace string
	Name      string
	Pattern   string
	Path      string
	View      View
	route     Route
}

// Table is the immutable set of mounted routes. Build it once at startup.
type Table struct {
	entries  []Entry
	byPath   map[string]int
	reversed map[string]string
}

// Build validates and assembles the route table. Any error is a startup failure.
func Build(includes ...Include) (*Table, error) {
	t := &Table{
		byPath:   make(map[string]int),
		reversed: make(map[string]string),
	}
	seenNamespaces := make(map[string]bool)

	for _, inc := range includes {
		ns := inc.Namespace
		if seenNamespaces[ns.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateNamespace, ns.Name)
		}
		seenNamespaces[ns.Name] = true

		prefix, err := normalizePrefix(inc.Prefix)
		if err != nil {
			return nil, err
		}

		patterns := make(map[string]bool, len(ns.Routes))
		names := make(map[string]bool, len(ns.Routes))
		for _, r := range ns.Routes {
			if err := validatePattern(r.Pattern); err != nil {
				return nil, fmt.Errorf("%s: %w", ns.Name, err)
			}
			if err := resolveView(r.View); err != nil {
				return nil, fmt.Errorf("%w: %s:%s: %v", ErrUnresolvedView, ns.Name, r.Pattern, err)
			}
			if patterns[r.Pattern] {
				return nil, fmt.Errorf("%w: %q in namespace %q", ErrDuplicatePattern, r.Pattern, ns.Name)
			}
			patterns[r.Pattern] = true

			full := prefix + r.Pattern
			if _, exists := t.byPath[full]; exists {
				return nil, fmt.Errorf("%w: %q", ErrDuplicatePattern, full)
			}

			if r.Name != "" {
				if names[r.Name] {
					return nil, fmt.Errorf("%w: %s:%s", ErrDuplicateName, ns.Name, r.Name)
				}
				names[r.Name] = true
				t.reversed[qualify(ns.Name, r.Name)] = full
			}

			t.byPath[full] = len(t.entries)
			t.entries = append(t.entries, Entry{
				Namespace: ns.Name,
				Name:      r.Name,
				Pattern:   r.Pattern,
				Path:      full,
				View:      r.View,
				route:     r,
			})
		}
	}

	return t, nil
}

// Resolve returns the entry whose mounted path equals path exactly.
func (t *Table) Resolve(path string) (Entry, bool) {
	i, ok := t.byPath[path]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Reverse maps "namespace:name" to the mounted path.
func (t *Table) Reverse(qualifiedName string) (string, error) {
	if path, ok := t.reversed[qualifiedName]; ok {
		return path, nil
	}
	return "", fmt.Errorf("%w for %q", ErrNoReverseMatch, qualifiedName)
}

func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Mount registers every entry on the router, one handler chain per served method.
// The app must use StrictRouting so trailing slashes stay significant.
func (t *Table) Mount(router fiber.Router) {
	for _, e := range t.entries {
		handlers := make([]fiber.Handler, 0, len(e.route.Middleware)+1)
		handlers = append(handlers, e.route.Middleware...)
		handlers = append(handlers, e.View.Dispatch)
		for _, method := range e.View.Methods() {
			router.Add(strings.ToUpper(method), e.Path, handlers...)
		}
	}
}

func resolveView(view View) error {
	if view == nil {
		return fmt.Errorf("nil view")
	}
	if checker, ok := view.(Checker); ok {
		if err := checker.Check(); err != nil {
			return err
		}
	}
	if len(view.Methods()) == 0 {
		return fmt.Errorf("view serves no methods")
	}
	return nil
}

func qualify(namespace, name string) string {
	return namespace + ":" + name
}

func normalizePrefix(prefix string) (string, error) {
	prefix = strings.Trim(prefix, "/")
	if strings.ContainsAny(prefix, ":*+?") {
		return "", fmt.Errorf("%w: prefix %q", ErrInvalidPattern, prefix)
	}
	if prefix == "" {
		return "/", nil
	}
	return "/" + prefix + "/", nil
}

func validatePattern(pattern string) error {
	switch {
	case pattern == "":
		return fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	case strings.HasPrefix(pattern, "/"):
		return fmt.Errorf("%w: %q must be relative", ErrInvalidPattern, pattern)
	case strings.ContainsAny(pattern, ":*+?<>"):
		return fmt.Errorf("%w: %q must be a literal path", ErrInvalidPattern, pattern)
	case strings.Contains(pattern, "//"):
		return fmt.Errorf("%w: %q has an empty segment", ErrInvalidPattern, pattern)
	}
	return nil
}
