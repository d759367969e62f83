// Package origin tags a context with the surface that started a backend call,
// so metrics and logs can tell browser uploads from terminal runs.
//
// Usage:
//
//	ctx = origin.With(ctx, origin.CLI)
//	o := origin.FromContext(ctx) // Web if not set
package origin

import "context"

// Origin names the surface an analysis request came from.
type Origin string

const (
	// Web is an upload submitted from the browser page. It is the default.
	Web Origin = "web"

	// CLI is a file analyzed with rhetoric-cli.
	CLI Origin = "cli"
)

func (o Origin) String() string {
	return string(o)
}

type contextKey struct{}

// With returns a copy of ctx carrying o.
func With(ctx context.Context, o Origin) context.Context {
	return context.WithValue(ctx, contextKey{}, o)
}

// FromContext returns the origin stored in ctx, or Web.
func FromContext(ctx context.Context) Origin {
	if o, ok := ctx.Value(contextKey{}).(Origin); ok {
		return o
	}
	return Web
}
