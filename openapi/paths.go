package openapi

import (
	"io"
	"log/slog"
	"strings"

	"github.com/bjaus/apiop/internal/pathtemplate"
	"github.com/bjaus/apiop/oas"
	"github.com/bjaus/apiop/router"
)

// Describer is implemented by handlers that declare an OpenAPI operation.
type Describer interface {
	Operation() *oas.Operation
}

// Paths maps an OpenAPI path template to its operations keyed by lower-case
// method.
type Paths map[string]map[string]oas.Operation

// PathsOption configures Collect.
type PathsOption func(*walker)

// WithPathsLogger reports skipped layers at debug level.
func WithPathsLogger(l *slog.Logger) PathsOption {
	return func(w *walker) {
		w.log = l
	}
}

// activeOp is an operation declared by a use layer, in scope at prefix and
// everything below it.
type activeOp struct {
	prefix string
	op     oas.Operation
}

// walker holds the state of one Collect call.
type walker struct {
	out    Paths
	active []activeOp
	log    *slog.Logger
}

// Collect walks layers in registration order and returns the operation declared
// for every (path, method) pair. A route's operation is its chain's
// descriptors merged over every use-layer descriptor registered before it at
// an enclosing prefix. The first route registered for a pair wins. Layers
// whose pattern cannot be expressed as a path template are skipped along with
// everything mounted under them.
func Collect(layers []router.Layer, opts ...PathsOption) Paths {
	w := &walker{
		out: Paths{},
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.walk(layers, "")
	return w.out
}

func (w *walker) walk(layers []router.Layer, prefix string) {
	for _, l := range layers {
		p := l.Pattern()
		tmpl, err := pathtemplate.Decompile(p.Source(), p.KeyNames())
		if err != nil {
			w.log.Debug("openapi: skipping layer",
				slog.String("prefix", prefix),
				slog.String("path", p.Path()),
				slog.Any("error", err),
			)
			continue
		}
		path := prefix + tmpl

		switch l := l.(type) {
		case *router.RouteLayer:
			w.route(l.Route(), path)
		case *router.MountLayer:
			w.walk(l.Stack(), path)
		case *router.UseLayer:
			if d, ok := l.Handler().(Describer); ok {
				if op := d.Operation(); op != nil {
					w.active = append(w.active, activeOp{prefix: path, op: *op})
				}
			}
		}
	}
}

func (w *walker) route(rt *router.Route, path string) {
	inherited := w.inherited(path)

	for _, method := range rt.Methods() {
		if _, seen := w.out[path][method]; seen {
			continue
		}

		op, found := inherited, false
		for _, h := range rt.Chain(method) {
			d, ok := h.(Describer)
			if !ok || d.Operation() == nil {
				continue
			}
			op = oas.Merge(op, *d.Operation())
			found = true
		}
		if !found {
			continue
		}

		if w.out[path] == nil {
			w.out[path] = map[string]oas.Operation{}
		}
		w.out[path][method] = op
	}
}

// inherited folds every active operation in scope at path, earliest first.
func (w *walker) inherited(path string) oas.Operation {
	var op oas.Operation
	for _, a := range w.active {
		if path == a.prefix || strings.HasPrefix(path, a.prefix+"/") {
			op = oas.Merge(op, a.op)
		}
	}
	return op
}
