package openapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"sigs.k8s.io/yaml"

	"github.com/bjaus/apiop/router"
)

// Version is the OpenAPI version of generated documents.
const Version = "3.0.3"

// Document is a generated OpenAPI document.
type Document struct {
	OpenAPI string   `json:"openapi"`
	Info    Info     `json:"info"`
	Servers []Server `json:"servers,omitempty"`
	Paths   Paths    `json:"paths"`
}

// Info holds API metadata.
type Info struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`
}

// Server is an API server entry.
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Generator builds documents from a router.
type Generator struct {
	info    Info
	servers []Server
	log     *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithTitle sets the API title.
func WithTitle(title string) Option {
	return func(g *Generator) {
		g.info.Title = title
	}
}

// WithVersion sets the API version.
func WithVersion(version string) Option {
	return func(g *Generator) {
		g.info.Version = version
	}
}

// WithDescription sets the API description.
func WithDescription(desc string) Option {
	return func(g *Generator) {
		g.info.Description = desc
	}
}

// WithServers sets the server list.
func WithServers(servers ...Server) Option {
	return func(g *Generator) {
		g.servers = servers
	}
}

// WithLogger sets the logger that receives skipped-layer reports.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		g.log = l
	}
}

// NewGenerator creates a Generator. Title and version default to "API" and "0.0.0".
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		info: Info{Title: "API", Version: "0.0.0"},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Document generates the document for r's current routes. The root route,
// whose template is empty, is listed as "/".
//
// Operations are emitted as declared. An operation that declares no responses
// is kept, although OpenAPI requires them; Check reports it.
func (g *Generator) Document(r *router.Router) Document {
	var opts []PathsOption
	if g.log != nil {
		opts = append(opts, WithPathsLogger(g.log))
	}

	paths := Collect(r.Stack(), opts...)
	if ops, ok := paths[""]; ok {
		delete(paths, "")
		if _, taken := paths["/"]; !taken {
			paths["/"] = ops
		}
	}

	return Document{
		OpenAPI: Version,
		Info:    g.info,
		Servers: g.servers,
		Paths:   paths,
	}
}

// ServeSpec registers a GET route on r serving g's document for r as JSON.
// The document is regenerated on every request.
func ServeSpec(r *router.Router, pattern string, g *Generator) {
	r.Get(pattern, router.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort after WriteHeader
		WriteJSON(w, g.Document(r))
	}))
}

// ServeSpecYAML registers a GET route on r serving g's document for r as YAML.
func ServeSpecYAML(r *router.Router, pattern string, g *Generator) {
	r.Get(pattern, router.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		b, err := yaml.Marshal(g.Document(r))
		if err != nil {
			router.Fail(w, req, err)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		//nolint:errcheck,gosec // best-effort after WriteHeader
		w.Write(b)
	}))
}

// WriteJSON writes doc as indented JSON to w.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteYAML writes doc as YAML to w.
func WriteYAML(w io.Writer, doc Document) error {
	b, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
