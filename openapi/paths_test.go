package openapi_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/apiop/oas"
	"github.com/bjaus/apiop/openapi"
	"github.com/bjaus/apiop/router"
)

// described is a pass-through chain unit carrying an operation.
type described struct {
	op oas.Operation
}

func (d described) Wrap(next http.Handler) http.Handler { return next }

func (d described) Operation() *oas.Operation { return &d.op }

func tagged(tags ...string) described {
	return described{op: oas.Operation{Tags: tags}}
}

var noop = router.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

func TestCollect_routes(t *testing.T) {
	t.Parallel()

	r := router.New()
	r.Get("/users", described{op: oas.Operation{Summary: "List users"}}, noop)
	r.Post("/users", described{op: oas.Operation{Summary: "Create user"}}, noop)
	r.Get("/users/:id/posts/:post", described{op: oas.Operation{Summary: "Get post"}}, noop)
	r.Get("/health", noop)
	r.Route("/items").
		Put(described{op: oas.Operation{Summary: "Put item"}}).
		Delete(noop)

	got := openapi.Collect(r.Stack())

	assert.Equal(t, openapi.Paths{
		"/users": {
			"get":  {Summary: "List users"},
			"post": {Summary: "Create user"},
		},
		"/users/{id}/posts/{post}": {
			"get": {Summary: "Get post"},
		},
		"/items": {
			"put": {Summary: "Put item"},
		},
	}, got)
}

func TestCollect_inheritance(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		build func(r *router.Router)
		path  string
		want  []string
	}{
		"root use applies everywhere": {
			build: func(r *router.Router) {
				r.Use(tagged("global"))
				r.Get("/a/b", tagged("route"))
			},
			path: "/a/b",
			want: []string{"global", "route"},
		},
		"prefix scope": {
			build: func(r *router.Router) {
				r.UseAt("/users", tagged("users"))
				r.UseAt("/users/:id", tagged("user"))
				r.Get("/users/:id", tagged("route"))
			},
			path: "/users/{id}",
			want: []string{"users", "user", "route"},
		},
		"segment boundary respected": {
			build: func(r *router.Router) {
				r.UseAt("/user", tagged("user"))
				r.Get("/users", tagged("route"))
			},
			path: "/users",
			want: []string{"route"},
		},
		"later use does not apply": {
			build: func(r *router.Router) {
				r.Get("/a", tagged("route"))
				r.Use(tagged("late"))
			},
			path: "/a",
			want: []string{"route"},
		},
		"fold in registration order across prefixes": {
			build: func(r *router.Router) {
				r.UseAt("/x", tagged("1"))
				r.Use(tagged("2"))
				r.UseAt("/x", tagged("3"))
				r.Get("/x", tagged("route"))
			},
			path: "/x",
			want: []string{"1", "2", "3", "route"},
		},
		"chain descriptors merge in order": {
			build: func(r *router.Router) {
				r.Get("/a", tagged("first"), noop, tagged("second"))
			},
			path: "/a",
			want: []string{"first", "second"},
		},
		"use without descriptor ignored": {
			build: func(r *router.Router) {
				r.Use(router.RequestID())
				r.Get("/a", tagged("route"))
			},
			path: "/a",
			want: []string{"route"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r := router.New()
			tc.build(r)

			got := openapi.Collect(r.Stack())

			require.Contains(t, got, tc.path)
			assert.Equal(t, tc.want, got[tc.path]["get"].Tags)
		})
	}
}

func TestCollect_inheritedOnlyIsNotEnough(t *testing.T) {
	t.Parallel()

	r := router.New()
	r.Use(tagged("global"))
	r.Get("/plain", noop)

	assert.Empty(t, openapi.Collect(r.Stack()))
}

func TestCollect_firstWins(t *testing.T) {
	t.Parallel()

	r := router.New()
	r.Get("/a", described{op: oas.Operation{Summary: "first"}})
	r.Get("/a", described{op: oas.Operation{Summary: "second"}})
	r.Get("/a/", described{op: oas.Operation{Summary: "third"}})

	got := openapi.Collect(r.Stack())

	assert.Equal(t, "first", got["/a"]["get"].Summary)
}

func TestCollect_mounts(t *testing.T) {
	t.Parallel()

	inner := router.New()
	inner.UseAt("/:id", tagged("inner"))
	inner.Get("/:id", tagged("route"))

	sub := router.New()
	sub.Get("/", tagged("index"))
	sub.Mount("/users", inner)
	sub.Use(tagged("sub late"))

	r := router.New()
	r.UseAt("/orgs/:org", tagged("org"))
	r.Mount("/orgs/:org", sub)
	r.Get("/orgs/:org/after", tagged("after"))

	got := openapi.Collect(r.Stack())

	assert.Equal(t, []string{"org", "index"}, got["/orgs/{org}"]["get"].Tags)
	assert.Equal(t, []string{"org", "inner", "route"}, got["/orgs/{org}/users/{id}"]["get"].Tags)
	assert.Equal(t, []string{"org", "sub late", "after"}, got["/orgs/{org}/after"]["get"].Tags)
}

func TestCollect_mergedFields(t *testing.T) {
	t.Parallel()

	r := router.New()
	r.UseAt("/nested-root/:something", described{op: oas.Operation{
		Tags:       []string{"Nested root"},
		Parameters: []oas.Parameter{{Name: "something", In: oas.InPath, Required: true, Schema: oas.String(3)}},
		Responses:  oas.Responses{"410": {Description: "Gone"}},
	}})
	r.Get("/nested-root/:something/nested-route/:something_else", described{op: oas.Operation{
		Tags:       []string{"Nested route"},
		Parameters: []oas.Parameter{{Name: "something_else", In: oas.InPath, Required: true, Schema: oas.String(3)}},
		Responses:  oas.Responses{"418": {Description: "Teapot"}},
	}})

	got := openapi.Collect(r.Stack())["/nested-root/{something}/nested-route/{something_else}"]["get"]

	assert.Equal(t, []string{"Nested root", "Nested route"}, got.Tags)
	require.Len(t, got.Parameters, 2)
	assert.Equal(t, "something", got.Parameters[0].Name)
	assert.Equal(t, "something_else", got.Parameters[1].Name)
	assert.Equal(t, oas.Responses{
		"410": {Description: "Gone"},
		"418": {Description: "Teapot"},
	}, got.Responses)
}

func TestCollect_specialCharacters(t *testing.T) {
	t.Parallel()

	r := router.New()
	r.Get(`/.#$-\$`, described{op: oas.Operation{Summary: "special"}})

	got := openapi.Collect(r.Stack())

	require.Contains(t, got, `/.#$-\$`)
	assert.Equal(t, "special", got[`/.#$-\$`]["get"].Summary)
}

func TestCollect_skipsUndecompilableLayers(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	sub := router.New()
	sub.Get("/inside", tagged("inside"))

	r := router.New()
	r.UseAt("/opt/:maybe?", tagged("skipped use"))
	r.Get("/opt/:maybe?", tagged("skipped route"))
	r.Mount("/files/*", sub)
	r.Get("/opt", tagged("kept"))

	got := openapi.Collect(r.Stack(), openapi.WithPathsLogger(logger))

	assert.Equal(t, openapi.Paths{
		"/opt": {"get": {Tags: []string{"kept"}}},
	}, got)
	assert.Contains(t, logs.String(), "skipping layer")
	assert.Contains(t, logs.String(), "path=/files/*")
}

func TestCollect_rootRoute(t *testing.T) {
	t.Parallel()

	r := router.New()
	r.Get("/", described{op: oas.Operation{Summary: "root"}})

	got := openapi.Collect(r.Stack())

	assert.Equal(t, "root", got[""]["get"].Summary)
}

func TestCollect_independentCalls(t *testing.T) {
	t.Parallel()

	r := router.New()
	r.Use(tagged("global"))
	r.Get("/a", tagged("route"))

	first := openapi.Collect(r.Stack())
	second := openapi.Collect(r.Stack())

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"global", "route"}, second["/a"]["get"].Tags)
}

func TestCollect_skippedLayerStillServes(t *testing.T) {
	t.Parallel()

	r := router.New()
	r.Get("/files/:name(\\w+)", tagged("files"), router.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/report", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, openapi.Collect(r.Stack()))
}

func TestCollect_nestedMounts(t *testing.T) {
	t.Parallel()

	gone := described{op: oas.Operation{Responses: oas.Responses{"410": {Description: "Gone"}}}}
	teapot := described{op: oas.Operation{Responses: oas.Responses{"418": {Description: "Teapot"}}}}

	c := router.New()
	c.Get("/c", teapot)
	b := router.New()
	b.Mount("/b", c)
	a := router.New()
	a.UseAt("/a", gone)
	a.Mount("/a", b)

	got := openapi.Collect(a.Stack())

	assert.Equal(t, openapi.Paths{
		"/a/b/c": {"get": {Responses: oas.Responses{
			"410": {Description: "Gone"},
			"418": {Description: "Teapot"},
		}}},
	}, got)
}
