package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bjaus/apiop"
	"github.com/bjaus/apiop/oas"
	"github.com/bjaus/apiop/router"
	"github.com/bjaus/apiop/validate"
)

// Lab is a lab definition. Rev changes on every update.
type Lab struct {
	ID          string    `json:"_id,omitempty" doc:"Lab name" minLength:"1"`
	Rev         string    `json:"_rev,omitempty" doc:"Lab revision" minLength:"1"`
	Description string    `json:"description,omitempty" doc:"What the lab is about"`
	Image       string    `json:"image" required:"true" doc:"Container image" minLength:"1"`
	Timeout     int       `json:"timeout,omitempty" doc:"Session length in minutes" minimum:"1" maximum:"480"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// Instance is a running lab for one user.
type Instance struct {
	Lab       string    `json:"lab"`
	Username  string    `json:"username"`
	Rev       string    `json:"_rev"`
	StartedAt time.Time `json:"startedAt"`
}

type problem struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func example(status int, message string) oas.Response {
	return oas.Response{
		Description: http.StatusText(status),
		Content: map[string]oas.MediaType{
			"application/json": {Example: problem{Error: http.StatusText(status), Message: message}},
		},
	}
}

func jsonContent(s *oas.Schema) map[string]oas.MediaType {
	return map[string]oas.MediaType{"application/json": {Schema: s}}
}

var (
	labSchema = oas.SchemaFor[Lab]()
	revSchema = oas.String(1)

	labParam = oas.Parameter{
		In: oas.InPath, Name: "lab", Description: "Lab name", Required: true, Schema: oas.String(1),
	}
	usernameParam = oas.Parameter{
		In: oas.InPath, Name: "username", Description: "Username", Required: true, Schema: oas.String(1),
	}
	etagHeader = map[string]oas.Header{
		"etag": {Description: "Lab E-Tag", Schema: revSchema},
	}

	// labDefaults applies to every route under /lab.
	labDefaults = oas.Operation{
		Responses: oas.Responses{
			"400": {
				Description: "Request does not match the declared operation",
				Content:     jsonContent(oas.SchemaFor[[]validate.Finding]()),
			},
		},
	}
)

// labStore is an in-memory lab and instance store.
type labStore struct {
	mu        sync.RWMutex
	labs      map[string]*Lab
	instances map[string]*Instance
	revs      int
}

func newLabStore() *labStore {
	return &labStore{
		labs:      make(map[string]*Lab),
		instances: make(map[string]*Instance),
	}
}

func (s *labStore) list() []Lab {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Lab, 0, len(s.labs))
	for _, l := range s.labs {
		out = append(out, *l)
	}
	slices.SortFunc(out, func(a, b Lab) int { return strings.Compare(a.ID, b.ID) })
	return out
}

func (s *labStore) get(id string) (Lab, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.labs[id]
	if !ok {
		return Lab{}, false
	}
	return *l, true
}

// put stores lab under id. A non-empty ifMatch must equal the current
// revision; it returns 409 otherwise.
func (s *labStore) put(id, ifMatch string, lab Lab) (Lab, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.labs[id]; ok && ifMatch != "" && cur.Rev != ifMatch {
		return Lab{}, router.Error(http.StatusConflict, "Revision mismatch")
	}

	s.revs++
	lab.ID = id
	lab.Rev = fmt.Sprintf("%d-rev", s.revs)
	lab.UpdatedAt = time.Now().UTC()
	s.labs[id] = &lab
	return lab, nil
}

func (s *labStore) start(labID, username string) (Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lab, ok := s.labs[labID]
	if !ok {
		return Instance{}, router.Error(http.StatusNotFound, "Lab does not exist")
	}
	key := labID + "/" + username
	if _, exists := s.instances[key]; exists {
		return Instance{}, router.Error(http.StatusConflict, "Instance already exists")
	}
	inst := &Instance{Lab: labID, Username: username, Rev: lab.Rev, StartedAt: time.Now().UTC()}
	s.instances[key] = inst
	return *inst, nil
}

func (s *labStore) end(labID, username, ifMatch string) (Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := labID + "/" + username
	inst, ok := s.instances[key]
	if !ok {
		return Instance{}, router.Error(http.StatusNotFound, "Instance does not exist")
	}
	if ifMatch != "" && inst.Rev != ifMatch {
		return Instance{}, router.Error(http.StatusConflict, "Revision mismatch")
	}
	delete(s.instances, key)
	return *inst, nil
}

// labRoutes returns the /lab sub-router.
func labRoutes(store *labStore, opts ...apiop.Option) *router.Router {
	r := router.New()

	r.Get("/", apiop.Operation(oas.Operation{
		Tags:    []string{"Lab"},
		Summary: "List labs",
		Responses: oas.Responses{
			"200": {Description: "List of labs", Content: jsonContent(&oas.Schema{Type: "array", Items: labSchema})},
		},
	}, opts...), router.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, store.list())
	}))

	r.Get("/:lab", apiop.Operation(oas.Operation{
		Tags:       []string{"Lab"},
		Summary:    "Fetch lab",
		Parameters: []oas.Parameter{labParam},
		Responses: oas.Responses{
			"200": {Description: "The lab", Headers: etagHeader, Content: jsonContent(labSchema)},
			"404": example(http.StatusNotFound, "Lab does not exist"),
		},
	}, opts...), router.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		lab, ok := store.get(router.Param(req, "lab"))
		if !ok {
			writeExample(w, req, http.StatusNotFound)
			return
		}
		w.Header().Set("ETag", lab.Rev)
		writeJSON(w, http.StatusOK, lab)
	}))

	r.Put("/:lab", apiop.Operation(oas.Operation{
		Tags:    []string{"Lab"},
		Summary: "Update lab",
		Parameters: []oas.Parameter{labParam, {
			In: oas.InHeader, Name: "if-match", Description: "Lab E-Tag", Required: true, Schema: revSchema,
		}},
		RequestBody: &oas.RequestBody{Required: true, Content: jsonContent(labSchema)},
		Responses: oas.Responses{
			"200": {Description: "The updated lab", Headers: etagHeader, Content: jsonContent(labSchema)},
			"409": example(http.StatusConflict, "Revision mismatch"),
		},
	}, opts...), router.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var lab Lab
		if err := json.NewDecoder(req.Body).Decode(&lab); err != nil {
			router.Fail(w, req, router.Errorf(http.StatusBadRequest, "decode lab: %v", err))
			return
		}
		saved, err := store.put(router.Param(req, "lab"), req.Header.Get("If-Match"), lab)
		if err != nil {
			router.Fail(w, req, err)
			return
		}
		w.Header().Set("ETag", saved.Rev)
		writeJSON(w, http.StatusOK, saved)
	}))

	// Declarations shared by every instance route.
	r.UseAt("/:lab/instance/:username", apiop.Operation(oas.Operation{
		Tags:       []string{"Instance"},
		Parameters: []oas.Parameter{labParam, usernameParam},
		Responses: oas.Responses{
			"404": example(http.StatusNotFound, "Instance does not exist"),
		},
	}, opts...))

	r.Post("/:lab/instance/:username", apiop.Operation(oas.Operation{
		Summary: "Start lab",
		Responses: oas.Responses{
			"201": {Description: "Instance", Content: jsonContent(oas.SchemaFor[Instance]())},
			"409": example(http.StatusConflict, "Instance already exists"),
		},
	}, opts...), router.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		inst, err := store.start(router.Param(req, "lab"), router.Param(req, "username"))
		if err != nil {
			router.Fail(w, req, err)
			return
		}
		writeJSON(w, http.StatusCreated, inst)
	}))

	r.Delete("/:lab/instance/:username", apiop.Operation(oas.Operation{
		Summary: "End lab",
		Parameters: []oas.Parameter{{
			In: oas.InHeader, Name: "if-match", Description: "Instance E-Tag", Schema: revSchema,
		}},
		Responses: oas.Responses{
			"200": {Description: "Lab has been ended", Content: jsonContent(oas.SchemaFor[Instance]())},
			"409": example(http.StatusConflict, "Revision mismatch"),
		},
	}, opts...), router.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		inst, err := store.end(router.Param(req, "lab"), router.Param(req, "username"), req.Header.Get("If-Match"))
		if err != nil {
			router.Fail(w, req, err)
			return
		}
		writeJSON(w, http.StatusOK, inst)
	}))

	return r
}

// writeExample answers with the example the route declared for status.
func writeExample(w http.ResponseWriter, req *http.Request, status int) {
	op, ok := apiop.OperationFrom(req.Context())
	if !ok {
		router.Fail(w, req, router.Error(status, http.StatusText(status)))
		return
	}
	writeJSON(w, status, op.Responses[fmt.Sprint(status)].Content["application/json"].Example)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson,gosec // best-effort after WriteHeader
	json.NewEncoder(w).Encode(v)
}
