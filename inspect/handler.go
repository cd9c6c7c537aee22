// Package inspect serves a read-only HTTP view of a container.
//
// Routes:
//
//	GET /components          every visible component and its hook states
//	GET /components/{type}   one component, looked up by type name
//	GET /graph               the wiring graph as JSON, or YAML with ?format=yaml
package inspect

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	nasc "github.com/toutaio/toutago-nasc-container"
)

// ComponentView is the JSON form of one component.
type ComponentView struct {
	Type          string `json:"type"`
	Local         bool   `json:"local"`
	AspectHandler bool   `json:"aspect_handler"`
	Advised       bool   `json:"advised"`
	PostConstruct string `json:"post_construct"`
	PreDestroy    string `json:"pre_destroy"`
}

// Handler exposes a container over HTTP.
type Handler struct {
	container *nasc.Container
	logger    *zap.Logger
}

// NewHandler creates a Handler for c.
func NewHandler(c *nasc.Container, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		container: c,
		logger:    logger.With(zap.String("container", c.ID())),
	}
}

// Routes returns a router with every inspection route mounted at its root.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/components", h.ListComponents)
	r.Get("/components/{type}", h.GetComponent)
	r.Get("/graph", h.GetGraph)
	return r
}

// ListComponents handles GET /components
func (h *Handler) ListComponents(w http.ResponseWriter, r *http.Request) {
	components := h.container.Components()
	views := make([]ComponentView, 0, len(components))
	for _, c := range components {
		views = append(views, toView(c))
	}
	h.respondJSON(w, http.StatusOK, views)
}

// GetComponent handles GET /components/{type}
func (h *Handler) GetComponent(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "type")
	for _, c := range h.container.Components() {
		if c.Type().String() == name {
			h.respondJSON(w, http.StatusOK, toView(c))
			return
		}
	}
	h.respondError(w, http.StatusNotFound, "Component not found")
}

// GetGraph handles GET /graph
func (h *Handler) GetGraph(w http.ResponseWriter, r *http.Request) {
	graph := h.container.Graph()

	if r.URL.Query().Get("format") != "yaml" {
		h.respondJSON(w, http.StatusOK, graph)
		return
	}

	data, err := graph.YAML()
	if err != nil {
		h.logger.Error("Failed to encode graph", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to encode graph")
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("Failed to write response", zap.Error(err))
	}
}

func toView(c *nasc.Component) ComponentView {
	return ComponentView{
		Type:          c.Type().String(),
		Local:         c.IsLocal(),
		AspectHandler: c.IsAspectHandler(),
		Advised:       c.AdvisedInstance() != nil,
		PostConstruct: hookState(c, nasc.PhasePostConstruct),
		PreDestroy:    hookState(c, nasc.PhasePreDestroy),
	}
}

func hookState(c *nasc.Component, phase nasc.Phase) string {
	hook := c.PostConstructHook()
	if phase == nasc.PhasePreDestroy {
		hook = c.PreDestroyHook()
	}
	if hook == nil {
		return "none"
	}
	return c.State(phase).String()
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn("Failed to write response", zap.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
