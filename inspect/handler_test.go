package inspect

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	nasc "github.com/toutaio/toutago-nasc-container"
)

type repo struct{}

type service struct {
	Repo *repo `inject:""`
}

func (s *service) PostConstruct() {}

func newServer(t *testing.T) (*httptest.Server, *nasc.Container) {
	t.Helper()

	c, err := nasc.Build([]reflect.Type{nasc.TypeOf[*service]()})
	require.NoError(t, err)
	require.NoError(t, c.Initialize())

	srv := httptest.NewServer(NewHandler(c, nil).Routes())
	t.Cleanup(srv.Close)
	return srv, c
}

func TestHandler_ListComponents(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/components")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var views []ComponentView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&views))
	require.Len(t, views, 2)

	assert.Equal(t, "*inspect.service", views[0].Type)
	assert.True(t, views[0].Local)
	assert.Equal(t, "done", views[0].PostConstruct)
	assert.Equal(t, "none", views[0].PreDestroy)
	assert.Equal(t, "*inspect.repo", views[1].Type)
}

func TestHandler_GetComponent(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/components/*inspect.repo")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var view ComponentView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Equal(t, "*inspect.repo", view.Type)

	missing, err := http.Get(srv.URL + "/components/unknown")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestHandler_GetGraph(t *testing.T) {
	srv, c := newServer(t)

	t.Run("json", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/graph")
		require.NoError(t, err)
		defer resp.Body.Close()

		var g nasc.Graph
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&g))
		assert.Equal(t, c.Graph(), g)
	})

	t.Run("yaml", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/graph?format=yaml")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, "application/yaml", resp.Header.Get("Content-Type"))

		var g nasc.Graph
		require.NoError(t, yaml.NewDecoder(resp.Body).Decode(&g))
		assert.Equal(t, c.Graph(), g)
	})
}
