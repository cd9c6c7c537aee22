package nasc

import (
	"reflect"

	"gopkg.in/yaml.v3"
)

// Graph is a structural snapshot of a container: which components exist and
// how their slots were wired. It carries no instances and no container ID,
// so containers built from the same roots produce equal graphs.
type Graph struct {
	Components []GraphNode `yaml:"components" json:"components"`
}

// GraphNode describes one component. Slots are listed only for local
// components; inherited ones were wired by their parent.
type GraphNode struct {
	Type          string      `yaml:"type" json:"type"`
	Local         bool        `yaml:"local" json:"local"`
	AspectHandler bool        `yaml:"aspect_handler,omitempty" json:"aspect_handler,omitempty"`
	Advised       bool        `yaml:"advised,omitempty" json:"advised,omitempty"`
	Slots         []GraphSlot `yaml:"slots,omitempty" json:"slots,omitempty"`
	PostConstruct *GraphHook  `yaml:"post_construct,omitempty" json:"post_construct,omitempty"`
	PreDestroy    *GraphHook  `yaml:"pre_destroy,omitempty" json:"pre_destroy,omitempty"`
}

// GraphSlot describes one dependency slot. Target is empty for an optional
// slot nothing satisfied.
type GraphSlot struct {
	Name     string `yaml:"name" json:"name"`
	Requires string `yaml:"requires" json:"requires"`
	Target   string `yaml:"target,omitempty" json:"target,omitempty"`
	Optional bool   `yaml:"optional,omitempty" json:"optional,omitempty"`
}

// GraphHook describes a lifecycle hook.
type GraphHook struct {
	Method    string   `yaml:"method" json:"method"`
	DependsOn []string `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
}

// Graph returns the structural snapshot of c in merged order.
func (c *Container) Graph() Graph {
	slots := make(map[*Component][]GraphSlot)
	for _, e := range c.edges {
		s := GraphSlot{
			Name:     e.slot.Name,
			Requires: e.slot.Type.String(),
			Optional: e.slot.Optional,
		}
		if e.target != nil {
			s.Target = e.target.typ.String()
		}
		slots[e.owner] = append(slots[e.owner], s)
	}

	g := Graph{Components: make([]GraphNode, 0, c.merged.Len())}
	for _, component := range c.merged.Values() {
		g.Components = append(g.Components, GraphNode{
			Type:          component.typ.String(),
			Local:         component.local,
			AspectHandler: component.handler,
			Advised:       component.advised != nil,
			Slots:         slots[component],
			PostConstruct: graphHook(component.descriptor.PostConstruct),
			PreDestroy:    graphHook(component.descriptor.PreDestroy),
		})
	}
	return g
}

// YAML encodes the graph as YAML.
func (g Graph) YAML() ([]byte, error) {
	return yaml.Marshal(g)
}

func graphHook(hook *Hook) *GraphHook {
	if hook == nil {
		return nil
	}
	return &GraphHook{Method: hook.Name, DependsOn: typeNames(hook.DependsOn)}
}

func typeNames(types []reflect.Type) []string {
	if len(types) == 0 {
		return nil
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}
