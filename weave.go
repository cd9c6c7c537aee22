package nasc

import (
	"fmt"

	"go.uber.org/zap"
)

// weave offers each local component to the local aspect handlers in
// registration order. The first handler that wants a component produces its
// advised instance; later handlers are not asked. Slots are then rewired so
// they hold advised instances.
func (c *Container) weave(generator ProxyGenerator) error {
	locals := c.local.Values()

	var handlers []*Component
	for _, component := range locals {
		if _, ok := component.instance.(AspectHandler); ok {
			component.handler = true
			handlers = append(handlers, component)
		}
	}
	if len(handlers) == 0 {
		return nil
	}
	c.logger.Debug("Weaving aspects", zap.Int("handlers", len(handlers)))

	for _, component := range locals {
		for _, h := range handlers {
			if h == component {
				continue
			}

			handler := h.instance.(AspectHandler)
			wants, err := wantsToIntercept(handler, component)
			if err != nil {
				return &ProxyError{Type: component.typ, Handler: h.typ, Cause: err}
			}
			if !wants {
				continue
			}

			advised, err := generator.MakeAdvised(component.typ, component.instance, handler)
			if err != nil {
				return &ProxyError{Type: component.typ, Handler: h.typ, Cause: err}
			}
			if advised == nil {
				return &ProxyError{Type: component.typ, Handler: h.typ, Cause: fmt.Errorf("generator returned nil")}
			}

			component.advised = advised
			c.observer.ComponentAdvised(component, h)
			c.logger.Info("Component advised",
				zap.Stringer("type", component.typ),
				zap.Stringer("handler", h.typ),
			)
			break
		}
	}

	return c.rewire()
}

func wantsToIntercept(handler AspectHandler, component *Component) (wants bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("WantsToIntercept panicked: %v", r)
		}
	}()
	return handler.WantsToIntercept(component.typ), nil
}
