package nasc

import (
	"go.uber.org/zap"
)

// wire fills every dependency slot with the effective instance of the
// component that satisfies it.
func (c *Container) wire() error {
	for _, e := range c.edges {
		target, ok := c.lookup(e.slot.Type)
		if !ok {
			if e.slot.Optional {
				c.logger.Debug("Optional slot left unset",
					zap.Stringer("owner", e.owner.typ),
					zap.String("slot", e.slot.Name),
					zap.Stringer("required", e.slot.Type),
				)
				continue
			}
			return &UnresolvedDependencyError{
				Owner:    e.owner.typ,
				Slot:     e.slot.Name,
				Required: e.slot.Type,
			}
		}

		e.target = target
		if err := c.assign(e); err != nil {
			return err
		}
	}
	return nil
}

// rewire re-assigns every slot whose owner or target gained an advised
// instance. Values are written into the raw owner.
func (c *Container) rewire() error {
	for _, e := range c.edges {
		if e.target == nil {
			continue
		}
		if e.owner.advised == nil && e.target.advised == nil {
			continue
		}
		if err := c.assign(e); err != nil {
			return err
		}
	}
	return nil
}

func (c *Container) assign(e *edge) error {
	if err := c.setter.Assign(e.slot, e.owner.instance, e.target.Effective()); err != nil {
		return &InjectionError{Owner: e.owner.typ, Slot: e.slot.Name, Cause: err}
	}
	c.logger.Debug("Slot wired",
		zap.Stringer("owner", e.owner.typ),
		zap.String("slot", e.slot.Name),
		zap.Stringer("target", e.target.typ),
		zap.Bool("advised", e.target.advised != nil),
	)
	return nil
}
