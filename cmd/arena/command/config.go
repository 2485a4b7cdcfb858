package command

import (
	"fmt"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-arena/internal/protocol"
)

type Config struct {
	Codec     string           `json:"codec"`
	Listeners []ListenerConfig `json:"listeners"`
	Nats      NatsConfig       `json:"nats"`
	Arena     ArenaConfig      `json:"arena"`
	Storage   StorageConfig    `json:"storage"`
	Metrics   MetricsConfig    `json:"metrics"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if _, err := protocol.CodecFor(c.Codec); err != nil {
		el.Add(fmt.Errorf("codec: %w", err))
	}

	if len(c.Listeners) == 0 {
		el.Add(fmt.Errorf("at least one listener is required"))
	}
	for i, l := range c.Listeners {
		err := l.validate()
		if err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.Nats.validate())
	el.Add(c.Arena.validate())
	el.Add(c.Storage.validate())
	el.Add(c.Metrics.validate())

	return el.Err()
}
