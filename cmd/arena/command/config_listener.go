package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-arena/internal/listener"
)

type ListenerConfig struct {
	Addr         string `json:"addr"`
	Path         string `json:"path,omitempty"`
	ReadLimit    int64  `json:"read_limit,omitempty"`
	QueueSize    int    `json:"queue_size,omitempty"`
	PingInterval string `json:"ping_interval,omitempty"`
	StallTimeout string `json:"stall_timeout,omitempty"`
}

func (cl *ListenerConfig) validate() error {
	el := errors.NewErrorList()

	if cl.Addr == "" {
		el.Add(fmt.Errorf("addr is required"))
	}
	if cl.Path != "" && cl.Path[0] != '/' {
		el.Add(fmt.Errorf("path must start with /"))
	}
	if cl.ReadLimit < 0 {
		el.Add(fmt.Errorf("read_limit must not be negative"))
	}
	if cl.QueueSize < 0 {
		el.Add(fmt.Errorf("queue_size must not be negative"))
	}
	if cl.PingInterval != "" {
		if _, err := time.ParseDuration(cl.PingInterval); err != nil {
			el.Add(fmt.Errorf("parsing ping_interval: %w", err))
		}
	}
	if cl.StallTimeout != "" {
		if _, err := time.ParseDuration(cl.StallTimeout); err != nil {
			el.Add(fmt.Errorf("parsing stall_timeout: %w", err))
		}
	}

	return el.Err()
}

func (cl *ListenerConfig) managerOpts() ([]listener.ConnectionManagerOpt, error) {
	var opts []listener.ConnectionManagerOpt
	if cl.QueueSize > 0 {
		opts = append(opts, listener.WithQueueSize(cl.QueueSize))
	}
	if cl.PingInterval != "" {
		d, err := time.ParseDuration(cl.PingInterval)
		if err != nil {
			return nil, fmt.Errorf("parsing ping_interval: %w", err)
		}
		opts = append(opts, listener.WithPingInterval(d))
	}
	if cl.StallTimeout != "" {
		d, err := time.ParseDuration(cl.StallTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing stall_timeout: %w", err)
		}
		opts = append(opts, listener.WithStallTimeout(d))
	}
	return opts, nil
}

func (cl *ListenerConfig) BuildListener(cm *listener.ConnectionManager, opts ...listener.WebsocketListenerOpt) *listener.WebsocketListener {
	if cl.Path != "" {
		opts = append(opts, listener.WithPath(cl.Path))
	}
	if cl.ReadLimit > 0 {
		opts = append(opts, listener.WithReadLimit(cl.ReadLimit))
	}
	return listener.NewWebsocketListener(cl.Addr, cm, opts...)
}
