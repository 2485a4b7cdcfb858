package command

import (
	"context"
	"fmt"

	"github.com/pixil98/go-service"

	"github.com/pixil98/go-arena/internal/arena"
	"github.com/pixil98/go-arena/internal/listener"
	"github.com/pixil98/go-arena/internal/messaging"
	"github.com/pixil98/go-arena/internal/metrics"
	"github.com/pixil98/go-arena/internal/protocol"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	codec, err := protocol.CodecFor(cfg.Codec)
	if err != nil {
		return nil, err
	}

	shapes, err := cfg.Storage.BuildShapes()
	if err != nil {
		return nil, fmt.Errorf("building shapes: %w", err)
	}

	arenaCfg, err := cfg.Arena.BuildConfig()
	if err != nil {
		return nil, fmt.Errorf("building arena config: %w", err)
	}

	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	recorder := metrics.NewRecorder()

	a, err := arena.New(context.Background(), arenaCfg, messaging.NewNatsPublisher(natsServer),
		arena.WithShapes(shapes),
		arena.WithCodec(codec),
		arena.WithRecorder(recorder),
	)
	if err != nil {
		return nil, fmt.Errorf("creating arena: %w", err)
	}

	// Create Listeners
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		opts, err := l.managerOpts()
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		opts = append(opts, listener.WithCodec(codec), listener.WithRecorder(recorder))
		cm := listener.NewConnectionManager(a, natsServer, opts...)
		listeners[fmt.Sprintf("listener-%d", i)] = l.BuildListener(cm, listener.WithReadyCheck(natsServer.WaitReady))
	}

	workers := service.WorkerList{
		"nats":      natsServer,
		"arena":     a,
		"listeners": &listeners,
	}
	if cfg.Metrics.Addr != "" {
		workers["metrics"] = metrics.NewServer(cfg.Metrics.Addr, recorder)
	}

	return workers, nil
}
