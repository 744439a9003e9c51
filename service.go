package main

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/wamphlett/status-lights/config"
	"github.com/wamphlett/status-lights/pkg/controller"
	"github.com/wamphlett/status-lights/pkg/metrics"
	"github.com/wamphlett/status-lights/pkg/mqtt"
	"github.com/wamphlett/status-lights/pkg/panel"
	"github.com/wamphlett/status-lights/pkg/sampler"
)

// openLights opens the lighting hardware, replaced in tests
var openLights = openHardware

// service is everything the run command drives
type service struct {
	cfg *config.Config

	hw        *hardware
	lights    *controller.Controller
	recorder  *metrics.Recorder
	publisher *mqtt.Publisher
	sampler   *sampler.Sampler
}

// newService opens the hardware and connects the publishers. Nothing is
// started, so a failure here leaves no goroutine behind and releases what
// was already opened.
func newService(cfg *config.Config) (_ *service, err error) {
	hw, err := openLights(cfg.Lights)
	if err != nil {
		return nil, err
	}

	s := &service{cfg: cfg, hw: hw}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	opts := append([]controller.Opt(nil), hw.opts...)

	if cfg.Metrics.Addr != "" {
		s.recorder = metrics.New()
		opts = append(opts, controller.WithPublisher(s.recorder))
	}

	if cfg.MQTT.Enabled {
		s.publisher, err = mqtt.New(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("failed to create mqtt publisher: %w", err)
		}
		opts = append(opts, controller.WithPublisher(s.publisher))
	}

	if cfg.Panel.Enabled {
		s.sampler, err = sampler.New(cfg.Panel)
		if err != nil {
			return nil, fmt.Errorf("failed to create sampler: %w", err)
		}
	}

	s.lights = controller.New(cfg.Lights, opts...)
	return s, nil
}

// run sets the lights up and serves until ctx is done
func (s *service) run(ctx context.Context) error {
	s.lights.Setup()

	g, ctx := errgroup.WithContext(ctx)

	if s.recorder != nil {
		g.Go(func() error {
			return s.recorder.Serve(ctx, s.cfg.Metrics.Addr)
		})
	}

	// the panel is the only caller of the lights from here on
	if s.sampler != nil {
		s.sampler.Start()
		defer s.sampler.Stop()

		p := panel.New(s.cfg.Panel, s.lights, s.sampler)
		p.Start()
		defer p.Shutdown()
	}

	g.Go(func() error {
		<-ctx.Done()
		return nil
	})

	return g.Wait()
}

// Close disconnects the publishers and releases the hardware
func (s *service) Close() {
	if s.publisher != nil {
		s.publisher.Close()
		s.publisher = nil
	}
	s.hw.Close()
}
