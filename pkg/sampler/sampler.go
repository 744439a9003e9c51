// Package sampler averages readings from the ADS1115 that the button panel
// is wired to.
package sampler

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/grant-carpenter/go-ads"

	"github.com/wamphlett/status-lights/config"
	"github.com/wamphlett/status-lights/pkg/logging"
)

var logger = logging.New("sampler")

const (
	defaultPollRate = time.Millisecond * 5
	readRetries     = 5
	// full scale of a single ended reading
	fullScale = 32767.0
	scale     = 1000.0
)

// adc is the part of the ADS1115 the sampler reads from
type adc interface {
	ReadRetry(retries int) (uint16, error)
	Close() error
}

// sample records the current sample readings
type sample struct {
	sum   int
	count int
}

// Result returns the averaged reading from the ADS since the last read
func (s *sample) Result() float64 {
	if s.count == 0 || s.sum == 0 {
		return 0
	}
	return float64(s.sum / s.count)
}

// Sampler defines a sampler
type Sampler struct {
	sync.Mutex
	currentSample *sample
	adc           adc
	stopSignal    chan struct{}
	done          chan struct{}
	pollRate      time.Duration
}

// New opens the ADS1115 on the configured bus and returns a Sampler for it
func New(cfg *config.Panel) (*Sampler, error) {
	if err := ads.HostInit(); err != nil {
		return nil, fmt.Errorf("failed to initialise host: %w", err)
	}

	dev, err := ads.NewADS(cfg.Bus, cfg.Addr, "")
	if err != nil {
		return nil, fmt.Errorf("failed to open ADS on %s: %w", cfg.Bus, err)
	}
	dev.SetConfigGain(ads.ConfigGain2_3)

	return newSampler(dev), nil
}

func newSampler(dev adc) *Sampler {
	return &Sampler{
		currentSample: &sample{},
		adc:           dev,
		stopSignal:    make(chan struct{}),
		done:          make(chan struct{}),
		pollRate:      defaultPollRate,
	}
}

// Start starts the sampler
func (s *Sampler) Start() {
	ticker := time.NewTicker(s.pollRate)
	go func() {
		defer close(s.done)
		for {
			select {
			case <-ticker.C:
				s.sample()
			case <-s.stopSignal:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the sampler reading the ADS and releases it. Start must have
// been called first.
func (s *Sampler) Stop() {
	close(s.stopSignal)
	<-s.done
	if err := s.adc.Close(); err != nil {
		logger.With("error", err).Warn("failed to close ADS")
	}
}

// sample reads the ADS value and adds it to the sample data
func (s *Sampler) sample() {
	keyResult, err := s.adc.ReadRetry(readRetries)
	if err != nil {
		logger.With("error", err).Debug("failed to read ADS")
		return
	}

	s.Lock()
	defer s.Unlock()
	s.currentSample.sum += int(math.Round(float64(keyResult) / fullScale * scale))
	s.currentSample.count++
}

// Read returns the samples data
func (s *Sampler) Read() float64 {
	s.Lock()
	defer s.Unlock()

	result := s.currentSample.Result()
	s.currentSample = &sample{}
	return result
}
