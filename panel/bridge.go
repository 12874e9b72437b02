package panel

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/mklimuk/frontpanel"
)

var ErrNoBus = errors.New("bridge has no bus transport")
var ErrAlreadyStarted = errors.New("bridge already started")
var ErrStopped = errors.New("bridge is stopped and cannot be restarted")

// ErrFrameSizeMismatch means the Readings struct no longer encodes to the
// wire frame size shared with the MCU firmware. It is the one fatal
// condition in this package: decoding would silently produce garbage.
var ErrFrameSizeMismatch = errors.New("readings layout drifted from firmware frame size")

type bridgeState int

const (
	stateIdle bridgeState = iota
	stateRunning
	stateStopping
	stateStopped
)

type BridgeOpts struct {
	Address      byte
	PollInterval time.Duration
	Logger       *slog.Logger
}

type BridgeOpt func(*BridgeOpts)

func WithAddress(address byte) BridgeOpt {
	return func(o *BridgeOpts) {
		o.Address = address
	}
}

func WithPollInterval(interval time.Duration) BridgeOpt {
	return func(o *BridgeOpts) {
		o.PollInterval = interval
	}
}

func WithLogger(logger *slog.Logger) BridgeOpt {
	return func(o *BridgeOpts) {
		o.Logger = logger
	}
}

// Bridge owns the bus session to the panel MCU. A single worker goroutine
// paces bus traffic on a fixed interval, drains queued commands, refreshes
// the readings snapshot and absorbs transient bus failures so consumers
// always see the last good state. Producers and consumers never touch the
// bus and never block on it.
//
// Typical usage:
//
//	b := panel.NewBridge(bus)
//	if err := b.Start(ctx); err != nil { ... }
//	defer b.Stop()
//	r := b.Readings()
type Bridge struct {
	config BridgeOpts

	bus frontpanel.I2CBus

	queue commandQueue
	store store

	mx    sync.Mutex
	state bridgeState
	stop  chan struct{}
	done  chan struct{}
}

func NewBridge(bus frontpanel.I2CBus, opts ...BridgeOpt) *Bridge {
	config := BridgeOpts{
		Address:      DefaultAddress,
		PollInterval: 50 * time.Millisecond,
		Logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(&config)
	}
	return &Bridge{
		config: config,
		bus:    bus,
	}
}

// Start verifies the frame contract and launches the polling worker. It can
// be called once; a bridge that failed to start stays idle and a stopped
// bridge stays stopped.
func (b *Bridge) Start(ctx context.Context) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	switch b.state {
	case stateRunning, stateStopping:
		return ErrAlreadyStarted
	case stateStopped:
		return ErrStopped
	}
	if b.bus == nil {
		return ErrNoBus
	}
	// Sanity check to keep things in sync with the MCU firmware.
	if size := binary.Size(Readings{}); size != frameSize {
		return fmt.Errorf("%w: struct encodes to %d bytes, frame is %d", ErrFrameSizeMismatch, size, frameSize)
	}
	b.stop = make(chan struct{})
	b.done = make(chan struct{})
	b.state = stateRunning
	go b.loop()
	return nil
}

// Stop requests shutdown and waits for the worker to finish its current
// cycle and release the bus session. Latency is bounded by one poll
// interval plus one bus transaction. Safe to call more than once.
func (b *Bridge) Stop() {
	b.mx.Lock()
	if b.state != stateRunning {
		b.mx.Unlock()
		return
	}
	b.state = stateStopping
	close(b.stop)
	b.mx.Unlock()

	<-b.done

	b.mx.Lock()
	b.state = stateStopped
	b.mx.Unlock()
}

// Readings returns the latest successfully decoded snapshot. It never
// blocks; before the first successful poll it returns zero readings.
func (b *Bridge) Readings() Readings {
	return b.store.snapshot()
}

// EnqueueCommand schedules a one-byte command for the next poll cycle.
// Delivery is at-most-once: a failed write is logged and dropped, since the
// firmware offers no acknowledgement channel to retry against.
func (b *Bridge) EnqueueCommand(opcode byte) {
	b.queue.push(opcode)
}

// SetLamp queues the panel lamp actuator command.
func (b *Bridge) SetLamp(on bool) {
	if on {
		b.EnqueueCommand(CmdLampOn)
		return
	}
	b.EnqueueCommand(CmdLampOff)
}

func (b *Bridge) loop() {
	defer close(b.done)
	ctx := context.Background()
	log := b.config.Logger
	ticker := time.NewTicker(b.config.PollInterval)
	defer ticker.Stop()

	// tracks whether the previous exchange failed, to log streaks once
	failing := false
	buf := make([]byte, frameSize)

	for {
		select {
		case <-b.stop:
			b.closeSession(ctx)
			return
		case <-ticker.C:
		}

		for _, opcode := range b.queue.drainAll() {
			err := b.bus.WriteToAddr(ctx, b.config.Address, encodeCommand(opcode))
			if err != nil {
				log.Warn("panel command lost", "opcode", fmt.Sprintf("%#x", opcode), "error", err)
			}
		}

		err := b.bus.WriteToAddr(ctx, b.config.Address, encodeCommand(cmdReadRequest))
		if err != nil {
			if !failing {
				log.Error("panel read request failed", "error", err)
			}
			failing = true
			continue
		}

		err = b.bus.ReadFromAddr(ctx, b.config.Address, buf)
		if err != nil {
			if !failing {
				log.Error("panel readings read failed", "error", err)
			}
			failing = true
			continue
		}
		if failing {
			log.Info("panel bus recovered after one or more failures")
			failing = false
		}

		readings, err := decodeReadings(buf)
		if err != nil {
			// cannot happen with a correctly sized buffer
			log.Error("panel readings decode failed", "error", err)
			continue
		}
		b.store.publish(readings)
	}
}

func (b *Bridge) closeSession(ctx context.Context) {
	log := b.config.Logger
	err := b.bus.Release(ctx)
	if err != nil {
		log.Warn("bus release failed", "error", err)
	}
	if closer, ok := b.bus.(io.Closer); ok {
		err = closer.Close()
		if err != nil {
			log.Warn("bus close failed", "error", err)
		}
	}
}
