package panel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedBus is an in-memory transport with per-call behavior functions,
// in the style of the behavior-driven sensor mocks.
type scriptedBus struct {
	mx         sync.Mutex
	writes     []byte // first byte of every write, in order
	writeCalls int
	readCalls  int
	releases   int
	onWrite    func(opcode byte, call int) error
	onRead     func(buffer []byte, call int) error
}

func (b *scriptedBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.writeCalls++
	b.writes = append(b.writes, buffer[0])
	if b.onWrite != nil {
		return b.onWrite(buffer[0], b.writeCalls)
	}
	return nil
}

func (b *scriptedBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.readCalls++
	if b.onRead != nil {
		return b.onRead(buffer, b.readCalls)
	}
	return nil
}

func (b *scriptedBus) Release(ctx context.Context) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.releases++
	return nil
}

func (b *scriptedBus) writtenOpcodes() []byte {
	b.mx.Lock()
	defer b.mx.Unlock()
	return append([]byte(nil), b.writes...)
}

func (b *scriptedBus) reads() int {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.readCalls
}

func (b *scriptedBus) released() int {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.releases
}

// syncBuffer makes bytes.Buffer safe for the worker goroutine's logger.
type syncBuffer struct {
	mx  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.buf.String()
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&syncBuffer{}, nil))
}

func TestBridge_PublishesLatestReadings(t *testing.T) {
	want := Readings{Tuner: 473, KnobA: 10, KnobB: 20, KnobC: 30, Switch: 1}
	bus := &scriptedBus{
		onRead: func(buffer []byte, call int) error {
			copy(buffer, encodeReadings(want))
			return nil
		},
	}
	b := NewBridge(bus, WithPollInterval(2*time.Millisecond), WithLogger(quietLogger()))
	assert.Equal(t, Readings{}, b.Readings(), "zero snapshot before start")

	require.NoError(t, b.Start(context.Background()))
	defer b.Stop()

	assert.Eventually(t, func() bool {
		return b.Readings() == want
	}, time.Second, 5*time.Millisecond)
}

func TestBridge_CommandsDrainedInOrderBeforeRead(t *testing.T) {
	bus := &scriptedBus{}
	b := NewBridge(bus, WithPollInterval(2*time.Millisecond), WithLogger(quietLogger()))
	b.SetLamp(true)
	b.SetLamp(false)
	b.EnqueueCommand(CmdLampOn)

	require.NoError(t, b.Start(context.Background()))
	require.Eventually(t, func() bool {
		return len(bus.writtenOpcodes()) >= 4
	}, time.Second, 5*time.Millisecond)
	b.Stop()

	writes := bus.writtenOpcodes()
	assert.Equal(t, []byte{CmdLampOn, CmdLampOff, CmdLampOn, cmdReadRequest}, writes[:4])
}

func TestBridge_FailedCommandIsDroppedNotRequeued(t *testing.T) {
	bus := &scriptedBus{
		onWrite: func(opcode byte, call int) error {
			if opcode == CmdLampOn {
				return errors.New("bus contention")
			}
			return nil
		},
	}
	b := NewBridge(bus, WithPollInterval(2*time.Millisecond), WithLogger(quietLogger()))
	b.EnqueueCommand(CmdLampOn)

	require.NoError(t, b.Start(context.Background()))
	// let several cycles pass so a requeue would show up
	assert.Eventually(t, func() bool {
		return bus.reads() >= 5
	}, time.Second, 5*time.Millisecond)
	b.Stop()

	attempts := 0
	for _, opcode := range bus.writtenOpcodes() {
		if opcode == CmdLampOn {
			attempts++
		}
	}
	assert.Equal(t, 1, attempts, "command must be attempted exactly once")
}

func TestBridge_KeepsLastSnapshotThroughFailures(t *testing.T) {
	want := Readings{Tuner: 144, Switch: 2}
	bus := &scriptedBus{
		onRead: func(buffer []byte, call int) error {
			if call > 1 {
				return errors.New("peripheral reset")
			}
			copy(buffer, encodeReadings(want))
			return nil
		},
	}
	b := NewBridge(bus, WithPollInterval(2*time.Millisecond), WithLogger(quietLogger()))
	require.NoError(t, b.Start(context.Background()))

	assert.Eventually(t, func() bool {
		return b.Readings() == want
	}, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool {
		return bus.reads() >= 6
	}, time.Second, 5*time.Millisecond)
	b.Stop()

	assert.Equal(t, want, b.Readings(), "stale snapshot must survive bus failures")
}

func TestBridge_FailureStreakLoggedOnce(t *testing.T) {
	buf := &syncBuffer{}
	bus := &scriptedBus{
		onRead: func(buffer []byte, call int) error {
			if call <= 5 {
				return fmt.Errorf("read failure %d", call)
			}
			copy(buffer, encodeReadings(Readings{Tuner: 1}))
			return nil
		},
	}
	b := NewBridge(bus,
		WithPollInterval(2*time.Millisecond),
		WithLogger(slog.New(slog.NewTextHandler(buf, nil))),
	)
	require.NoError(t, b.Start(context.Background()))
	assert.Eventually(t, func() bool {
		return bus.reads() >= 7
	}, time.Second, 5*time.Millisecond)
	b.Stop()

	logged := buf.String()
	assert.Equal(t, 1, strings.Count(logged, "panel readings read failed"), "one failure line per streak:\n%s", logged)
	assert.Equal(t, 1, strings.Count(logged, "panel bus recovered"), "one recovery line per streak:\n%s", logged)
}

func TestBridge_WriteFailureSkipsRead(t *testing.T) {
	bus := &scriptedBus{
		onWrite: func(opcode byte, call int) error {
			return errors.New("arbitration lost")
		},
	}
	b := NewBridge(bus, WithPollInterval(2*time.Millisecond), WithLogger(quietLogger()))
	require.NoError(t, b.Start(context.Background()))
	assert.Eventually(t, func() bool {
		return len(bus.writtenOpcodes()) >= 3
	}, time.Second, 5*time.Millisecond)
	b.Stop()

	assert.Equal(t, 0, bus.reads(), "failed read request must skip the frame read")
}

func TestBridge_Lifecycle(t *testing.T) {
	bus := &scriptedBus{}
	b := NewBridge(bus, WithPollInterval(2*time.Millisecond), WithLogger(quietLogger()))

	require.NoError(t, b.Start(context.Background()))
	assert.ErrorIs(t, b.Start(context.Background()), ErrAlreadyStarted)

	b.Stop()
	assert.Equal(t, 1, bus.released(), "stop must release the bus session")
	assert.ErrorIs(t, b.Start(context.Background()), ErrStopped)

	// repeated stop is a no-op
	b.Stop()
	assert.Equal(t, 1, bus.released())
}

func TestBridge_StartWithoutBus(t *testing.T) {
	b := NewBridge(nil, WithLogger(quietLogger()))
	assert.ErrorIs(t, b.Start(context.Background()), ErrNoBus)
}
