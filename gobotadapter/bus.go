package gobotadapter

import (
	"context"
	"fmt"
	"sync"

	"gobot.io/x/gobot/v2/drivers/i2c"
	"gobot.io/x/gobot/v2/platforms/raspi"

	"github.com/mklimuk/frontpanel"
)

var _ frontpanel.I2CBus = &Bus{}

// Bus talks to the panel MCU through gobot's Raspberry Pi adaptor. It is a
// fallback for systems where periph's sysfs access does not work.
type Bus struct {
	mx      sync.Mutex
	adaptor *raspi.Adaptor
	busNr   int
	drivers map[byte]*i2c.GenericDriver
}

func NewBus(busNr int) (*Bus, error) {
	adaptor := raspi.NewAdaptor()
	err := adaptor.Connect()
	if err != nil {
		return nil, fmt.Errorf("adaptor connect error: %w", err)
	}
	return &Bus{
		adaptor: adaptor,
		busNr:   busNr,
		drivers: map[byte]*i2c.GenericDriver{},
	}, nil
}

func (b *Bus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	board, err := b.driver(address)
	if err != nil {
		return err
	}
	err = board.Read(buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c address %#x: %w", address, err)
	}
	return nil
}

func (b *Bus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	board, err := b.driver(address)
	if err != nil {
		return err
	}
	err = board.Write(buffer)
	if err != nil {
		return fmt.Errorf("could not write to i2c address %#x: %w", address, err)
	}
	return nil
}

func (b *Bus) Release(ctx context.Context) error {
	return nil
}

func (b *Bus) Close() error {
	b.mx.Lock()
	defer b.mx.Unlock()
	for _, board := range b.drivers {
		_ = board.Halt()
	}
	b.drivers = map[byte]*i2c.GenericDriver{}
	return b.adaptor.Finalize()
}

// driver returns a started generic driver for the given address, creating
// it on first use.
func (b *Bus) driver(address byte) (*i2c.GenericDriver, error) {
	board, ok := b.drivers[address]
	if ok {
		return board, nil
	}
	busNr := b.busNr
	board = i2c.NewGenericDriver(b.adaptor, "panel", int(address), func(c i2c.Config) {
		c.SetBus(busNr)
	})
	err := board.Start()
	if err != nil {
		return nil, fmt.Errorf("driver start error (addr %#x): %w", address, err)
	}
	b.drivers[address] = board
	return board, nil
}
