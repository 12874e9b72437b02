package panel

import (
	"encoding/binary"
	"fmt"
)

// Panel MCU I2C address (7-bit)
const DefaultAddress = 0x50

// Command opcodes understood by the panel firmware. A command frame is the
// opcode byte itself, nothing else.
const (
	cmdReadRequest byte = 0x00
	CmdLampOff     byte = 0x10
	CmdLampOn      byte = 0x11
)

// frameSize is a protocol constant shared with the MCU firmware. Both sides
// must agree on it byte for byte; a drift means the reply would be
// misinterpreted, so the bridge refuses to start on a mismatch.
const frameSize = 9

var ErrFrameLength = fmt.Errorf("unexpected readings frame length")

// Readings is the last decoded state of the panel controls. All values are
// raw ADC/digital codes as reported by the MCU.
type Readings struct {
	Tuner  uint16
	KnobA  uint16
	KnobB  uint16
	KnobC  uint16
	Switch uint8
}

// Wire layout (little-endian, unpadded):
//
//	0  tuner   u16
//	2  knob A  u16
//	4  knob B  u16
//	6  knob C  u16
//	8  switch  u8
func decodeReadings(buf []byte) (Readings, error) {
	if len(buf) != frameSize {
		return Readings{}, fmt.Errorf("%w: expected %d, got %d", ErrFrameLength, frameSize, len(buf))
	}
	return Readings{
		Tuner:  binary.LittleEndian.Uint16(buf[0:2]),
		KnobA:  binary.LittleEndian.Uint16(buf[2:4]),
		KnobB:  binary.LittleEndian.Uint16(buf[4:6]),
		KnobC:  binary.LittleEndian.Uint16(buf[6:8]),
		Switch: buf[8],
	}, nil
}

// encodeReadings is the codec inverse; the firmware side of the frame.
func encodeReadings(r Readings) []byte {
	buf := make([]byte, frameSize)
	binary.LittleEndian.PutUint16(buf[0:2], r.Tuner)
	binary.LittleEndian.PutUint16(buf[2:4], r.KnobA)
	binary.LittleEndian.PutUint16(buf[4:6], r.KnobB)
	binary.LittleEndian.PutUint16(buf[6:8], r.KnobC)
	buf[8] = r.Switch
	return buf
}

func encodeCommand(opcode byte) []byte {
	return []byte{opcode}
}
