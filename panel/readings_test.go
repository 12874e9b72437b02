package panel

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadings_Decode(t *testing.T) {
	tests := []struct {
		given    []byte
		expected Readings
	}{
		{
			[]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
			Readings{},
		},
		{
			[]byte{0xD1, 0x01, 0x10, 0x00, 0x20, 0x00, 0x30, 0x00, 0x01},
			Readings{Tuner: 465, KnobA: 16, KnobB: 32, KnobC: 48, Switch: 1},
		},
		{
			[]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
			Readings{Tuner: 0xFFFF, KnobA: 0xFFFF, KnobB: 0xFFFF, KnobC: 0xFFFF, Switch: 0xFF},
		},
	}
	for _, test := range tests {
		t.Run(hex.EncodeToString(test.given), func(t *testing.T) {
			decoded, err := decodeReadings(test.given)
			require.NoError(t, err)
			assert.Equal(t, test.expected, decoded)
		})
	}
}

func TestReadings_RoundTrip(t *testing.T) {
	tests := []Readings{
		{},
		{Tuner: 144, KnobA: 1, KnobB: 2, KnobC: 3, Switch: 4},
		{Tuner: 703, KnobA: 1023, KnobB: 512, KnobC: 768, Switch: 2},
	}
	for _, r := range tests {
		decoded, err := decodeReadings(encodeReadings(r))
		require.NoError(t, err)
		assert.Equal(t, r, decoded)
	}
}

func TestReadings_DecodeRejectsWrongLength(t *testing.T) {
	for _, n := range []int{0, 1, 8, 10, 32} {
		_, err := decodeReadings(make([]byte, n))
		assert.ErrorIs(t, err, ErrFrameLength, "length %d must be rejected", n)
	}
}

func TestEncodeCommand(t *testing.T) {
	assert.Equal(t, []byte{0x00}, encodeCommand(cmdReadRequest))
	assert.Equal(t, []byte{0x10}, encodeCommand(CmdLampOff))
	assert.Equal(t, []byte{0x11}, encodeCommand(CmdLampOn))
}
