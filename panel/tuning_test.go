package panel

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRawToFrequencyTenths(t *testing.T) {
	tests := []struct {
		raw      int
		expected int
	}{
		{144, 900},
		{473, 980},
		{703, 1020},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%d", test.raw), func(t *testing.T) {
			assert.Equal(t, test.expected, RawToFrequencyTenths(test.raw))
		})
	}
}

func TestFrequencyTenthsToRaw(t *testing.T) {
	tests := []struct {
		tenths   int
		expected int
	}{
		{900, 144},
		{980, 473},
		{1020, 703},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%d", test.tenths), func(t *testing.T) {
			assert.Equal(t, test.expected, FrequencyTenthsToRaw(test.tenths))
		})
	}
}

func TestTuning_ExtrapolationIsNotClamped(t *testing.T) {
	assert.Less(t, RawToFrequencyTenths(0), 900)
	assert.Greater(t, RawToFrequencyTenths(1023), 1020)
}
