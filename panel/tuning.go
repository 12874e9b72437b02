package panel

import "math"

// Tuner calibration points measured against a reference receiver:
//
//	raw 144 =>  90 MHz
//	raw 473 =>  98 MHz
//	raw 703 => 102 MHz
const (
	calRaw1, calMHz1 = 144.0, 90.0
	calRaw2, calMHz2 = 473.0, 98.0
	calRaw3, calMHz3 = 703.0, 102.0
)

// RawToFrequencyTenths converts a raw tuner ADC code to a frequency in
// tenths of MHz using 3-point Lagrange interpolation. Values outside the
// calibration range extrapolate freely.
func RawToFrequencyTenths(raw int) int {
	mhz := lagrange3(float64(raw), calRaw1, calMHz1, calRaw2, calMHz2, calRaw3, calMHz3)
	return int(math.Round(mhz * 10))
}

// FrequencyTenthsToRaw is the inverse mapping: tenths of MHz to the raw
// tuner code, through the same three calibration points.
func FrequencyTenthsToRaw(tenths int) int {
	raw := lagrange3(float64(tenths)/10, calMHz1, calRaw1, calMHz2, calRaw2, calMHz3, calRaw3)
	return int(math.Round(raw))
}

func lagrange3(x, x1, y1, x2, y2, x3, y3 float64) float64 {
	return y1*((x-x2)*(x-x3))/((x1-x2)*(x1-x3)) +
		y2*((x-x1)*(x-x3))/((x2-x1)*(x2-x3)) +
		y3*((x-x1)*(x-x2))/((x3-x1)*(x3-x2))
}
