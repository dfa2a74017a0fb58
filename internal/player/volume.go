package player

import "math"

// AngleToVolume maps a pointer offset from the center of a circular volume
// control to a volume level.
//
// Straight up is 0 and the level grows clockwise through a full turn, so a
// pointer at three o'clock yields 0.25 and at nine o'clock yields 0.75.
// dy grows downward, matching screen coordinates.
func AngleToVolume(dx, dy float64) float64 {
	deg := math.Mod(math.Atan2(dy, dx)*180/math.Pi+360+90, 360)
	return deg / 360
}
