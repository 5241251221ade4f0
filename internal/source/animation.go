package source

import (
	"github.com/Faultbox/midgard-robj/pkg/formats"
	"github.com/Faultbox/midgard-robj/pkg/math"
)

// bracket finds the keyframes around timeMs in n keys sorted by frame.
// It returns i0 == i1 outside the keyed range.
func bracket(n int, frameAt func(int) int32, timeMs float32) (i0, i1 int, t float32) {
	if n == 1 || timeMs <= float32(frameAt(0)) {
		return 0, 0, 0
	}
	last := n - 1
	if timeMs >= float32(frameAt(last)) {
		return last, last, 0
	}

	for i := 0; i < last; i++ {
		if float32(frameAt(i+1)) > timeMs {
			i0, i1 = i, i+1
			break
		}
	}

	diff := float32(frameAt(i1) - frameAt(i0))
	if diff <= 0 {
		return i0, i0, 0
	}
	return i0, i1, (timeMs - float32(frameAt(i0))) / diff
}

// interpolateRotKeys interpolates rotation keyframes at the given time.
func interpolateRotKeys(keys []formats.RSMRotKeyframe, timeMs float32) math.Quat {
	if len(keys) == 0 {
		return math.QuatIdentity()
	}
	i0, i1, t := bracket(len(keys), func(i int) int32 { return keys[i].Frame }, timeMs)
	q0 := math.QuatFromArray(keys[i0].Quaternion)
	if i0 == i1 {
		return q0
	}
	return q0.Slerp(math.QuatFromArray(keys[i1].Quaternion), t)
}

// interpolatePosKeys interpolates position keyframes at the given time.
func interpolatePosKeys(keys []formats.RSMPosKeyframe, timeMs float32) [3]float32 {
	if len(keys) == 0 {
		return [3]float32{}
	}
	i0, i1, t := bracket(len(keys), func(i int) int32 { return keys[i].Frame }, timeMs)
	return math.LerpVec3(keys[i0].Position, keys[i1].Position, t)
}

// interpolateScaleKeys interpolates scale keyframes at the given time.
func interpolateScaleKeys(keys []formats.RSMScaleKeyframe, timeMs float32) [3]float32 {
	if len(keys) == 0 {
		return [3]float32{1, 1, 1}
	}
	i0, i1, t := bracket(len(keys), func(i int) int32 { return keys[i].Frame }, timeMs)
	return math.LerpVec3(keys[i0].Scale, keys[i1].Scale, t)
}

// frameTime converts an integer frame to model time in milliseconds.
// With loop set, time wraps by animLength.
func frameTime(frame, fps int, animLength int32, loop bool) float32 {
	ms := float64(frame) * 1000 / float64(fps)
	if loop && animLength > 0 {
		length := float64(animLength)
		ms -= length * float64(int64(ms/length))
		if ms < 0 {
			ms += length
		}
	}
	return float32(ms)
}
