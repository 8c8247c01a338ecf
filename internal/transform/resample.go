package transform

import (
	"context"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/quellen/scene-tier-pipeline/internal/scene"
)

// Resample drops animation keyframes that linear interpolation between their
// neighbors reconstructs within Tolerance. Baked exports carry a keyframe on
// every frame; most of them are redundant.
type Resample struct {
	Tolerance float32
}

func (Resample) Kind() Kind { return KindResample }

func (r Resample) Apply(_ context.Context, doc *scene.Document) error {
	for ai := range doc.Animations {
		anim := &doc.Animations[ai]
		for ci := range anim.Channels {
			ch := &anim.Channels[ci]
			if err := resampleChannel(ch, r.Tolerance); err != nil {
				return fmt.Errorf("animation %q channel %d: %w", anim.Name, ci, err)
			}
		}
	}
	return nil
}

func resampleChannel(ch *scene.Channel, tolerance float32) error {
	if ch.Stride <= 0 {
		return fmt.Errorf("invalid stride %d", ch.Stride)
	}
	if len(ch.Values) != len(ch.Times)*ch.Stride {
		return fmt.Errorf("values length %d does not match %d keyframes of stride %d",
			len(ch.Values), len(ch.Times), ch.Stride)
	}
	n := len(ch.Times)
	if n < 3 {
		return nil
	}

	keep := make([]int, 0, n)
	keep = append(keep, 0)
	// A keyframe survives when interpolating from the last kept keyframe to
	// its successor misses it by more than the tolerance in any component.
	for i := 1; i < n-1; i++ {
		prev := keep[len(keep)-1]
		if keyframeError(ch, prev, i, i+1) > tolerance {
			keep = append(keep, i)
		}
	}
	keep = append(keep, n-1)

	if len(keep) == n {
		return nil
	}
	times := make([]float32, 0, len(keep))
	values := make([]float32, 0, len(keep)*ch.Stride)
	for _, i := range keep {
		times = append(times, ch.Times[i])
		values = append(values, ch.Values[i*ch.Stride:(i+1)*ch.Stride]...)
	}
	ch.Times = times
	ch.Values = values
	return nil
}

// keyframeError is the max component error at keyframe mid when lerping
// between keyframes lo and hi.
func keyframeError(ch *scene.Channel, lo, mid, hi int) float32 {
	t0, t1, tm := ch.Times[lo], ch.Times[hi], ch.Times[mid]
	var alpha float32
	if t1 > t0 {
		alpha = (tm - t0) / (t1 - t0)
	}
	var maxErr float32
	for c := 0; c < ch.Stride; c++ {
		v0 := ch.Values[lo*ch.Stride+c]
		v1 := ch.Values[hi*ch.Stride+c]
		vm := ch.Values[mid*ch.Stride+c]
		interp := v0 + (v1-v0)*alpha
		if e := math32.Abs(vm - interp); e > maxErr {
			maxErr = e
		}
	}
	return maxErr
}
