// Package split composes the highlight frames of a comparison video.
//
// Each output frame is one pane wide. Its left half shows the baseline
// pane (pane 0 by default) and its right half the active feature pane,
// optionally blended with a neighbouring feature during a crossfade. A
// white divider marks the split, and three labels are burned in: the
// baseline name top-left, the feature name top-right, and the scene name
// bottom-left. Labels are drawn twice, a dark shadow offset by two pixels
// and then the white foreground, so they stay legible on any background.
//
// Label size follows the output height: [FontScale] is 0.9 at the 540px
// reference height and scales linearly from there.
//
//	c, err := split.New(layout)
//	out, err := c.Compose(frame, split.MixFor(step), split.Labels{
//	    Baseline: "RGB", Feature: step.Label, Scene: "Bouquet",
//	})
package split
