// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package soft

import "github.com/gviegas/softgl/driver"

// screenEpsilon guards against division by a vanishing or negative w.
const screenEpsilon = 1e-6

// transformToScreen implements spec.md §4.5 for one clip-space vertex,
// writing the result into out.Screen. w must be > screenEpsilon; callers
// clip beforehand so this always holds except for degenerate input.
//
// Note: original_source's transformToScreen stores z*rhw directly (not
// remapped to [0,1]); softgl follows spec.md's explicit formula instead,
// since the depth buffer here is cleared to +Inf and compared in [0,1]
// window-depth space (see DESIGN.md "screen.w convention").
func transformToScreen(clip [4]float32, vp driver.Viewport) (screen [4]float32) {
	rhw := 1 / clip[3]
	screen[0] = vp.X + (clip[0]*rhw+1)*0.5*vp.W
	screen[1] = vp.Y + (1-clip[1]*rhw)*0.5*vp.H
	screen[2] = (clip[2]*rhw + 1) * 0.5
	screen[3] = rhw
	return
}
