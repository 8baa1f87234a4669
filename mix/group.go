// SPDX-License-Identifier: EPL-2.0

package mix

import "github.com/gosnd/spatial/utils"

// Group is a named bucket of voices sharing a gain stage. Stopping a
// group hard-stops every voice in it.
type Group struct {
	eng  *Engine
	name string
	gain float32
}

func (g *Group) Name() string { return g.name }

func (g *Group) SetVolume(v float32) {
	g.eng.mu.Lock()
	defer g.eng.mu.Unlock()
	g.gain = utils.Clamp(v, 0, 1)
}

func (g *Group) Volume() float32 {
	g.eng.mu.Lock()
	defer g.eng.mu.Unlock()
	return g.gain
}
