// SPDX-License-Identifier: EPL-2.0

// Package snd is the positional-audio playback core: it owns the
// policy of what to play, where, how loud, and for how long, on top
// of the low-level mixing engine in package mix.
//
// A System tracks a fixed grid of per-entity sound slots so repeated
// sounds on the same entity channel replace each other instead of
// stacking, fades voices out over a short ramp instead of cutting
// them, keeps a small set of always-playing ambient beds leveled to
// the listener's world region, and staggers identical sounds started
// within one frame so they do not sum into a spike.
//
// All playback operations degrade to logged no-ops on failure; the
// game loop never has to handle audio errors.
package snd
