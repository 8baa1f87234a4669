// SPDX-License-Identifier: EPL-2.0

package snd

// AttenuatedGain is the distance rolloff curve: gain falls linearly
// from 1 at the source to 0 at NominalClipDist/attenuation world
// units, and stays 0 beyond. distMult is attenuation/NominalClipDist,
// computed once when the sound starts.
func AttenuatedGain(distance, distMult float32) float32 {
	g := 1 - distance*distMult
	if g < 0 {
		return 0
	}
	return g
}
