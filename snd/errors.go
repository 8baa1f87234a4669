// SPDX-License-Identifier: EPL-2.0

package snd

import "errors"

// ErrNotLooped indicates a static sound request whose asset carries
// no loop markers. Static sounds play forever, so the request is
// dropped.
var ErrNotLooped = errors.New("sound is not looped")
