// SPDX-License-Identifier: EPL-2.0

package mix

import "errors"

var (
	// ErrNoFreeVoice indicates the voice table is full and no playing
	// voice is less important than the request.
	ErrNoFreeVoice = errors.New("no free voice")

	// ErrEngineClosed indicates an operation on a closed engine.
	ErrEngineClosed = errors.New("engine is closed")

	// ErrNoSamples indicates an asset with no audio data.
	ErrNoSamples = errors.New("asset has no samples")
)
