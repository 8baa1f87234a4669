// SPDX-License-Identifier: EPL-2.0

package aiff

import "errors"

var (
	// ErrNotAiffFile indicates the data is not a valid AIFF stream.
	ErrNotAiffFile = errors.New("not an AIFF file")

	// ErrUnsupportedAiffLayout indicates an AIFF layout the decoder
	// cannot represent as interleaved PCM.
	ErrUnsupportedAiffLayout = errors.New("unsupported AIFF layout")
)
