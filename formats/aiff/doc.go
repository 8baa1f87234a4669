// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF streams into audio Sources using
// github.com/go-audio/aiff.
package aiff
