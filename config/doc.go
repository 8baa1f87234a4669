// SPDX-License-Identifier: EPL-2.0

// Package config holds the user-tunable sound settings: master
// volume, ambient bed level and fade rate, and the nosound switch.
// Settings load from YAML and are safe to read and write from the
// game loop while other goroutines observe them.
package config
