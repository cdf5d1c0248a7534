//go:build !(darwin || dragonfly || freebsd || linux || netbsd || openbsd || windows)

package jsonfile

import "os"

// Platforms without advisory locks fall back to the in-process mutex.
func lockFile(*os.File, bool) error { return nil }

func unlockFile(*os.File) error { return nil }
