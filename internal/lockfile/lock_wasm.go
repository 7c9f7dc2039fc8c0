//go:build js && wasm

package lockfile

import "os"

// WASM has no file locking. Locks are no-ops; single-process use only.

func flockExclusiveBlocking(f *os.File) error { return nil }

func flockExclusiveNonBlock(f *os.File) error { return nil }

func flockUnlock(f *os.File) error { return nil }
