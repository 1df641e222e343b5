//go:build !profile

package profiler

import "io"

// No-op versions when the "profile" build tag is not set.

func Init(capacity int) {}

func Start(name string) func() { return func() {} }

func Write(w io.Writer) error { return ErrDisabled }

func Dump(path string) error { return ErrDisabled }
