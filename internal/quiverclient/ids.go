package quiverclient

import (
	"bytes"
	"runtime"
	"strconv"
)

// goroutineID extracts the numeric id Go's runtime assigns the calling
// goroutine by parsing the "goroutine N [...]" header line of a stack
// trace. Go has no public API for this; every tracing/debugging library
// that needs a stable per-scheduling-unit identifier resorts to the same
// trick. It stands in for the OS thread id the original instrumentation
// layer reports, since goroutines (not OS threads) are archer's unit of
// concurrency.
func goroutineID() uint64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]

	const prefix = "goroutine "
	if !bytes.HasPrefix(buf, []byte(prefix)) {
		return 0
	}
	buf = buf[len(prefix):]
	end := bytes.IndexByte(buf, ' ')
	if end < 0 {
		return 0
	}
	id, err := strconv.ParseUint(string(buf[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// callerLocation captures the file/line of the caller skip frames above
// this function.
func callerLocation(skip int) (file string, line uint32, ok bool) {
	_, f, l, ok := runtime.Caller(skip + 1)
	return f, uint32(l), ok
}
