package executor

import "bytes"

// limitWriter buffers up to limit bytes and silently discards the rest so a
// chatty child cannot exhaust memory or fail on a short write.
type limitWriter struct {
	buf   bytes.Buffer
	limit int
}

func (lw *limitWriter) Write(p []byte) (int, error) {
	remaining := lw.limit - lw.buf.Len()
	if remaining <= 0 {
		return len(p), nil
	}
	toWrite := p
	if len(p) > remaining {
		toWrite = p[:remaining]
	}
	lw.buf.Write(toWrite)
	return len(p), nil
}

func (lw *limitWriter) String() string {
	return lw.buf.String()
}
