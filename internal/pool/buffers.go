// ABOUTME: sync.Pool wrappers for the byte buffers and builders used to render output
// ABOUTME: Oversized buffers are dropped instead of pooled so one huge file is not retained

package pool

import (
	"bytes"
	"strings"
	"sync"
)

// maxPooledCap bounds the capacity of buffers returned to the pools.
const maxPooledCap = 1 << 20

var bufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

// GetBuffer returns an empty bytes.Buffer from the pool.
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns buf to the pool. The caller must not use buf afterwards.
func PutBuffer(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > maxPooledCap {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}

var builderPool = sync.Pool{
	New: func() any {
		return new(strings.Builder)
	},
}

// GetBuilder returns an empty strings.Builder from the pool.
func GetBuilder() *strings.Builder {
	sb := builderPool.Get().(*strings.Builder)
	sb.Reset()
	return sb
}

// PutBuilder returns sb to the pool. Strings already taken from sb stay
// valid; Reset drops the builder's reference to their memory.
func PutBuilder(sb *strings.Builder) {
	if sb == nil || sb.Cap() > maxPooledCap {
		return
	}
	sb.Reset()
	builderPool.Put(sb)
}
