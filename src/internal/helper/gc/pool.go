// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package gc

import (
	"io"

	"github.com/valyala/bytebufferpool"
)

// Buffer defines the interface for a reusable byte buffer.
// It abstracts the [bytebufferpool.ByteBuffer] type to avoid direct dependencies.
type Buffer interface {
	WriteString(s string) (int, error)
	WriteByte(c byte) error
	Bytes() []byte
	Reset()
	ReadFrom(r io.Reader) (int64, error)
}

// Pool defines the interface for buffer pooling.
// It abstracts the [bytebufferpool.Pool] type to avoid direct dependencies.
//
// Pool implementations must be safe for concurrent use by multiple goroutines.
type Pool interface {
	Get() Buffer
	Put(b Buffer)
}

// pool wraps [bytebufferpool.Pool] to implement Pool interface.
type pool struct{ p *bytebufferpool.Pool }

// Get returns a buffer from the pool.
func (p *pool) Get() Buffer { return p.p.Get() }

// Put returns a buffer to the pool.
func (p *pool) Put(b Buffer) {
	if buf, ok := b.(*bytebufferpool.ByteBuffer); ok {
		p.p.Put(buf)
	}
}

// Default is the default buffer pool used for efficient memory reuse in I/O
// operations, primarily reading HTTP response bodies from the record store.
//
// Example usage:
//
//	buf := gc.Default.Get()
//
//	defer func() {
//		buf.Reset()         // Reset the buffer to prevent data leaks
//		gc.Default.Put(buf) // Return the buffer to the pool for reuse
//	}()
//
//	if _, err := buf.ReadFrom(resp.Body); err != nil {
//		return fmt.Errorf("error reading response body: %w", err)
//	}
//
//	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
//		return fmt.Errorf("error decoding response: %w", err)
//	}
//
// Lineage traversals issue one request per discovered person or family, so
// pooling keeps allocation flat even on deep trees.
var Default Pool = &pool{p: &bytebufferpool.Pool{}}
