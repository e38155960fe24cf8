package buffer

import (
	"bytes"
	"io"
)

var crlf = []byte("\r\n")

// Buffer accumulates bytes read from a connection until they're consumed. Bytes are
// appended at the tail and retrieved from the head, so the readable window is always
// memory[begin:]. The consumed prefix is reclaimed lazily, when it takes more than a
// half of the memory or the window becomes empty.
type Buffer struct {
	memory  []byte
	begin   int
	readBuf []byte
}

func New(initialSize, readSize int) *Buffer {
	return &Buffer{
		memory:  make([]byte, 0, initialSize),
		readBuf: make([]byte, readSize),
	}
}

// Append writes data at the tail.
func (b *Buffer) Append(data []byte) {
	b.compact()
	b.memory = append(b.memory, data...)
}

// Fill performs a single read from the reader and appends whatever has been read.
func (b *Buffer) Fill(r io.Reader) (n int, err error) {
	n, err = r.Read(b.readBuf)
	if n > 0 {
		b.Append(b.readBuf[:n])
	}

	return n, err
}

// Peek returns readable bytes without consuming them. The returned slice is valid until
// the next call to any mutating method.
func (b *Buffer) Peek() []byte {
	return b.memory[b.begin:]
}

// Len returns the number of readable bytes.
func (b *Buffer) Len() int {
	return len(b.memory) - b.begin
}

// FindCRLF returns an offset of the first CRLF in the readable bytes, relative to
// the beginning of Peek(). Returns -1 if there's none.
func (b *Buffer) FindCRLF() int {
	return bytes.Index(b.Peek(), crlf)
}

// Retrieve consumes n bytes. Consuming more than available just empties the buffer.
func (b *Buffer) Retrieve(n int) {
	if n >= b.Len() {
		b.RetrieveAll()
		return
	}

	b.begin += n
}

// RetrieveAll consumes all the readable bytes.
func (b *Buffer) RetrieveAll() {
	b.begin = 0
	b.memory = b.memory[:0]
}

func (b *Buffer) compact() {
	if b.begin == 0 || b.begin < len(b.memory)/2 {
		return
	}

	n := copy(b.memory, b.memory[b.begin:])
	b.memory = b.memory[:n]
	b.begin = 0
}
