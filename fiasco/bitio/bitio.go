// Package bitio provides MSB-first bit streams over byte buffers.
package bitio

// Reader reads single bits from a byte slice, most significant bit
// first. Reads past the end of the buffer return zero bits and are
// counted instead of failing, so callers can tell a truncated stream
// from legitimate register slack.
type Reader struct {
	buf       []byte
	pos       int
	bitBuf    uint32
	bitsInBuf uint32
	overread  int
}

// Creates a new bit reader over buf.
func NewReader(buf []byte) *Reader {
	ret := new(Reader)
	ret.buf = buf
	return ret
}

// Bit reads the next bit.
func (r *Reader) Bit() uint32 {
	if r.bitsInBuf == 0 {
		if r.pos >= len(r.buf) {
			r.overread++
			return 0
		}
		r.bitBuf = uint32(r.buf[r.pos])
		r.pos++
		r.bitsInBuf = 8
	}
	r.bitsInBuf--
	return (r.bitBuf >> r.bitsInBuf) & 1
}

// Bits reads 'count' bits, up to 32, MSB first.
func (r *Reader) Bits(count uint32) uint32 {
	if count > 32 {
		panic("bitio: more than 32 bits")
	}
	var v uint32
	for i := uint32(0); i < count; i++ {
		v = v<<1 | r.Bit()
	}
	return v
}

// Overread reports how many bits have been read past the end of the
// buffer.
func (r *Reader) Overread() int {
	return r.overread
}

// Writer collects single bits into a byte slice, most significant bit
// first.
type Writer struct {
	buf       []byte
	bitBuf    uint32
	bitsInBuf uint32
}

// Creates a new bit writer.
func NewWriter() *Writer {
	return new(Writer)
}

// PutBit appends one bit.
func (w *Writer) PutBit(bit uint32) {
	w.bitBuf = w.bitBuf<<1 | (bit & 1)
	w.bitsInBuf++
	if w.bitsInBuf == 8 {
		w.buf = append(w.buf, byte(w.bitBuf))
		w.bitBuf = 0
		w.bitsInBuf = 0
	}
}

// PutBits appends the low 'count' bits of v, up to 32, MSB first.
func (w *Writer) PutBits(v uint32, count uint32) {
	if count > 32 {
		panic("bitio: more than 32 bits")
	}
	for i := int(count) - 1; i >= 0; i-- {
		w.PutBit((v >> uint(i)) & 1)
	}
}

// Bytes flushes any partial byte with zero padding and returns the
// written stream.
func (w *Writer) Bytes() []byte {
	if w.bitsInBuf > 0 {
		w.buf = append(w.buf, byte(w.bitBuf<<(8-w.bitsInBuf)))
		w.bitBuf = 0
		w.bitsInBuf = 0
	}
	return w.buf
}
