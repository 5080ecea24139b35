// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

import (
	"unicode/utf16"

	"code.hybscloud.com/adhoc/bitslist"
)

// Transmitter is the encode-side state machine: it drains a stack of
// schema-specific LeafSrc encoders into a caller-supplied byte window. A
// Transmitter is reentrant across calls to Read but not safe for concurrent
// use.
//
// Composite writes that need to know a value before the bits that describe
// it (a bit-packed info byte ahead of its payload, a sized-varint's length
// prefix ahead of its bytes) are staged into an internal buffer and drained
// across Read calls as output space allows: a Transmitter never needs to see
// more than one byte of headroom to make progress.
type Transmitter struct {
	idBytes  int
	producer Producer
	stack    *FrameStack
	scratch

	out []byte // remaining unwritten portion of the current Read call's buffer

	pendingID   uint64
	pendingLeaf LeafSrc
	idStaged    bool // true while pendingID is mid-drain for the next root leaf

	onReady func() // set via OnReadyToSend; fired when producer reports new bytes
}

// NewTransmitter returns a Transmitter that prefixes every outbound packet
// with its id_bytes-wide id, sourced from producer. If producer also
// implements SubscribableProducer, NewTransmitter subscribes immediately so
// a later OnReadyToSend callback fires without the caller needing to
// re-subscribe.
func NewTransmitter(idBytes int, producer Producer, opts ...Option) *Transmitter {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}
	t := &Transmitter{
		idBytes:  idBytes,
		producer: producer,
		stack:    NewFrameStack(o.InitialFrameCapacity),
	}
	if sp, ok := producer.(SubscribableProducer); ok {
		sp.SubscribeOnNewBytesToTransmitArrive(func() {
			if t.onReady != nil {
				t.onReady()
			}
		})
	}
	return t
}

// OnReadyToSend registers cb to be invoked when producer reports new
// outbound bytes have become available, letting a caller blocked on I/O
// readiness (after Read returned ErrWouldBlock) wake up instead of
// busy-polling. cb may be called from whatever thread pushes bytes into
// producer (§4.11/§5); it never fires for a Producer that does not
// implement SubscribableProducer.
func (t *Transmitter) OnReadyToSend(cb func()) { t.onReady = cb }

// Reset cancels any in-flight packet and frees every frame. No partial data
// survives; the next Read starts as if from a fresh stream.
func (t *Transmitter) Reset() {
	t.stack.Reset()
	t.scratch.reset()
	t.out = nil
	t.idStaged = false
}

// Frame returns the currently active frame, or nil when idle.
func (t *Transmitter) Frame() *Frame { return t.stack.Top() }

// PushContext allocates a Context on the current frame for map/set framing.
func (t *Transmitter) PushContext() *Context { return t.stack.NewContext(t.stack.Top()) }

// Read writes queued packets into p until the producer has nothing more to
// send or p is full; a packet that does not fit is written in part and
// resumed by the next call. It satisfies io.Reader.
//
// When the producer reports "nothing to send" and no byte was written, Read
// returns (0, ErrWouldBlock): there is no data right now, not a stream error.
func (t *Transmitter) Read(p []byte) (n int, err error) {
	if t.producer == nil || t.idBytes < 1 {
		return 0, ErrInvalidArgument
	}
	total := len(p)
	t.out = p
	defer func() { t.out = nil }()

	for {
		if t.stack.Empty() {
			if !t.idStaged {
				id, leaf, ok := t.producer.Sending(t)
				if !ok {
					break
				}
				if leaf == nil {
					return total - len(t.out), ErrInvalidArgument
				}
				t.pendingID = id
				t.pendingLeaf = leaf
				t.idStaged = true
			}
			if !t.WriteFixed(uint8(t.idBytes), t.pendingID) {
				break
			}
			t.idStaged = false
			fr := t.stack.Push()
			fr.Leaf = t.pendingLeaf
			t.pendingLeaf = nil
			continue
		}

		fr := t.stack.Top()
		leaf := fr.Leaf.(LeafSrc)
		child, done := leaf.GetBytes(t)
		if child != nil {
			cfr := t.stack.Push()
			cfr.Leaf = child
			continue
		}
		if !done {
			break
		}

		completed := fr.Leaf
		t.stack.FreeContext(fr)
		t.stack.Pop()
		if t.stack.Empty() {
			t.producer.Sent(t, completed.(LeafSrc))
		}
	}

	consumed := total - len(t.out)
	if consumed == 0 && t.stack.Empty() && !t.idStaged {
		return 0, ErrWouldBlock
	}
	return consumed, nil
}

// --- Primitives available to leaf codecs ---

func (t *Transmitter) drainFixed() bool {
	need := int(t.fixBytes) - int(t.fixByte)
	if need <= 0 {
		t.fixBytes, t.fixByte = 0, 0
		return true
	}
	take := need
	if take > len(t.out) {
		take = len(t.out)
	}
	copy(t.out, t.fixBuf[t.fixByte:int(t.fixByte)+take])
	t.fixByte += uint8(take)
	t.out = t.out[take:]
	if int(t.fixByte) < int(t.fixBytes) {
		return false
	}
	t.fixBytes, t.fixByte = 0, 0
	return true
}

// WriteFixed writes v as an n-byte (1..8) big-endian integer, carrying a
// partial write across suspensions.
func (t *Transmitter) WriteFixed(n uint8, v uint64) (ok bool) {
	if t.fixBytes == 0 {
		if len(t.out) >= int(n) {
			writeBigEndian(t.out[:n], v, n)
			t.out = t.out[n:]
			return true
		}
		writeBigEndian(t.fixBuf[:n], v, n)
		t.fixBytes = n
		t.fixByte = 0
	}
	return t.drainFixed()
}

// PutBits writes the low n (1..8) bits of v into the inline bit stream,
// flushing completed bytes as they accumulate.
func (t *Transmitter) PutBits(v uint32, n uint8) (ok bool) {
	if t.M != ModeBits {
		t.bits |= (v & ((1 << n) - 1)) << t.bit
		t.bit += n
		t.M = ModeBits
	}
	for t.bit >= 8 {
		if t.fixBytes == 0 {
			t.fixBuf[0] = byte(t.bits)
			t.fixBytes = 1
			t.fixByte = 0
		}
		if !t.drainFixed() {
			return false
		}
		t.bits >>= 8
		t.bit -= 8
	}
	t.M = ModeOK
	return true
}

// PutBool writes v as a single bit.
func (t *Transmitter) PutBool(v bool) bool {
	if v {
		return t.PutBits(1, 1)
	}
	return t.PutBits(0, 1)
}

// PutOptionalBool writes the 2-bit optional-bool encoding: 00=absent,
// 01=true, 10=false. The mapping itself lives in bitslist, shared with
// BoolNullList so the wire primitive and the in-memory list type never
// drift apart.
func (t *Transmitter) PutOptionalBool(present, v bool) bool {
	return t.PutBits(bitslist.EncodeTriBool(present, v), 2)
}

// WriteVarint4 writes v as a single LEB128 varint (1..5 bytes).
func (t *Transmitter) WriteVarint4(v uint32) (ok bool) {
	if t.fixBytes == 0 {
		buf := appendVarint4(t.fixBuf[:0], v)
		t.fixBytes = uint8(len(buf))
		t.fixByte = 0
	}
	return t.drainFixed()
}

// WriteVarint8 writes v as a single LEB128 varint (1..10 bytes). A single
// drain mechanism (fixBuf/fixBytes/fixByte) backs every fixed and varint
// write, so an in-flight write can never resume under the wrong width's
// state -- there is no separate per-width resume mode to mismatch.
func (t *Transmitter) WriteVarint8(v uint64) (ok bool) {
	if t.fixBytes == 0 {
		buf := appendVarint8(t.fixBuf[:0], v)
		t.fixBytes = uint8(len(buf))
		t.fixByte = 0
	}
	return t.drainFixed()
}

// WriteSizedVarint writes a sized-varint transaction: a widthBits-wide
// byte-count prefix (n-1) to the bit stream, followed by v as n big-endian
// bytes. n is determined by the caller from the relevant bytesForUintNN /
// bytesForInt64 table.
func (t *Transmitter) WriteSizedVarint(widthBits, n uint8, v uint64) (ok bool) {
	if !t.stage2 {
		if !t.PutBits(uint32(n-1), widthBits) {
			return false
		}
		t.stage2 = true
	}
	if !t.WriteFixed(n, v) {
		return false
	}
	t.stage2 = false
	return true
}

// WriteString writes s as UTF-8 terminated by 0xFF. s is converted to UTF-16
// code units and re-encoded through encodeUTF16, so a surrogate pair
// collapses back into one 4-byte UTF-8 sequence. A Go string cannot carry an
// unpaired surrogate (invalid bytes become U+FFFD when s is converted to
// runes), so encodeUTF16's '?' replacement is never reached from here.
func (t *Transmitter) WriteString(s string) (ok bool) {
	if t.M != ModeStr {
		t.str.src = encodeUTF16(t.str.src[:0], utf16.Encode([]rune(s)))
		t.str.src = append(t.str.src, stringTerminator)
		t.str.srcPos = 0
		t.M = ModeStr
	}
	for t.str.srcPos < len(t.str.src) && len(t.out) > 0 {
		take := len(t.str.src) - t.str.srcPos
		if take > len(t.out) {
			take = len(t.out)
		}
		copy(t.out, t.str.src[t.str.srcPos:t.str.srcPos+take])
		t.out = t.out[take:]
		t.str.srcPos += take
	}
	if t.str.srcPos < len(t.str.src) {
		return false
	}
	t.str.src = nil
	t.M = ModeOK
	return true
}

// PutNullByte writes one null-bitmap byte (all bits set = all eight elements
// present in this window).
func (t *Transmitter) PutNullByte(b uint8) (ok bool) {
	return t.WriteFixed(1, uint64(b))
}

func writeBigEndian(dst []byte, v uint64, n uint8) {
	for i := int(n) - 1; i >= 0; i-- {
		dst[i] = byte(v)
		v >>= 8
	}
}
