// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

import "code.hybscloud.com/adhoc/bitslist"

// Receiver is the decode-side state machine: it consumes a
// caller-supplied byte window and produces completed packets by driving a
// stack of schema-specific LeafDst decoders. A Receiver is reentrant across
// calls to Write but not safe for concurrent use.
type Receiver struct {
	idBytes  int
	consumer Consumer
	stack    *FrameStack
	scratch

	cur []byte // unconsumed remainder of the current Write call

	lastUnknownID uint64 // most recent id rejected by Consumer.Receiving
	hasUnknownID  bool
}

// NewReceiver returns a Receiver that dispatches id_bytes-wide packet ids to
// consumer. Construction never fails; an invalid idBytes or a nil consumer
// surfaces as ErrInvalidArgument from the first Write call instead, keeping
// validation on the hot path rather than in the constructor.
func NewReceiver(idBytes int, consumer Consumer, opts ...Option) *Receiver {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}
	return &Receiver{
		idBytes:  idBytes,
		consumer: consumer,
		stack:    NewFrameStack(o.InitialFrameCapacity),
	}
}

// Reset cancels any in-flight packet and frees every frame.
// No partial data survives; the next Write starts as if from a fresh stream.
func (r *Receiver) Reset() {
	r.stack.Reset()
	r.scratch.reset()
	r.cur = nil
	r.hasUnknownID = false
}

// UnknownPacketID returns the most recent packet id for which
// Consumer.Receiving declined to allocate a decoder, and whether one has
// been recorded since construction or the last Reset. The caller decides
// whether (and how) to log it; the id's bytes are already consumed and the
// Receiver has moved on.
func (r *Receiver) UnknownPacketID() (id uint64, ok bool) {
	return r.lastUnknownID, r.hasUnknownID
}

// Frame returns the currently active frame, or nil when idle. Leaf codecs use
// this to read/write their resumable state.
func (r *Receiver) Frame() *Frame { return r.stack.Top() }

// PushContext allocates a Context on the current frame for map/set framing.
func (r *Receiver) PushContext() *Context { return r.stack.NewContext(r.stack.Top()) }

// Write feeds p into the receiver, decoding as many complete packets as p
// allows and delivering each via Consumer.Received. It satisfies io.Writer.
//
// The return value is the number of bytes of p consumed. A nil
// error with n==len(p) is the common case, including when the receiver is
// left mid-packet awaiting more bytes -- that is normal streaming backpressure,
// not a failure.
func (r *Receiver) Write(p []byte) (n int, err error) {
	if r.consumer == nil || r.idBytes < 1 {
		return 0, ErrInvalidArgument
	}
	total := len(p)
	r.cur = p
	defer func() { r.cur = nil }()

	for {
		if r.stack.Empty() {
			idv, ok := r.GetFixed(uint8(r.idBytes))
			if !ok {
				break
			}
			leaf, has := r.consumer.Receiving(r, idv)
			if !has {
				r.lastUnknownID = idv
				r.hasUnknownID = true
				continue // id consumed; stay idle, try the next id
			}
			if leaf == nil {
				return total - len(r.cur), ErrUnexpectedPackEnd
			}
			fr := r.stack.Push()
			fr.Leaf = leaf
			continue
		}

		fr := r.stack.Top()
		leaf := fr.Leaf.(LeafDst)
		child, done := leaf.PutBytes(r)
		if child != nil {
			cfr := r.stack.Push()
			cfr.Leaf = child
			continue
		}
		if !done {
			break // suspended mid-field; state preserved for the next Write
		}

		completed := fr.Leaf
		r.stack.FreeContext(fr)
		r.stack.Pop()
		if r.stack.Empty() {
			r.consumer.Received(r, completed.(LeafDst))
		}
	}

	return total - len(r.cur), nil
}

// --- Primitives available to leaf codecs ---

// InitBits resets the bit-stream cursor so the next GetBits pulls a fresh
// byte.
func (r *Receiver) InitBits() {
	r.bits = 0
	r.bit = 8
}

// GetBits reads the next n (1..8) bits from the inline bit stream.
func (r *Receiver) GetBits(n uint8) (v uint32, ok bool) {
	if r.bit == 8 {
		if len(r.cur) == 0 {
			return 0, false
		}
		r.bits = uint32(r.cur[0])
		r.cur = r.cur[1:]
		r.bit = 0
	}
	if r.bit+n <= 8 {
		v = (r.bits >> r.bit) & ((1 << n) - 1)
		r.bit += n
		return v, true
	}
	if len(r.cur) == 0 {
		return 0, false
	}
	next := uint32(r.cur[0])
	r.cur = r.cur[1:]
	low := 8 - r.bit
	v = ((r.bits >> r.bit) | (next << low)) & ((1 << n) - 1)
	r.bit = n - low
	r.bits = next
	return v, true
}

// GetBool reads one bit as a boolean.
func (r *Receiver) GetBool() (v bool, ok bool) {
	b, gok := r.GetBits(1)
	return b != 0, gok
}

// GetOptionalBool reads the 2-bit optional-bool encoding: 00=absent,
// 01=true, 10=false. The mapping itself lives in bitslist, shared with
// BoolNullList so the wire primitive and the in-memory list type never
// drift apart.
func (r *Receiver) GetOptionalBool() (v bool, present bool, ok bool) {
	b, gok := r.GetBits(2)
	if !gok {
		return false, false, false
	}
	v, present = bitslist.DecodeTriBool(b)
	return v, present, true
}

// GetFixed reads a fixed-width N-byte (N in 1..8) big-endian integer,
// carrying a partial read across suspensions.
func (r *Receiver) GetFixed(n uint8) (v uint64, ok bool) {
	if r.fixBytes == 0 {
		if len(r.cur) >= int(n) {
			v = readBigEndian(r.cur[:n])
			r.cur = r.cur[n:]
			return v, true
		}
		r.fixBytes = n
		r.fixByte = 0
	}
	return r.continueFixed()
}

func (r *Receiver) continueFixed() (v uint64, ok bool) {
	need := int(r.fixBytes) - int(r.fixByte)
	if need > 0 {
		take := need
		if take > len(r.cur) {
			take = len(r.cur)
		}
		copy(r.fixBuf[r.fixByte:], r.cur[:take])
		r.fixByte += uint8(take)
		r.cur = r.cur[take:]
		if int(r.fixByte) < int(r.fixBytes) {
			return 0, false
		}
	}
	v = readBigEndian(r.fixBuf[:r.fixBytes])
	r.fixBytes, r.fixByte = 0, 0
	return v, true
}

// GetVarint4 reads a single LEB128 varint into a uint32.
func (r *Receiver) GetVarint4() (v uint32, ok bool, err error) {
	r.M = ModeVarint4
	for len(r.cur) > 0 {
		b := r.cur[0]
		r.cur = r.cur[1:]
		done, overflow := r.stepVarint4(b)
		if overflow {
			r.u4, r.varintPos = 0, 0
			r.M = ModeOK
			return 0, false, ErrVarintOverflow
		}
		if done {
			v = r.u4
			r.u4, r.varintPos = 0, 0
			r.M = ModeOK
			return v, true, nil
		}
	}
	return 0, false, nil
}

// GetVarint8 reads a single LEB128 varint into a uint64.
func (r *Receiver) GetVarint8() (v uint64, ok bool, err error) {
	r.M = ModeVarint8
	for len(r.cur) > 0 {
		b := r.cur[0]
		r.cur = r.cur[1:]
		done, overflow := r.stepVarint8(b)
		if overflow {
			r.u8, r.varintPos = 0, 0
			r.M = ModeOK
			return 0, false, ErrVarintOverflow
		}
		if done {
			v = r.u8
			r.u8, r.varintPos = 0, 0
			r.M = ModeOK
			return v, true, nil
		}
	}
	return 0, false, nil
}

// GetSizedVarint reads a sized-varint transaction: a widthBits-wide
// byte-count prefix from the bit stream followed by that many big-endian
// value bytes.
func (r *Receiver) GetSizedVarint(widthBits uint8) (v uint64, ok bool, err error) {
	if r.M != ModeVarints {
		n, bok := r.GetBits(widthBits)
		if !bok {
			return 0, false, nil
		}
		r.M = ModeVarints
		r.fixBytes = uint8(n) + 1
		r.fixByte = 0
	}
	raw, fok := r.continueFixed()
	if !fok {
		return 0, false, nil
	}
	r.M = ModeOK
	return raw, true, nil
}

// GetString reads a UTF-8 string terminated by 0xFF.
func (r *Receiver) GetString() (s string, ok bool, err error) {
	if r.M != ModeStr {
		r.str.reset()
		r.M = ModeStr
	}
	consumed, terminated, ferr := r.str.Feed(r.cur)
	r.cur = r.cur[consumed:]
	if ferr != nil {
		r.str.reset()
		r.M = ModeOK
		return "", false, ferr
	}
	if !terminated {
		return "", false, nil
	}
	s = r.str.String()
	r.str.reset()
	r.M = ModeOK
	return s, true, nil
}

// ScanNullBitmap reads one null-bitmap byte and advances index past any
// leading run of absent elements it describes.
func (r *Receiver) ScanNullBitmap(index int) (next int, allAbsent bool, ok bool) {
	v, gok := r.GetFixed(1)
	if !gok {
		return index, false, false
	}
	next, allAbsent = advanceOverNullByte(index, uint8(v))
	return next, allAbsent, true
}

func readBigEndian(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}
