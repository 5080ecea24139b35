// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

// Mode is the resume discriminant M: which primitive is
// mid-execution, and hence how the next call to Receiver.Write/Transmitter.Read
// must resume it. Kept as small integer constants rather than a richer enum
// type -- the opaque-label scheme is codegen-friendly and satisfies the
// contract as-is.
type Mode uint8

const (
	ModeOK Mode = iota
	ModeDone
	ModeVal      // mid fixed-width integer
	ModeLen      // mid length prefix (outer array/collection)
	ModeBaseLen  // mid length prefix (nested/base array)
	ModeStr      // mid UTF-8 string
	ModeBits     // mid bit-stream transaction (composite: reserve + fields)
	ModeVarint4  // mid single varint into u4
	ModeVarint8  // mid single varint into u8
	ModeVarints  // mid sized-varint (bit-stream prefix + payload bytes)
)

// scratch is the per-direction codec state, embedded by both
// Receiver and Transmitter. Only one primitive is ever in flight at a time, so
// a single shared scratch area is enough to resume any of them.
type scratch struct {
	M Mode

	// Fixed-width carry.
	fixByte  uint8 // bytes already buffered/copied
	fixBytes uint8 // total bytes required for the in-flight word
	fixBuf   [16]byte

	// Bit-stream cursor. Reader and writer interpret bits/bit
	// differently (see receiver.go/transmitter.go) but share storage since
	// only one direction's logic ever touches a given scratch instance.
	bits   uint32
	bit    uint8
	stage2 bool // writer only: true once a composite bits+payload write has emitted its prefix

	// Varint scratch.
	u4        uint32
	u8        uint64
	varintPos uint8 // septets consumed/produced so far, for resume

	// String scratch.
	str stringCodec
}

func (s *scratch) reset() {
	*s = scratch{}
}

// initBitsRead matches Receiver.InitBits: force the next GetBits to
// pull a fresh byte.
func (s *scratch) initBitsRead() {
	s.bits = 0
	s.bit = 8
}

// --- Sized-varint byte-width tables ---

// bytesForUint16 returns the minimal byte count for v in the 16-bit width class.
func bytesForUint16(v uint16) uint8 {
	if v < 256 {
		return 1
	}
	return 2
}

// bytesForUint24 returns the minimal byte count for v in the 24-bit width class.
func bytesForUint24(v uint32) uint8 {
	switch {
	case v < 1<<8:
		return 1
	case v < 1<<16:
		return 2
	default:
		return 3
	}
}

// bytesForUint32 returns the minimal byte count for v in the 32-bit width class.
func bytesForUint32(v uint32) uint8 {
	switch {
	case v < 1<<8:
		return 1
	case v < 1<<16:
		return 2
	case v < 1<<24:
		return 3
	default:
		return 4
	}
}

// bytesForInt64 returns the minimal byte count for the 64-bit signed width
// class: a negative value always takes the full 8 bytes (two's-complement
// sign bits don't compress), otherwise the usual 8-bit buckets apply.
func bytesForInt64(v int64) uint8 {
	if v < 0 {
		return 8
	}
	u := uint64(v)
	switch {
	case u < 1<<8:
		return 1
	case u < 1<<16:
		return 2
	case u < 1<<24:
		return 3
	case u < 1<<32:
		return 4
	case u < 1<<40:
		return 5
	case u < 1<<48:
		return 6
	case u < 1<<56:
		return 7
	default:
		return 8
	}
}

// widthBits16..widthBits64 are k: the number of bit-stream bits needed to
// carry the byte-count n-1 for each width class's maximum n.
const (
	widthBits16 = 1 // max n=2
	widthBits24 = 2 // max n=3
	widthBits32 = 2 // max n=4
	widthBits64 = 3 // max n=8
)
