// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

import (
	"bytes"
	"unicode/utf8"
)

// stringTerminator is the sentinel byte ending every wire string. It
// is never a valid UTF-8 continuation-free byte, so no length prefix is
// required.
const stringTerminator = 0xFF

// stringCodec streams a UTF-8 string across suspensions in both directions.
// The decode side is built on unicode/utf8's feed/flush-shaped API instead of
// hand-rolled continuation-bit arithmetic.
type stringCodec struct {
	// decode side: out accumulates validated UTF-8 bytes for the in-flight
	// string; pending holds the tail of a multi-byte rune split across Feed
	// calls.
	out     []byte
	pending [4]byte
	pendLen uint8

	// encode side: src is the fully pre-encoded UTF-8 payload (terminator not
	// included) for the in-flight string, srcPos the next byte to emit.
	src    []byte
	srcPos int
}

func (s *stringCodec) reset() {
	s.out = s.out[:0]
	s.pendLen = 0
	s.src = nil
	s.srcPos = 0
}

// Feed decodes as much of chunk as it can, appending to the in-flight string
// and reporting how many bytes of chunk were consumed and whether the
// terminator was found.
func (s *stringCodec) Feed(chunk []byte) (consumed int, terminated bool, err error) {
	if s.pendLen == 0 {
		if idx := bytes.IndexByte(chunk, stringTerminator); idx >= 0 {
			run := chunk[:idx]
			if !utf8.Valid(run) {
				return 0, false, ErrInvalidUTF8
			}
			s.out = append(s.out, run...)
			return idx + 1, true, nil
		}
	}
	for consumed < len(chunk) {
		b := chunk[consumed]
		if s.pendLen == 0 && b == stringTerminator {
			consumed++
			return consumed, true, nil
		}
		s.pending[s.pendLen] = b
		s.pendLen++
		consumed++

		for s.pendLen > 0 {
			if !utf8.FullRune(s.pending[:s.pendLen]) {
				if s.pendLen >= 4 {
					return consumed, false, ErrInvalidUTF8
				}
				break
			}
			r, size := utf8.DecodeRune(s.pending[:s.pendLen])
			if r == utf8.RuneError && size <= 1 {
				return consumed, false, ErrInvalidUTF8
			}
			s.out = append(s.out, s.pending[:size]...)
			copy(s.pending[:], s.pending[size:s.pendLen])
			s.pendLen -= uint8(size)
		}
	}
	return consumed, false, nil
}

// String returns the string decoded so far.
func (s *stringCodec) String() string { return string(s.out) }

// encodeUTF16 appends the UTF-8 encoding of UTF-16 code units u to dst,
// combining a valid high/low surrogate pair into one 4-byte sequence and
// replacing any unpaired surrogate with '?'.
func encodeUTF16(dst []byte, u []uint16) []byte {
	for i := 0; i < len(u); i++ {
		c := u[i]
		switch {
		case c < 0xD800 || c > 0xDFFF:
			dst = utf8.AppendRune(dst, rune(c))
		case c <= 0xDBFF: // high surrogate
			if i+1 < len(u) && u[i+1] >= 0xDC00 && u[i+1] <= 0xDFFF {
				r := ((rune(c) - 0xD800) << 10) + (rune(u[i+1]) - 0xDC00) + 0x10000
				dst = utf8.AppendRune(dst, r)
				i++
			} else {
				dst = append(dst, '?')
			}
		default: // lone low surrogate
			dst = append(dst, '?')
		}
	}
	return dst
}
