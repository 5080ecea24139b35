// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

// Single varints: 7 payload bits per byte, continuation
// bit = MSB (0 = terminator). u4 caps at 5 bytes, u8 at 10, matching
// wire table.

const (
	varint4MaxShift = 28 // shift of the 5th (last allowed) byte
	varint8MaxShift = 63 // shift of the 10th (last allowed) byte
)

// stepVarint4 folds one more byte into the in-flight u4 accumulator.
// done=true means b had no continuation bit and the value is complete.
// overflow=true means b continued a varint already at its maximum width.
func (s *scratch) stepVarint4(b byte) (done, overflow bool) {
	shift := s.varintPos
	s.u4 |= uint32(b&0x7f) << shift
	cont := b&0x80 != 0
	s.varintPos += 7
	if !cont {
		return true, false
	}
	return false, shift >= varint4MaxShift
}

// stepVarint8 is the u8 counterpart of stepVarint4.
func (s *scratch) stepVarint8(b byte) (done, overflow bool) {
	shift := s.varintPos
	s.u8 |= uint64(b&0x7f) << shift
	cont := b&0x80 != 0
	s.varintPos += 7
	if !cont {
		return true, false
	}
	return false, shift >= varint8MaxShift
}

// appendVarint4 appends the LEB128 encoding of v (1..5 bytes).
func appendVarint4(dst []byte, v uint32) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			dst = append(dst, b|0x80)
			continue
		}
		return append(dst, b)
	}
}

// appendVarint8 appends the LEB128 encoding of v (1..10 bytes).
func appendVarint8(dst []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			dst = append(dst, b|0x80)
			continue
		}
		return append(dst, b)
	}
}

// sizedVarintMaxPayload is the largest number of value bytes a single
// sized-varint transaction carries (n <= 8); the bit-stream byte holding its
// length prefix is not counted.
const sizedVarintMaxPayload = 8
