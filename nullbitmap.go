// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

import "math/bits"

// advanceOverNullByte applies one null-bitmap byte to index:
// a zero byte (all elements in this window absent) fast-forwards index by a
// full 8; a non-zero byte advances to the first present element, found via
// the standard library's bit-scan rather than a hand-rolled loop.
func advanceOverNullByte(index int, nulls uint8) (next int, allAbsent bool) {
	if nulls == 0 {
		return index + 8, true
	}
	return index + bits.TrailingZeros8(nulls), false
}
