// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bitslist

// NullableList is a List of fixed-width values where one reserved value,
// nullVal, marks a logical slot as absent. Absent slots still cost exactly
// one dense item, the same as a present one -- there is no separate
// presence bitmap to keep in sync.
type NullableList struct {
	*List
	nullVal uint32
}

// NewNullableList returns an empty NullableList storing itemBits-wide
// (1..32) unsigned values, with nullVal (which must fit in itemBits bits)
// as the sentinel marking a slot absent.
func NewNullableList(itemBits uint8, nullVal uint32) *NullableList {
	return &NullableList{List: New(itemBits), nullVal: nullVal}
}

// Append adds a new slot: present with value v, or absent when present is
// false (in which case v is ignored and the sentinel is stored instead).
func (l *NullableList) Append(v uint32, present bool) {
	if !present {
		l.List.Append(l.nullVal)
		return
	}
	l.List.Append(v)
}

// Get reads logical index i. ok reports whether it is present; if not, v is
// always 0.
func (l *NullableList) Get(i int) (v uint32, ok bool) {
	raw := l.List.Get(i)
	if raw == l.nullVal {
		return 0, false
	}
	return raw, true
}

// SetNull marks index i absent by overwriting it with the sentinel.
func (l *NullableList) SetNull(i int) {
	l.List.Set(i, l.nullVal)
}

// Raw exposes the underlying integer at index i regardless of whether it is
// the null sentinel -- an escape hatch for callers that need the bits
// themselves rather than the presence-checked value.
func (l *NullableList) Raw(i int) uint32 { return l.List.Get(i) }

// HasValue reports whether index i holds a present value rather than the
// null sentinel.
func (l *NullableList) HasValue(i int) bool { return l.List.Get(i) != l.nullVal }

// Tri-bool raw encoding for BoolNullList. These values are deliberately
// chosen to coincide with the wire's own 2-bit optional-bool pattern
// (absent=0, true=1, false=2), so the codec's inline optional-bool
// primitive can share this mapping directly; see DESIGN.md.
const (
	TriAbsent uint32 = 0
	TriTrue   uint32 = 1
	TriFalse  uint32 = 2
)

// DecodeTriBool maps a raw 2-bit tri-bool code to (value, present).
func DecodeTriBool(raw uint32) (v bool, present bool) {
	switch raw {
	case TriTrue:
		return true, true
	case TriFalse:
		return false, true
	default:
		return false, false
	}
}

// EncodeTriBool maps (present, value) to its raw 2-bit tri-bool code.
func EncodeTriBool(present, v bool) uint32 {
	switch {
	case !present:
		return TriAbsent
	case v:
		return TriTrue
	default:
		return TriFalse
	}
}

// BoolNullList is a dense sequence of nullable booleans, packed 2 bits per
// item via the tri-bool encoding above.
type BoolNullList struct {
	*NullableList
}

// NewBoolNullList returns an empty BoolNullList.
func NewBoolNullList() *BoolNullList {
	return &BoolNullList{NullableList: NewNullableList(2, TriAbsent)}
}

// Append adds a new slot: present with value v, or null when present=false.
func (l *BoolNullList) Append(present, v bool) {
	l.List.Append(EncodeTriBool(present, v))
}

// Get reads index i, reporting its presence and (if present) its value.
func (l *BoolNullList) Get(i int) (v bool, present bool) {
	return DecodeTriBool(l.List.Get(i))
}
