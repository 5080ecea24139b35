// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

import "testing"

func TestReceiverGetFixedAcrossSuspension(t *testing.T) {
	r := &Receiver{}
	r.cur = []byte{0x01, 0x02}
	if _, ok := r.GetFixed(4); ok {
		t.Fatal("GetFixed should not complete with only 2 of 4 bytes")
	}
	r.cur = []byte{0x03, 0x04}
	v, ok := r.GetFixed(4)
	if !ok {
		t.Fatal("GetFixed should complete once all 4 bytes arrive")
	}
	if v != 0x01020304 {
		t.Fatalf("v = %#x, want 0x01020304", v)
	}
}

func TestReceiverGetFixedFastPath(t *testing.T) {
	r := &Receiver{}
	r.cur = []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE}
	v, ok := r.GetFixed(2)
	if !ok || v != 0xAABB {
		t.Fatalf("v = %#x ok=%v, want 0xaabb true", v, ok)
	}
	if len(r.cur) != 3 {
		t.Fatalf("remaining cur len = %d, want 3", len(r.cur))
	}
}

func TestReceiverGetBitsSpanningBytes(t *testing.T) {
	r := &Receiver{}
	r.InitBits()
	r.cur = []byte{0b10110100, 0b00000011}
	// Pull 5 bits, then 4 bits spanning into the second byte.
	v1, ok := r.GetBits(5)
	if !ok || v1 != 0b10100 {
		t.Fatalf("v1 = %05b ok=%v, want 10100 true", v1, ok)
	}
	v2, ok := r.GetBits(4)
	if !ok {
		t.Fatal("GetBits should complete: a full second byte is available")
	}
	want := uint32(0b1101)
	if v2 != want {
		t.Fatalf("v2 = %04b, want %04b", v2, want)
	}
}

func TestReceiverGetBitsSuspendsOnEmptyInput(t *testing.T) {
	r := &Receiver{}
	r.InitBits()
	r.cur = nil
	if _, ok := r.GetBits(3); ok {
		t.Fatal("GetBits should suspend with no input")
	}
	r.cur = []byte{0xFF}
	v, ok := r.GetBits(3)
	if !ok || v != 0b111 {
		t.Fatalf("v = %03b ok=%v, want 111 true", v, ok)
	}
}

func TestReceiverGetOptionalBool(t *testing.T) {
	cases := []struct {
		bits    byte
		present bool
		value   bool
	}{
		{0b00, false, false},
		{0b01, true, true},
		{0b10, true, false},
	}
	for _, c := range cases {
		r := &Receiver{}
		r.InitBits()
		r.cur = []byte{c.bits}
		v, present, ok := r.GetOptionalBool()
		if !ok || present != c.present || (present && v != c.value) {
			t.Fatalf("bits=%02b: got v=%v present=%v ok=%v", c.bits, v, present, ok)
		}
	}
}

func TestReceiverScanNullBitmapFastForwardsZeroRun(t *testing.T) {
	r := &Receiver{}
	r.cur = []byte{0x00}
	next, allAbsent, ok := r.ScanNullBitmap(40)
	if !ok || !allAbsent || next != 48 {
		t.Fatalf("got next=%d allAbsent=%v ok=%v, want 48 true true", next, allAbsent, ok)
	}
}

func TestReceiverWriteRejectsInvalidArgument(t *testing.T) {
	r := NewReceiver(0, &captureConsumer{})
	if _, err := r.Write([]byte{1}); err != ErrInvalidArgument {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	r2 := NewReceiver(2, nil)
	if _, err := r2.Write([]byte{1}); err != ErrInvalidArgument {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}
