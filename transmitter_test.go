// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

import "testing"

func TestTransmitterWriteFixedAcrossSuspension(t *testing.T) {
	tx := &Transmitter{}
	small := make([]byte, 2)
	tx.out = small
	if tx.WriteFixed(4, 0x01020304) {
		t.Fatal("WriteFixed should suspend: only 2 of 4 bytes fit")
	}
	if small[0] != 0x01 || small[1] != 0x02 {
		t.Fatalf("first two drained bytes = %x %x, want 01 02", small[0], small[1])
	}
	rest := make([]byte, 4)
	tx.out = rest
	if !tx.WriteFixed(4, 0x01020304) {
		t.Fatal("WriteFixed should complete once the rest drains")
	}
	if rest[0] != 0x03 || rest[1] != 0x04 {
		t.Fatalf("remaining drained bytes = %x %x, want 03 04", rest[0], rest[1])
	}
}

func TestTransmitterWriteFixedFastPath(t *testing.T) {
	tx := &Transmitter{}
	buf := make([]byte, 5)
	tx.out = buf
	if !tx.WriteFixed(2, 0xAABB) {
		t.Fatal("WriteFixed should complete in one shot with enough room")
	}
	if buf[0] != 0xAA || buf[1] != 0xBB {
		t.Fatalf("got %x %x, want aa bb", buf[0], buf[1])
	}
	if len(tx.out) != 3 {
		t.Fatalf("remaining out len = %d, want 3", len(tx.out))
	}
}

func TestPutBitsGetBitsRoundTrip(t *testing.T) {
	tx := &Transmitter{}
	buf := make([]byte, 1)
	tx.out = buf
	if !tx.PutBits(0b10100, 5) {
		t.Fatal("PutBits(5 bits) should complete without a full byte yet")
	}
	// 5 + 3 = 8 bits exactly completes the byte, flushing it to buf.
	if !tx.PutBits(0b101, 3) {
		t.Fatal("PutBits(3 bits) should flush the completed byte")
	}

	rx := &Receiver{}
	rx.InitBits()
	rx.cur = buf
	v1, ok := rx.GetBits(5)
	if !ok || v1 != 0b10100 {
		t.Fatalf("v1 = %05b ok=%v, want 10100 true", v1, ok)
	}
	v2, ok := rx.GetBits(3)
	if !ok || v2 != 0b101 {
		t.Fatalf("v2 = %03b ok=%v, want 101 true", v2, ok)
	}
}

func TestPutOptionalBoolGetOptionalBoolRoundTrip(t *testing.T) {
	cases := []struct {
		present bool
		value   bool
	}{
		{false, false},
		{true, true},
		{true, false},
	}
	for _, c := range cases {
		tx := &Transmitter{}
		buf := make([]byte, 1)
		tx.out = buf
		if !tx.PutOptionalBool(c.present, c.value) {
			t.Fatalf("present=%v value=%v: PutOptionalBool did not complete", c.present, c.value)
		}
		// PutOptionalBool only accumulates 2 bits; pad to a full byte so the
		// flush that writes buf actually happens, as it would once sibling
		// fields in the same leaf fill out the rest of the byte.
		if !tx.PutBits(0, 6) {
			t.Fatalf("present=%v value=%v: padding flush did not complete", c.present, c.value)
		}
		rx := &Receiver{}
		rx.InitBits()
		rx.cur = buf
		v, present, ok := rx.GetOptionalBool()
		if !ok || present != c.present || (present && v != c.value) {
			t.Fatalf("present=%v value=%v: got v=%v present=%v ok=%v", c.present, c.value, v, present, ok)
		}
	}
}

func TestWriteSizedVarintGetSizedVarintRoundTrip(t *testing.T) {
	// widthBits is 8 here so the prefix bit-field completes a byte on its
	// own; a narrower prefix only flushes once sibling bit fields in the
	// same leaf fill out the rest of the byte.
	const widthBits = 8
	const n = 3
	const val = uint64(0x0102AB)

	tx := &Transmitter{}
	buf := make([]byte, 8)
	tx.out = buf
	if !tx.WriteSizedVarint(widthBits, n, val) {
		t.Fatal("WriteSizedVarint did not complete with ample room")
	}

	rx := &Receiver{}
	rx.InitBits()
	rx.cur = buf
	got, ok, err := rx.GetSizedVarint(widthBits)
	if err != nil || !ok {
		t.Fatalf("GetSizedVarint: got=%v ok=%v err=%v", got, ok, err)
	}
	if got != val {
		t.Fatalf("got = %#x, want %#x", got, val)
	}
}

func TestWriteSizedVarintSuspendsAcrossTinyBuffers(t *testing.T) {
	const widthBits = 8
	const n = 2
	const val = uint64(0xBEEF)

	tx := &Transmitter{}
	var wire []byte
	for {
		buf := make([]byte, 1)
		tx.out = buf
		done := tx.WriteSizedVarint(widthBits, n, val)
		wire = append(wire, buf[:len(buf)-len(tx.out)]...)
		if done {
			break
		}
	}

	rx := &Receiver{}
	rx.InitBits()
	rx.cur = wire
	got, ok, err := rx.GetSizedVarint(widthBits)
	if err != nil || !ok || got != val {
		t.Fatalf("got=%#x ok=%v err=%v, want %#x true nil", got, ok, err, val)
	}
}

func TestPutNullByteScanNullBitmapRoundTrip(t *testing.T) {
	tx := &Transmitter{}
	buf := make([]byte, 1)
	tx.out = buf
	if !tx.PutNullByte(0b00010000) {
		t.Fatal("PutNullByte did not complete")
	}
	rx := &Receiver{}
	rx.cur = buf
	next, allAbsent, ok := rx.ScanNullBitmap(0)
	if !ok || allAbsent || next != 4 {
		t.Fatalf("got next=%d allAbsent=%v ok=%v, want 4 false true", next, allAbsent, ok)
	}
}

func TestTransmitterRejectsInvalidArgument(t *testing.T) {
	tx := NewTransmitter(0, &queueProducer{})
	if _, err := tx.Read(make([]byte, 4)); err != ErrInvalidArgument {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	tx2 := NewTransmitter(1, nil)
	if _, err := tx2.Read(make([]byte, 4)); err != ErrInvalidArgument {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}
