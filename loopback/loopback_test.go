// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package loopback_test

import (
	"testing"

	"code.hybscloud.com/adhoc"
	"code.hybscloud.com/adhoc/loopback"
)

const echoID = 3

type echoMsg struct {
	n    uint32
	text string
}

type echoSrc struct {
	msg   echoMsg
	state int
}

func (e *echoSrc) GetBytes(tx *adhoc.Transmitter) (adhoc.LeafSrc, bool) {
	switch e.state {
	case 0:
		if !tx.WriteVarint4(e.msg.n) {
			return nil, false
		}
		e.state = 1
		fallthrough
	case 1:
		if !tx.WriteString(e.msg.text) {
			return nil, false
		}
		e.state = 2
	}
	return nil, true
}

type echoDst struct {
	msg   echoMsg
	state int
}

func (e *echoDst) PutBytes(rx *adhoc.Receiver) (adhoc.LeafDst, bool) {
	switch e.state {
	case 0:
		v, ok, err := rx.GetVarint4()
		if err != nil {
			panic(err)
		}
		if !ok {
			return nil, false
		}
		e.msg.n = v
		e.state = 1
		fallthrough
	case 1:
		s, ok, err := rx.GetString()
		if err != nil {
			panic(err)
		}
		if !ok {
			return nil, false
		}
		e.msg.text = s
		e.state = 2
	}
	return nil, true
}

type echoProducer struct {
	queue []echoMsg
	sent  []echoMsg
}

func (p *echoProducer) Sending(tx *adhoc.Transmitter) (uint64, adhoc.LeafSrc, bool) {
	if len(p.queue) == 0 {
		return 0, nil, false
	}
	msg := p.queue[0]
	p.queue = p.queue[1:]
	return echoID, &echoSrc{msg: msg}, true
}

func (p *echoProducer) Sent(tx *adhoc.Transmitter, leaf adhoc.LeafSrc) {
	p.sent = append(p.sent, leaf.(*echoSrc).msg)
}

type echoConsumer struct {
	received []echoMsg
}

func (c *echoConsumer) Receiving(rx *adhoc.Receiver, id uint64) (adhoc.LeafDst, bool) {
	if id != echoID {
		return nil, false
	}
	return &echoDst{}, true
}

func (c *echoConsumer) Received(rx *adhoc.Receiver, leaf adhoc.LeafDst) {
	c.received = append(c.received, leaf.(*echoDst).msg)
}

func TestPumpUntilBlockedDeliversAllQueued(t *testing.T) {
	msgs := []echoMsg{{n: 1, text: "one"}, {n: 2, text: "two"}, {n: 3, text: "three"}}
	prod := &echoProducer{queue: append([]echoMsg(nil), msgs...)}
	cons := &echoConsumer{}
	tx := adhoc.NewTransmitter(1, prod)
	rx := adhoc.NewReceiver(1, cons)
	lb := loopback.New(tx, rx, 4096)

	if _, err := lb.PumpUntilBlocked(); err != nil {
		t.Fatalf("PumpUntilBlocked: %v", err)
	}
	if len(cons.received) != len(msgs) {
		t.Fatalf("received %d packets, want %d", len(cons.received), len(msgs))
	}
	for i, want := range msgs {
		if cons.received[i] != want {
			t.Fatalf("packet %d: got %+v, want %+v", i, cons.received[i], want)
		}
	}
	if len(prod.sent) != len(msgs) {
		t.Fatalf("Sent called %d times, want %d", len(prod.sent), len(msgs))
	}
}

func TestPumpOnceWithSmallBufferNeedsMultipleCalls(t *testing.T) {
	msgs := []echoMsg{{n: 42, text: "small-buffer"}}
	prod := &echoProducer{queue: append([]echoMsg(nil), msgs...)}
	cons := &echoConsumer{}
	tx := adhoc.NewTransmitter(1, prod)
	rx := adhoc.NewReceiver(1, cons)
	lb := loopback.New(tx, rx, 1)

	calls := 0
	for {
		n, err := lb.PumpOnce()
		calls++
		if err == adhoc.ErrWouldBlock {
			break
		}
		if err != nil {
			t.Fatalf("PumpOnce: %v", err)
		}
		if n == 0 {
			t.Fatal("PumpOnce made no progress without reporting ErrWouldBlock")
		}
		if calls > 10_000 {
			t.Fatal("PumpOnce looping without ever finishing the packet")
		}
	}
	if len(cons.received) != 1 || cons.received[0] != msgs[0] {
		t.Fatalf("got %+v, want %+v", cons.received, msgs)
	}
	if calls < 2 {
		t.Fatalf("expected multiple 1-byte pumps, got %d calls", calls)
	}
}

func TestPumpOnceWithNothingQueuedReturnsWouldBlock(t *testing.T) {
	prod := &echoProducer{}
	cons := &echoConsumer{}
	tx := adhoc.NewTransmitter(1, prod)
	rx := adhoc.NewReceiver(1, cons)
	lb := loopback.New(tx, rx, 16)

	n, err := lb.PumpOnce()
	if n != 0 || err != adhoc.ErrWouldBlock {
		t.Fatalf("PumpOnce() = (%d, %v), want (0, ErrWouldBlock) with nothing queued", n, err)
	}
}
