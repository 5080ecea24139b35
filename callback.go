// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

// Producer and Consumer are the only way application code plugs packets into
// a Transmitter/Receiver pair. The core never constructs, inspects,
// or dispatches a concrete packet type itself; it only drives whatever
// LeafSrc/LeafDst the callback hands back.

// Producer sources outbound packets for a Transmitter.
type Producer interface {
	// Sending is asked for the next packet to emit. ok=false means "nothing
	// to send right now" and causes Transmitter.Read to return (0, ErrWouldBlock)
	// when idle. id is written ahead of leaf's own bytes as the packet's
	// fixed-width identifier.
	Sending(tx *Transmitter) (id uint64, leaf LeafSrc, ok bool)

	// Sent acknowledges that leaf (and everything it produced) has been fully
	// written to the Transmitter's output.
	Sent(tx *Transmitter, leaf LeafSrc)
}

// SubscribableProducer is implemented by producers that can notify a
// Transmitter when new outbound bytes become available, letting the caller
// avoid busy-polling Transmitter.Read while idle. NewTransmitter
// type-asserts for this interface and subscribes automatically; see
// Transmitter.OnReadyToSend.
type SubscribableProducer interface {
	Producer
	SubscribeOnNewBytesToTransmitArrive(cb func())
}

// Consumer allocates and receives inbound packets for a Receiver.
type Consumer interface {
	// Receiving is asked to allocate a destination for packet id. ok=false
	// means "no decoder for this id": the id's bytes are
	// consumed and the Receiver falls back to idle.
	Receiving(rx *Receiver, id uint64) (leaf LeafDst, ok bool)

	// Received delivers a fully decoded root packet.
	Received(rx *Receiver, leaf LeafDst)
}

// LeafDst is a schema-specific decoder for one nesting level of a packet.
// PutBytes is called repeatedly as input arrives; returning
// done=true signals "this record is complete at the current level." A
// non-nil child means the Receiver must push a new frame and drive child
// before resuming this leaf.
type LeafDst interface {
	PutBytes(rx *Receiver) (child LeafDst, done bool)
}

// LeafSrc is the transmit-side counterpart of LeafDst.
type LeafSrc interface {
	GetBytes(tx *Transmitter) (child LeafSrc, done bool)
}

// BytesSrc and BytesDst are the transport-facing entry points. They may
// be called with arbitrary byte counts at arbitrary times, including n==0,
// which must return (0, nil) without side effects.
type BytesSrc interface {
	Read(buf []byte, off, n int) (int, error)
}

type BytesDst interface {
	Write(buf []byte, off, n int) (int, error)
}
