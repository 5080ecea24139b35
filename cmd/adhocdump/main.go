// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command adhocdump decodes a captured AdHoc byte stream from stdin (or a
// file argument) into a human-readable trace of packet ids and byte counts.
// It has no schema of its own: every packet is treated as an opaque blob,
// its id followed by a varint byte count and that many bytes, which is
// enough to sanity-check a capture's framing without generated leaf codecs.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"code.hybscloud.com/adhoc"
	"code.hybscloud.com/adhoc/internal/bo"
)

// traceConsumer treats every packet as a single opaque blob: its one LeafDst
// just counts bytes until the blob's declared length is reached.
type traceConsumer struct {
	count int
}

type blobLeaf struct {
	id   uint64
	want int
	got  int
}

func (c *traceConsumer) Receiving(rx *adhoc.Receiver, id uint64) (adhoc.LeafDst, bool) {
	return &blobLeaf{id: id, want: -1}, true
}

func (c *traceConsumer) Received(rx *adhoc.Receiver, leaf adhoc.LeafDst) {
	b := leaf.(*blobLeaf)
	c.count++
	fmt.Printf("packet #%d: id=%d bytes=%d\n", c.count, b.id, b.got)
}

func (b *blobLeaf) PutBytes(rx *adhoc.Receiver) (adhoc.LeafDst, bool) {
	if b.want < 0 {
		n, ok, err := rx.GetVarint4()
		if err != nil {
			return nil, false
		}
		if !ok {
			return nil, false
		}
		b.want = int(n)
	}
	for b.got < b.want {
		v, ok := rx.GetFixed(1)
		if !ok {
			return nil, false
		}
		_ = v
		b.got++
	}
	return nil, true
}

func main() {
	var idBytes int
	flag.IntVar(&idBytes, "id-bytes", 2, "width in bytes of the packet id prefix")
	flag.Parse()

	fmt.Fprintf(os.Stderr, "adhocdump: native byte order %v\n", bo.Native())

	var src io.Reader = os.Stdin
	if args := flag.Args(); len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		src = f
	}

	consumer := &traceConsumer{}
	rx := adhoc.NewReceiver(idBytes, consumer)

	buf := make([]byte, 4096)
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := rx.Write(buf[:n]); werr != nil {
				log.Fatalf("decode error: %v", werr)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			log.Fatal(rerr)
		}
	}
	fmt.Printf("decoded %d packets\n", consumer.count)
}
