// Package buffer provides a growable byte queue for wire frame assembly.
//
// # Overview
//
// The read loop of a connection accumulates raw socket bytes until complete
// frames can be extracted. A naive implementation reslices one mutable buffer
// per extracted frame, which degrades to quadratic copying under sustained
// push traffic. ByteQueue instead tracks an explicit consumed offset and
// compacts lazily, so appends and frame extraction stay amortized O(n) in
// bytes transferred.
//
// # Quick Start
//
//	q := buffer.NewByteQueue(0)
//	q.Append(chunk)
//
//	for {
//	    frame, consumed, err := frame.TryDecode(q.Bytes())
//	    if err != nil {
//	        q.Reset() // stream corrupted at an unknown boundary
//	        break
//	    }
//	    if frame == nil {
//	        break // incomplete, wait for more bytes
//	    }
//	    q.Discard(consumed)
//	    dispatch(frame)
//	}
//
// ByteQueue is not safe for concurrent use. It is owned exclusively by the
// read loop goroutine of one connection.
package buffer
