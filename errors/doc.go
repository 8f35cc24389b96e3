// Package errors provides standardized error handling patterns for the
// Emergent protocol engine.
//
// # Overview
//
// The errors package implements a three-class error classification system:
// Transient (temporary, retryable), Invalid (bad input, non-retryable), and
// Fatal (unrecoverable, stop processing). The classification lets callers
// decide between retry, graceful degradation, and teardown without matching
// on error strings.
//
// The protocol taxonomy maps onto the classes as follows:
//
//   - Transient: ErrSocketNotFound, ErrNotConnected, ErrConnectionLost,
//     ErrTimeout. The engine may come back and the operation may be retried.
//   - Invalid: ErrInvalidData, ErrEncoding, ErrFrameTooLarge. The caller
//     supplied something the wire cannot carry; retrying cannot help.
//   - Fatal: ErrProtocol (the byte stream cannot be trusted at the current
//     frame boundary), ErrClientClosed (the instance is disposed).
//
// Engine-reported request failures are surfaced as *RemoteError carrying the
// error code and message from the response envelope verbatim.
//
// # Quick Start
//
// Return standard error variables for known conditions:
//
//	if c.closed.Load() {
//	    return errors.ErrClientClosed
//	}
//
// Wrap errors with component context:
//
//	if err := enc.Encode(v); err != nil {
//	    return errors.WrapInvalid(err, "Codec", "Encode", "serialize payload")
//	}
//
// Classify at the handling site:
//
//	if errors.IsTransient(err) {
//	    // schedule retry
//	}
//
// The package interoperates with the standard library: all sentinels work
// with errors.Is, and ClassifiedError supports errors.As and Unwrap chains.
package errors
