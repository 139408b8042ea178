package ibox

import (
	"errors"
	"fmt"
)

// ErrVerify is returned by VerifyReply when no valid frame could be
// found in the supplied buffer: either the MID/PID pair never
// appeared, or the frame it did appear in failed checksum.
var ErrVerify = errors.New("ibox: reply verification failed")

// minFrameLen is the shortest possible frame: MID, flags, PID, checksum.
const minFrameLen = 4

// checksum returns the byte that makes the two's-complement sum of b
// equal zero modulo 256 when appended.
func checksum(b []byte) byte {
	var sum byte
	for _, v := range b {
		sum += v
	}
	return byte(-int8(sum))
}

// verifyChecksum reports whether the two's-complement sum of frame
// (including its trailing checksum byte) is zero.
func verifyChecksum(frame []byte) bool {
	var sum byte
	for _, v := range frame {
		sum += v
	}
	return sum == 0
}

// BuildRequest constructs an outgoing request frame: {MID, 0x00, PID}
// followed by an optional command payload, followed by a checksum
// byte computed over the whole frame.
func BuildRequest(mid byte, pid PID, payload []byte) []byte {
	frame := make([]byte, 0, minFrameLen+len(payload))
	frame = append(frame, mid, 0x00, byte(pid))
	frame = append(frame, payload...)
	frame = append(frame, checksum(frame))
	return frame
}

// BuildReply constructs a device reply frame the way thermo.c's
// verify_msg/find_MID/verify_PID expect one shaped: {MID, PID} with no
// flags byte in between, followed by the reply payload and a checksum
// byte. This is distinct from BuildRequest's outgoing layout, which
// carries a flags byte between MID and PID; callers that need to
// fabricate a reply (tests, simulators) must use this constructor
// rather than BuildRequest.
func BuildReply(mid byte, pid PID, data []byte) []byte {
	frame := make([]byte, 0, 3+len(data))
	frame = append(frame, mid, byte(pid))
	frame = append(frame, data...)
	frame = append(frame, checksum(frame))
	return frame
}

// VerifyReply slides a cursor across buf looking for a byte equal to
// mid immediately followed by a byte equal to pid; once found, it
// requires at least minFrameLen bytes remain and that their
// two's-complement sum is zero. It returns the PID-and-payload
// portion of the accepted frame (MID and the trailing checksum byte
// stripped), matching the prior implementation's convention of
// passing the requester "PID plus data" onward.
//
// This resync is deliberate: a reply is never trusted unless its own
// request was issued first, so noise or a stale partial frame ahead
// of the real reply cannot poison the result.
func VerifyReply(buf []byte, mid byte, pid PID) ([]byte, error) {
	for i := 0; i+minFrameLen <= len(buf); i++ {
		if buf[i] != mid {
			continue
		}
		if buf[i+1] != byte(pid) {
			continue
		}
		frame := buf[i:]
		if !verifyChecksum(frame) {
			return nil, fmt.Errorf("%w: pid %d: bad checksum", ErrVerify, pid)
		}
		return frame[1 : len(frame)-1], nil
	}
	return nil, fmt.Errorf("%w: pid %d: mid/pid not found in %d bytes", ErrVerify, pid, len(buf))
}
