package ibox

import (
	"encoding/hex"
	"fmt"
)

// EncodeASCIIReply renders a successful reply's PID-and-payload bytes
// (pidAndPayload[0] is the PID, the rest is the hex-encoded data) into
// the ASCII record the iBox status report forwards uplink: "PID,HEX".
// This mirrors the prior implementation's hex_to_asc for the success
// path.
func EncodeASCIIReply(pidAndPayload []byte) string {
	if len(pidAndPayload) == 0 {
		return ""
	}
	pid := pidAndPayload[0]
	data := pidAndPayload[1:]
	return fmt.Sprintf("%03d,%s", pid, hex.EncodeToString(data))
}

// EncodeASCIIError renders a failed request (write error, timeout, or
// verify failure) as "PID?" so the server still observes the attempt,
// matching hex_to_asc's negative-length branch.
func EncodeASCIIError(pid PID) string {
	return fmt.Sprintf("%03d?", byte(pid))
}

// DecodeASCIICommand decodes a plain hex string (no separators) into
// command payload bytes, matching the prior implementation's
// asc_to_hex used to turn a server-supplied command string into the
// bytes sent to PID 205/206/208.
func DecodeASCIICommand(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	if len(s)%2 != 0 {
		s = s + "0"
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("ibox: decode command %q: %w", s, err)
	}
	return b, nil
}
