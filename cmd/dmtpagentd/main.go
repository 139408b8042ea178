// Command dmtpagentd runs the telematics device agent: the iBox
// request/response engine, the uplink transport, the monitor workers,
// and the watchdog supervisor, wired together by internal/agent.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
