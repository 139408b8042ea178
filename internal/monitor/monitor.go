// Package monitor implements the agent's ancillary background
// workers: RTS line-state polling, an alive-file heartbeat, and
// one-shot cellular signal/firmware snapshot calls.
package monitor

import "context"

// Worker is a long-lived background job started by internal/agent.
// Run blocks until ctx is cancelled.
type Worker interface {
	Run(ctx context.Context) error
}
