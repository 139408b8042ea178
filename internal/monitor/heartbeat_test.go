package monitor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ositech/dmtp-agent/internal/property"
)

func TestHeartbeatTouchesFileAtInterval(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetUint32(property.KeyStateAliveIntrvl, 0, 1))

	hb := NewHeartbeat(store)
	hb.path = filepath.Join(t.TempDir(), "alive")

	ctx, cancel := context.WithTimeout(context.Background(), 1200*time.Millisecond)
	defer cancel()
	_ = hb.Run(ctx)

	_, err := os.Stat(hb.path)
	assert.NoError(t, err)
}
