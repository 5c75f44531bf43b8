// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountersAccumulateRegardlessOfEnabled(t *testing.T) {
	c := New(false)
	c.EventInserted()
	c.EventInserted()
	c.MaliceFinding()
	c.BlockDecided()

	snap := c.Snapshot()
	assert.Equal(t, int64(2), snap["events_inserted"])
	assert.Equal(t, int64(1), snap["malice_findings"])
	assert.Equal(t, int64(1), snap["blocks_decided"])
}

func TestLogSnapshotNoopWhenDisabledOrNil(t *testing.T) {
	var nilCounters *Counters
	assert.NotPanics(t, func() { nilCounters.LogSnapshot(nil) })

	c := New(false)
	c.EventInserted()
	assert.NotPanics(t, func() { c.LogSnapshot(nil) })
}
