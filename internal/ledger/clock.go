package ledger

import (
	"sync/atomic"
	"time"
)

// Clock supplies the current block height. Rental expiry and controller
// checks compare stored expiries against this value; there is no timer.
type Clock interface {
	CurrentBlock() uint64
}

// TickingClock derives a block height from wall time at a fixed cadence,
// standing in for the host chain's head when running outside one.
type TickingClock struct {
	genesis  time.Time
	interval time.Duration
}

func NewTickingClock(interval time.Duration) *TickingClock {
	return &TickingClock{genesis: time.Now(), interval: interval}
}

func (c *TickingClock) CurrentBlock() uint64 {
	return uint64(time.Since(c.genesis) / c.interval)
}

// ManualClock is advanced explicitly. Used by tests and by tooling that
// replays recorded chain state.
type ManualClock struct {
	block uint64
}

func NewManualClock(block uint64) *ManualClock {
	return &ManualClock{block: block}
}

func (c *ManualClock) CurrentBlock() uint64 {
	return atomic.LoadUint64(&c.block)
}

func (c *ManualClock) SetBlock(block uint64) {
	atomic.StoreUint64(&c.block, block)
}

func (c *ManualClock) Advance(blocks uint64) {
	atomic.AddUint64(&c.block, blocks)
}
