package arena

import "sync/atomic"

// StopFlag is shared by every task of one match. It only ever goes from
// running to stopped.
type StopFlag struct {
	stopped atomic.Bool
}

// Stop marks the match as stopped.
func (f *StopFlag) Stop() { f.stopped.Store(true) }

// Stopped reports whether Stop was called.
func (f *StopFlag) Stopped() bool { return f.stopped.Load() }

// Progress counts games finished across a whole tournament. It is only used
// for progress output.
type Progress struct {
	games atomic.Int64
}

// Add records n more finished games and returns the new total.
func (p *Progress) Add(n int) int64 {
	if p == nil {
		return 0
	}
	return p.games.Add(int64(n))
}

// Games returns the number of finished games.
func (p *Progress) Games() int64 {
	if p == nil {
		return 0
	}
	return p.games.Load()
}
