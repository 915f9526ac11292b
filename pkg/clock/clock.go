package clock

import (
	"context"
	"time"
)

//Sleeper blocks the calling flow for a duration
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

//System sleeps on the wall clock. A cancelled context cuts the wait short.
type System struct{}

func (System) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

//Recorder a virtual clock: Sleep returns at once and only advances Elapsed
type Recorder struct {
	Sleeps  []time.Duration
	Elapsed time.Duration

	//OnSleep runs after every recorded sleep, with the running total. A context
	//it cancels fails the sleep in progress.
	OnSleep func(elapsed time.Duration)
}

func (r *Recorder) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.Sleeps = append(r.Sleeps, d)
	r.Elapsed += d
	if r.OnSleep != nil {
		r.OnSleep(r.Elapsed)
	}
	return ctx.Err()
}

//Reset zero the recorded history
func (r *Recorder) Reset() {
	r.Sleeps = nil
	r.Elapsed = 0
}
