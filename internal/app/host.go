package app

import (
	"context"
	"time"
)

// RunHost runs the host-station jobs until ctx is cancelled.
func (a *App) RunHost(ctx context.Context) error {
	sched := a.NewScheduler(ctx)
	if err := sched.Start(ctx, a.Config.Host.ResetSchedule); err != nil {
		return err
	}
	<-ctx.Done()

	// Give a running reset a moment to finish.
	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	sched.Stop(stopCtx)
	return nil
}
