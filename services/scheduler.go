// services/scheduler.go
package services

import (
	"time"

	"movie-vote-system/logging"

	"github.com/go-co-op/gocron/v2"
)

// StartWindowScheduler runs the matchup lifecycle job: every minute, close
// voting windows whose end time has passed. No state machine is inferred
// from votes themselves — this scheduled task is the only transition.
func (s *MatchupService) StartWindowScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			closed, err := s.CloseExpired(time.Now())
			if err != nil {
				logging.Log.Errorf("[Scheduler] failed to close expired matchups: %v", err)
				return
			}
			if closed > 0 {
				logging.Log.Infof("[Scheduler] closed %d expired matchup(s)", closed)
			}
		}),
	)
}
