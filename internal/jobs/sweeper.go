package jobs

import (
	"time"

	"github.com/rs/zerolog/log"
)

// IdleEvicter drops rate-limit buckets untouched for the given duration
// and reports how many were removed.
type IdleEvicter interface {
	EvictIdle(idleFor time.Duration) int
}

// SweeperJob periodically evicts idle rate-limit buckets so long-lived
// processes do not accumulate one bucket per distinct user forever.
type SweeperJob struct {
	evicter  IdleEvicter
	idleTTL  time.Duration
	interval time.Duration
	done     chan struct{}
}

func NewSweeperJob(evicter IdleEvicter, idleTTL, interval time.Duration) *SweeperJob {
	return &SweeperJob{
		evicter:  evicter,
		idleTTL:  idleTTL,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (j *SweeperJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Dur("idleTTL", j.idleTTL).Msg("bucket sweeper started")
}

func (j *SweeperJob) Stop() {
	close(j.done)
	log.Info().Msg("bucket sweeper stopped")
}

func (j *SweeperJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *SweeperJob) sweep() {
	count := j.evicter.EvictIdle(j.idleTTL)
	if count > 0 {
		log.Info().Int("count", count).Msg("evicted idle rate-limit buckets")
	}
}
