package claims

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// Sweeper runs SweepExpired on a cron schedule so expired claims do not pin
// items in CLAIMED forever.
type Sweeper struct {
	svc  *Service
	cron *cron.Cron
}

func NewSweeper(svc *Service) *Sweeper {
	return &Sweeper{
		svc:  svc,
		cron: cron.New(cron.WithSeconds()),
	}
}

// Start schedules the sweep. spec is a six-field cron expression, e.g.
// "0 0 0 * * *" for midnight.
func (s *Sweeper) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		n, err := s.svc.SweepExpired(context.Background())
		if err != nil {
			log.Printf("[claims] sweep failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("[claims] sweep released %d expired claim(s)", n)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("[claims] expiry sweeper started (schedule %q)", spec)
	return nil
}

func (s *Sweeper) Stop() {
	s.cron.Stop()
}
