package inresolver

import "time"

const previewMaxAge = 10 * time.Minute

func (s *Inr) runJobs() {
	s.scheduler.Every(30).Seconds().SingletonMode().Do(s.updateTabMetrics)
	s.scheduler.Every(1).Minute().SingletonMode().Do(s.sweepPreviews)

	s.scheduler.StartAsync()
}

func (s *Inr) updateTabMetrics() {
	n, err := s.tabs.Count()
	if err != nil {
		log.Error("s.tabs.Count()", "err", err)
		return
	}
	tabEntriesGauge.Set(float64(n))
}

// sweepPreviews drops finished countdowns and ones whose page went away
// without saying so.
func (s *Inr) sweepPreviews() {
	if n := s.previews.Sweep(previewMaxAge); n > 0 {
		log.Debug("swept preview sessions", "count", n)
	}
	previewSessionsGauge.Set(float64(s.previews.Len()))
}
