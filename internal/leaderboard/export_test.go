package leaderboard

import "time"

func (s *Syncer) SetNow(now func() time.Time) {
	s.now = now
}
