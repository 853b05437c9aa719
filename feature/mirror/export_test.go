package mirror

import "time"

// SetNow overrides the clock the service derives run windows from.
func (s *Service) SetNow(now func() time.Time) {
	s.now = now
}
