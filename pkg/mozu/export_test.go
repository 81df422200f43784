package mozu

import "time"

func (a *AppAuthenticator) SetClock(now func() time.Time) {
	a.now = now
}
