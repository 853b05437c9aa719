package notion

import "time"

// SetPause overrides the retry pause so tests do not sit through the real
// one second delay.
func (c *Client) SetPause(d time.Duration) {
	c.pause = d
}
