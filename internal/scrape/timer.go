package scrape

import (
	"fmt"
	"log"
	"time"
)

// fmtDur renders durations the way the step log reads best:
// "1h 23m 45.6s" / "12m 03.2s" / "4.2s".
func fmtDur(d time.Duration) string {
	sec := d.Seconds()
	if sec >= 3600 {
		h := int(sec) / 3600
		m := (int(sec) % 3600) / 60
		return fmt.Sprintf("%dh %dm %0.1fs", h, m, sec-float64(h*3600+m*60))
	}
	if sec >= 60 {
		m := int(sec) / 60
		return fmt.Sprintf("%dm %05.2fs", m, sec-float64(m*60))
	}
	return fmt.Sprintf("%0.2fs", sec)
}

// step runs one pipeline stage with a [time] log line either side. The
// timing lines are a debugging aid, not a contract surface.
func step(label string, fn func() error) error {
	t0 := time.Now()
	log.Printf("[time] ▶ %s …", label)
	err := fn()
	status := "OK"
	if err != nil {
		status = "ERR"
	}
	log.Printf("[time] ⏱ %s [%s] %s", label, status, fmtDur(time.Since(t0)))
	return err
}
