package connectivity

import "time"

type Option func(*Monitor)

func Interval(interval time.Duration) Option {
	return func(m *Monitor) {
		m.interval = interval
	}
}

func ProbeTimeout(timeout time.Duration) Option {
	return func(m *Monitor) {
		m.probeTimeout = timeout
	}
}
