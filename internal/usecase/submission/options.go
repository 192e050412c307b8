package submission

type Option func(*Pipeline)

func EncodeWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.encodeWorkers = n
		}
	}
}
