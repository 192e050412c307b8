package badgerdb

type Option func(*Badger)

// InMemory keeps everything in RAM, nothing survives Close.
func InMemory() Option {
	return func(b *Badger) {
		b.inMemory = true
	}
}
