package observation

import "github.com/andreyxaxa/Seed-Manager/internal/repo"

type Option func(*ObservationUseCase)

// WithPictureBlobs stores picture bytes in blob storage instead of postgres.
func WithPictureBlobs(r repo.PictureBlobRepo) Option {
	return func(uc *ObservationUseCase) {
		uc.blobRepo = r
	}
}

// WithOutbox records a change event for every write.
func WithOutbox(r repo.OutboxRepo) Option {
	return func(uc *ObservationUseCase) {
		uc.outboxRepo = r
	}
}
