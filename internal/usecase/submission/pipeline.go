package submission

import (
	"context"
	"errors"
	"fmt"

	"github.com/andreyxaxa/Seed-Manager/internal/entity"
	"github.com/andreyxaxa/Seed-Manager/internal/usecase"
	"github.com/andreyxaxa/Seed-Manager/pkg/logger"
	"github.com/andreyxaxa/Seed-Manager/pkg/picturecodec"
	"github.com/andreyxaxa/Seed-Manager/pkg/types/errs"
	"golang.org/x/sync/errgroup"
)

const _defaultEncodeWorkers = 4

type Outcome string

const (
	OutcomeCreated  Outcome = "created"
	OutcomeUpdated  Outcome = "updated"
	OutcomeDeferred Outcome = "deferred"
	OutcomeFailed   Outcome = "failed"
)

const (
	MessageSuccess  = "Seed data successfully uploaded."
	MessageFailure  = "Failed to upload seed data."
	MessageDeferred = "You are offline. The seed data will be submitted when back online."
)

// Submission is one observation entered by the user. RecordID is set when
// editing an existing record.
type Submission struct {
	RecordID    *int64
	Observation entity.Observation
	ImagePaths  []string
}

type Result struct {
	Outcome Outcome
	Message string
	Record  *entity.Observation
}

type Pipeline struct {
	deliverer    usecase.Deliverer
	enqueuer     usecase.Enqueuer
	connectivity usecase.ConnectivityChecker

	encodeWorkers int

	logger logger.Interface
}

func New(
	deliverer usecase.Deliverer,
	enqueuer usecase.Enqueuer,
	connectivity usecase.ConnectivityChecker,
	l logger.Interface,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		deliverer:     deliverer,
		enqueuer:      enqueuer,
		connectivity:  connectivity,
		encodeWorkers: _defaultEncodeWorkers,
		logger:        l,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Submit sends the observation to the record store, or queues it when offline.
// The returned error wraps errs.ErrValidation, errs.ErrEncode or errs.ErrTransport;
// a deferred submission is not an error.
func (p *Pipeline) Submit(ctx context.Context, s Submission) (Result, error) {
	// 1. validate before any I/O
	if err := s.Observation.Validate(); err != nil {
		return failed(err.Error()), fmt.Errorf("Pipeline - Submit - s.Observation.Validate: %w", err)
	}
	s.Observation.Normalize()

	// 2. encode
	images, err := p.encode(ctx, s.ImagePaths)
	if err != nil {
		return failed(MessageFailure), fmt.Errorf("Pipeline - Submit - p.encode: %w", err)
	}

	// 3. payload
	s.Observation.ID = 0
	s.Observation.HasPictures = len(images) > 0
	payload := entity.QueuedSubmission{
		RecordID:    s.RecordID,
		Observation: s.Observation,
		Images:      images,
	}

	// 4. offline: queue and stop
	if !p.connectivity.Online(ctx) {
		if err := p.enqueuer.Enqueue(ctx, payload); err != nil {
			return failed(MessageFailure), fmt.Errorf("Pipeline - Submit - p.enqueuer.Enqueue: %w", err)
		}

		p.logger.Info("offline, submission qr_code=%s queued", s.Observation.QRCode)

		return Result{Outcome: OutcomeDeferred, Message: MessageDeferred}, nil
	}

	// 5. online: send now, never queue
	o, err := p.deliverer.Deliver(ctx, payload)
	if err != nil {
		p.logger.Error(err, "Pipeline - Submit - p.deliverer.Deliver")

		return failed(MessageFailure), fmt.Errorf("Pipeline - Submit - p.deliverer.Deliver: %w", asTransport(err))
	}

	outcome := OutcomeCreated
	if s.RecordID != nil {
		outcome = OutcomeUpdated
	}

	return Result{Outcome: outcome, Message: MessageSuccess, Record: o}, nil
}

// encode reads every file concurrently; the output keeps the input order.
func (p *Pipeline) encode(ctx context.Context, paths []string) ([]string, error) {
	images := make([]string, len(paths))
	if len(paths) == 0 {
		return images, nil
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(p.encodeWorkers)

	for i, path := range paths {
		g.Go(func() error {
			encoded, err := picturecodec.EncodeFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w: %w", path, errs.ErrEncode, err)
			}
			images[i] = encoded

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return images, nil
}

func failed(message string) Result {
	return Result{Outcome: OutcomeFailed, Message: message}
}

func asTransport(err error) error {
	if errors.Is(err, errs.ErrTransport) {
		return err
	}

	return fmt.Errorf("%w: %w", errs.ErrTransport, err)
}
