package submission

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/andreyxaxa/Seed-Manager/internal/entity"
	"github.com/andreyxaxa/Seed-Manager/pkg/logger"
	"github.com/andreyxaxa/Seed-Manager/pkg/picturecodec"
	"github.com/andreyxaxa/Seed-Manager/pkg/types/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeliverer struct {
	mu    sync.Mutex
	calls []entity.QueuedSubmission
	err   error
}

func (d *fakeDeliverer) Deliver(_ context.Context, sub entity.QueuedSubmission) (*entity.Observation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.calls = append(d.calls, sub)
	if d.err != nil {
		return nil, d.err
	}

	o := sub.Observation
	o.ID = 42
	if sub.RecordID != nil {
		o.ID = *sub.RecordID
	}

	return &o, nil
}

type fakeEnqueuer struct {
	queued []entity.QueuedSubmission
}

func (e *fakeEnqueuer) Enqueue(_ context.Context, sub entity.QueuedSubmission) error {
	e.queued = append(e.queued, sub)
	return nil
}

type fakeConnectivity bool

func (c fakeConnectivity) Online(context.Context) bool { return bool(c) }

type fixture struct {
	deliverer *fakeDeliverer
	enqueuer  *fakeEnqueuer
	pipeline  *Pipeline
}

func newFixture(online bool) *fixture {
	f := &fixture{deliverer: &fakeDeliverer{}, enqueuer: &fakeEnqueuer{}}
	f.pipeline = New(f.deliverer, f.enqueuer, fakeConnectivity(online), logger.NewWithWriter("error", io.Discard))

	return f
}

func sample() entity.Observation {
	return entity.Observation{
		QRCode:      "QR1",
		SeedID:      "S1",
		Germinated:  true,
		DateScanned: "2024-05-01",
		TimeScanned: "14:30",
	}
}

func writeFiles(t *testing.T, contents ...string) []string {
	t.Helper()
	dir := t.TempDir()

	paths := make([]string, 0, len(contents))
	for i, c := range contents {
		p := filepath.Join(dir, string(rune('a'+i))+".jpg")
		require.NoError(t, os.WriteFile(p, []byte(c), 0o600))
		paths = append(paths, p)
	}

	return paths
}

func TestSubmitOnlineCreate(t *testing.T) {
	t.Parallel()
	f := newFixture(true)

	res, err := f.pipeline.Submit(context.Background(), Submission{Observation: sample()})
	require.NoError(t, err)

	assert.Equal(t, OutcomeCreated, res.Outcome)
	assert.Equal(t, MessageSuccess, res.Message)
	require.NotNil(t, res.Record)
	assert.Equal(t, int64(42), res.Record.ID)
	assert.False(t, res.Record.HasPictures)

	require.Len(t, f.deliverer.calls, 1)
	assert.Nil(t, f.deliverer.calls[0].RecordID)
	assert.Empty(t, f.enqueuer.queued)
}

func TestSubmitOfflineDefers(t *testing.T) {
	t.Parallel()
	f := newFixture(false)

	res, err := f.pipeline.Submit(context.Background(), Submission{Observation: sample()})
	require.NoError(t, err)

	assert.Equal(t, OutcomeDeferred, res.Outcome)
	assert.Equal(t, MessageDeferred, res.Message)
	assert.Nil(t, res.Record)
	assert.Len(t, f.enqueuer.queued, 1)
	assert.Empty(t, f.deliverer.calls)
}

func TestSubmitUpdateWithImage(t *testing.T) {
	t.Parallel()
	f := newFixture(true)
	id := int64(7)

	res, err := f.pipeline.Submit(context.Background(), Submission{
		RecordID:    &id,
		Observation: sample(),
		ImagePaths:  writeFiles(t, "img"),
	})
	require.NoError(t, err)

	assert.Equal(t, OutcomeUpdated, res.Outcome)
	require.Len(t, f.deliverer.calls, 1)
	sent := f.deliverer.calls[0]
	require.NotNil(t, sent.RecordID)
	assert.Equal(t, int64(7), *sent.RecordID)
	assert.Len(t, sent.Images, 1)
	assert.True(t, sent.Observation.HasPictures)
}

func TestSubmitEncodesImagesInOrder(t *testing.T) {
	t.Parallel()
	f := newFixture(false)
	contents := []string{"first", "second", "third", "fourth", "fifth", "sixth"}

	_, err := f.pipeline.Submit(context.Background(), Submission{
		Observation: sample(),
		ImagePaths:  writeFiles(t, contents...),
	})
	require.NoError(t, err)

	require.Len(t, f.enqueuer.queued, 1)
	queued := f.enqueuer.queued[0]
	assert.True(t, queued.Observation.HasPictures)
	require.Len(t, queued.Images, len(contents))
	for i, c := range contents {
		decoded, err := picturecodec.Decode(queued.Images[i])
		require.NoError(t, err)
		assert.Equal(t, []byte(c), decoded)
	}
}

func TestSubmitHasPicturesFollowsImages(t *testing.T) {
	t.Parallel()
	f := newFixture(true)

	o := sample()
	o.HasPictures = true

	_, err := f.pipeline.Submit(context.Background(), Submission{Observation: o})
	require.NoError(t, err)

	require.Len(t, f.deliverer.calls, 1)
	assert.False(t, f.deliverer.calls[0].Observation.HasPictures)
}

func TestSubmitValidationFailsBeforeIO(t *testing.T) {
	t.Parallel()

	for _, online := range []bool{true, false} {
		f := newFixture(online)
		o := sample()
		o.SeedID = ""

		res, err := f.pipeline.Submit(context.Background(), Submission{Observation: o})
		require.ErrorIs(t, err, errs.ErrValidation)

		assert.Equal(t, OutcomeFailed, res.Outcome)
		assert.Contains(t, res.Message, "seed_id")
		assert.Empty(t, f.deliverer.calls)
		assert.Empty(t, f.enqueuer.queued)
	}
}

func TestSubmitUnreadableImageAborts(t *testing.T) {
	t.Parallel()

	for _, online := range []bool{true, false} {
		f := newFixture(online)
		paths := append(writeFiles(t, "ok"), filepath.Join(t.TempDir(), "missing.jpg"))

		res, err := f.pipeline.Submit(context.Background(), Submission{Observation: sample(), ImagePaths: paths})
		require.ErrorIs(t, err, errs.ErrEncode)

		assert.Equal(t, OutcomeFailed, res.Outcome)
		assert.Empty(t, f.deliverer.calls)
		assert.Empty(t, f.enqueuer.queued)
	}
}

func TestSubmitTransportFailureIsNotQueued(t *testing.T) {
	t.Parallel()
	f := newFixture(true)
	f.deliverer.err = errors.New("500 internal server error")

	res, err := f.pipeline.Submit(context.Background(), Submission{Observation: sample()})
	require.ErrorIs(t, err, errs.ErrTransport)

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, MessageFailure, res.Message)
	assert.Len(t, f.deliverer.calls, 1)
	assert.Empty(t, f.enqueuer.queued)
}

func TestSubmitEmptyImageIsNeverQueued(t *testing.T) {
	t.Parallel()

	for _, online := range []bool{true, false} {
		f := newFixture(online)
		paths := writeFiles(t, "ok", "")

		res, err := f.pipeline.Submit(context.Background(), Submission{Observation: sample(), ImagePaths: paths})
		require.ErrorIs(t, err, errs.ErrEncode)
		require.ErrorIs(t, err, picturecodec.ErrEmptyFile)

		assert.Equal(t, OutcomeFailed, res.Outcome)
		assert.Empty(t, f.deliverer.calls)
		assert.Empty(t, f.enqueuer.queued)
	}
}
