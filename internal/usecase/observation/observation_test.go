package observation

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/andreyxaxa/Seed-Manager/internal/dto"
	"github.com/andreyxaxa/Seed-Manager/internal/entity"
	"github.com/andreyxaxa/Seed-Manager/pkg/types/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	observations *fakeObservationRepo
	pictures     *fakePictureRepo
	blobs        *fakeBlobRepo
	outbox       *fakeOutboxRepo
	uc           *ObservationUseCase
}

func newFixture(opts ...func(f *fixture) Option) *fixture {
	f := &fixture{
		observations: newFakeObservationRepo(),
		pictures:     &fakePictureRepo{},
		blobs:        newFakeBlobRepo(),
		outbox:       &fakeOutboxRepo{},
	}

	ucOpts := make([]Option, 0, len(opts))
	for _, o := range opts {
		ucOpts = append(ucOpts, o(f))
	}

	f.uc = New(f.observations, f.pictures, fakeTransactor{}, quietLogger(), ucOpts...)

	return f
}

func withBlobs(f *fixture) Option  { return WithPictureBlobs(f.blobs) }
func withOutbox(f *fixture) Option { return WithOutbox(f.outbox) }

func sample() entity.Observation {
	return entity.Observation{
		QRCode:      "QR1",
		SeedID:      "S1",
		Germinated:  true,
		DateScanned: "2024-05-01",
		TimeScanned: "14:30",
	}
}

func TestCreateWithoutPictures(t *testing.T) {
	t.Parallel()
	f := newFixture()

	o := sample()
	o.HasPictures = true // client lies, store decides

	created, err := f.uc.Create(context.Background(), o, nil)
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.False(t, created.HasPictures)
	assert.True(t, created.Germinated)
	assert.Empty(t, f.pictures.forRecord(created.ID))
}

func TestCreateWithPicturesStoresBytes(t *testing.T) {
	t.Parallel()
	f := newFixture()

	pics := [][]byte{[]byte("one"), []byte("two")}

	created, err := f.uc.Create(context.Background(), sample(), pics)
	require.NoError(t, err)

	assert.True(t, created.HasPictures)
	stored := f.pictures.forRecord(created.ID)
	require.Len(t, stored, 2)
	assert.Equal(t, []byte("one"), stored[0].Data)
	assert.Nil(t, stored[0].ObjectKey)

	got, err := f.uc.ListPictures(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, pics, got)
}

func TestCreateWithBlobStorage(t *testing.T) {
	t.Parallel()
	f := newFixture(withBlobs)

	created, err := f.uc.Create(context.Background(), sample(), [][]byte{[]byte("jpeg-bytes")})
	require.NoError(t, err)

	stored := f.pictures.forRecord(created.ID)
	require.Len(t, stored, 1)
	require.NotNil(t, stored[0].ObjectKey)
	assert.Nil(t, stored[0].Data)
	assert.Contains(t, f.blobs.objects, *stored[0].ObjectKey)

	got, err := f.uc.GetPicture(context.Background(), stored[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), got)
}

func TestCreateFailureRemovesUploadedBlobs(t *testing.T) {
	t.Parallel()
	f := newFixture(withBlobs)
	f.observations.failOn = "create"

	_, err := f.uc.Create(context.Background(), sample(), [][]byte{[]byte("a"), []byte("b")})
	require.ErrorIs(t, err, errBoom)

	assert.Empty(t, f.blobs.objects)
	assert.Len(t, f.blobs.deleted, 2)
}

func TestUpdateAppendsPicturesToRecord(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.observations.records[7] = entity.Observation{ID: 7, QRCode: "QR7", SeedID: "S7", DateScanned: "2024-05-01", TimeScanned: "09:00"}

	o := sample()
	o.Usable = true

	updated, err := f.uc.Update(context.Background(), 7, o, [][]byte{[]byte("new")})
	require.NoError(t, err)

	assert.Equal(t, []int64{7}, f.observations.updates)
	stored := f.pictures.forRecord(7)
	require.Len(t, stored, 1)
	assert.Equal(t, int64(7), stored[0].SeedDataID)

	assert.Equal(t, int64(7), updated.ID)
	assert.True(t, updated.HasPictures)
	assert.True(t, updated.Usable)
	assert.Equal(t, "QR1", f.observations.records[7].QRCode)
}

func TestUpdateKeepsHasPicturesForExistingPictures(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.observations.records[3] = entity.Observation{ID: 3, QRCode: "QR3", SeedID: "S3", HasPictures: true}
	_, err := f.pictures.Create(context.Background(), &entity.Picture{SeedDataID: 3, Data: []byte("old")})
	require.NoError(t, err)

	updated, err := f.uc.Update(context.Background(), 3, sample(), nil)
	require.NoError(t, err)

	assert.True(t, updated.HasPictures)
	assert.Len(t, f.pictures.forRecord(3), 1)
}

func TestUpdateMissingRecord(t *testing.T) {
	t.Parallel()
	f := newFixture()

	_, err := f.uc.Update(context.Background(), 99, sample(), nil)
	assert.ErrorIs(t, err, errs.ErrRecordNotFound)
}

func TestDeleteRemovesBlobsAfterRecord(t *testing.T) {
	t.Parallel()
	f := newFixture(withBlobs)

	created, err := f.uc.Create(context.Background(), sample(), [][]byte{[]byte("x")})
	require.NoError(t, err)

	deleted, err := f.uc.Delete(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, deleted.ID)
	assert.Len(t, f.blobs.deleted, 1)
	assert.Empty(t, f.blobs.objects)

	_, err = f.uc.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, errs.ErrRecordNotFound)
}

func TestDeleteMissingRecord(t *testing.T) {
	t.Parallel()
	f := newFixture()

	_, err := f.uc.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, errs.ErrRecordNotFound)
}

func TestListPicturesNoneFound(t *testing.T) {
	t.Parallel()
	f := newFixture()

	created, err := f.uc.Create(context.Background(), sample(), nil)
	require.NoError(t, err)

	_, err = f.uc.ListPictures(context.Background(), created.ID)
	assert.ErrorIs(t, err, errs.ErrRecordNotFound)
}

func TestPage(t *testing.T) {
	t.Parallel()
	f := newFixture()

	for i := 0; i < 5; i++ {
		_, err := f.uc.Create(context.Background(), sample(), nil)
		require.NoError(t, err)
	}

	page, err := f.uc.Page(context.Background(), dto.Filter{}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Limit)
	require.Len(t, page.Data, 2)
	assert.Equal(t, int64(3), page.Data[0].ID)

	_, err = f.uc.Page(context.Background(), dto.Filter{}, 0, 25)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestWritesChangeEvents(t *testing.T) {
	t.Parallel()
	f := newFixture(withOutbox)
	ctx := context.Background()

	created, err := f.uc.Create(ctx, sample(), [][]byte{[]byte("p")})
	require.NoError(t, err)
	_, err = f.uc.Update(ctx, created.ID, sample(), nil)
	require.NoError(t, err)
	_, err = f.uc.Delete(ctx, created.ID)
	require.NoError(t, err)

	require.Len(t, f.outbox.events, 3)

	var changes []entity.ChangeType
	for _, e := range f.outbox.events {
		assert.Equal(t, created.ID, e.AggregateID)
		assert.Equal(t, entity.Pending, e.Status)

		var payload dto.ChangeEvent
		require.NoError(t, json.Unmarshal(e.Payload, &payload))
		assert.Equal(t, 1, payload.PictureCount)
		changes = append(changes, payload.Change)
	}
	assert.Equal(t, []entity.ChangeType{entity.Created, entity.Updated, entity.Deleted}, changes)

	pending, err := f.uc.GetPendingEvents(ctx, 3, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 3)
}

func TestOutboxDisabledIsNoop(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	events, err := f.uc.GetPendingEvents(ctx, 3, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NoError(t, f.uc.MarkMaxRetriesAsFailed(ctx, 3))
	assert.NoError(t, f.uc.CleanupOutbox(ctx))
}
