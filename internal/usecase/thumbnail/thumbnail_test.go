package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/andreyxaxa/Photo-Storage/internal/dto"
	"github.com/andreyxaxa/Photo-Storage/internal/entity"
	"github.com/andreyxaxa/Photo-Storage/internal/infrastructure/processor"
	"github.com/andreyxaxa/Photo-Storage/internal/usecase/imageprocessor"
	"github.com/andreyxaxa/Photo-Storage/pkg/logger"
	"github.com/andreyxaxa/Photo-Storage/pkg/types/errs"
	"github.com/google/uuid"
)

type storedBlob struct {
	data        []byte
	contentType string
	metadata    map[string]string
}

type fakeBlobRepo struct {
	mu     sync.Mutex
	blobs  map[string]storedBlob
	putErr error
	gets   int
}

func newFakeBlobRepo() *fakeBlobRepo {
	return &fakeBlobRepo{blobs: map[string]storedBlob{}}
}

func (r *fakeBlobRepo) Put(_ context.Context, key string, data io.Reader, _ int64, contentType string, metadata map[string]string) error {
	if r.putErr != nil {
		return r.putErr
	}

	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.blobs[key] = storedBlob{b, contentType, metadata}

	return nil
}

func (r *fakeBlobRepo) Get(ctx context.Context, key string) (*entity.Blob, error) {
	b, err := r.GetBytes(ctx, key)
	if err != nil {
		return nil, err
	}

	return &entity.Blob{Key: key, Size: int64(len(b)), Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (r *fakeBlobRepo) GetBytes(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.gets++
	b, ok := r.blobs[key]
	if !ok {
		return nil, errs.ErrBlobNotFound
	}

	return b.data, nil
}

func (r *fakeBlobRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.blobs, key)

	return nil
}

type fakePhotoRepo struct {
	mu      sync.Mutex
	photos  map[uuid.UUID]*entity.Photo
	failed  map[uuid.UUID]bool
	linkErr error
}

func (r *fakePhotoRepo) Create(_ context.Context, p *entity.Photo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.photos[p.ID] = p

	return nil
}

func (r *fakePhotoRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.photos[id]
	if !ok {
		return nil, errs.ErrRecordNotFound
	}

	return p, nil
}

func (r *fakePhotoRepo) SetThumbID(_ context.Context, id, thumbID uuid.UUID) error {
	if r.linkErr != nil {
		return r.linkErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.photos[id]
	if !ok {
		return errs.ErrRecordNotFound
	}
	p.ThumbID = &thumbID

	return nil
}

func (r *fakePhotoRepo) MarkThumbnailFailed(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.photos[id]; !ok {
		return errs.ErrRecordNotFound
	}
	r.failed[id] = true

	return nil
}

func (r *fakePhotoRepo) ListMissingThumbnails(context.Context, time.Time, int) ([]*entity.Photo, error) {
	return nil, nil
}

type fixture struct {
	uc        *ThumbnailUseCase
	photos    *fakePhotoRepo
	originals *fakeBlobRepo
	thumbs    *fakeBlobRepo
}

func newFixture() *fixture {
	f := &fixture{
		photos:    &fakePhotoRepo{photos: map[uuid.UUID]*entity.Photo{}, failed: map[uuid.UUID]bool{}},
		originals: newFakeBlobRepo(),
		thumbs:    newFakeBlobRepo(),
	}
	prc := imageprocessor.New(processor.New(), 5*time.Second)
	f.uc = New(f.photos, f.originals, f.thumbs, prc, logger.New("disabled"))

	return f
}

// addPhoto stores a PNG original and its record, as an accepted upload would.
func (f *fixture) addPhoto(t *testing.T) uuid.UUID {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 320, 200))
	for x := 0; x < 320; x++ {
		for y := 0; y < 200; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 64, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	id := uuid.New()
	f.originals.blobs[id.String()] = storedBlob{data: buf.Bytes(), contentType: "image/png"}
	f.photos.photos[id] = &entity.Photo{ID: id, BusinessID: "b1", ContentType: "image/png"}

	return id
}

func assertPermanent(t *testing.T, err error, want bool) {
	t.Helper()

	if err == nil {
		t.Fatal("expected error")
	}

	var pe *errs.PipelineError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *errs.PipelineError, got %T: %v", err, err)
	}
	if errs.IsPermanent(err) != want {
		t.Fatalf("expected permanent=%v, got %v (%v)", want, pe.Permanent, err)
	}
}

func TestGenerate(t *testing.T) {
	f := newFixture()
	id := f.addPhoto(t)

	err := f.uc.Generate(context.Background(), dto.GenerationRequest{PhotoID: id.String(), BusinessID: "b1"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	thumb, ok := f.thumbs.blobs[id.String()]
	if !ok {
		t.Fatal("thumbnail not stored under the photo id")
	}
	if thumb.contentType != "image/jpeg" {
		t.Fatalf("expected image/jpeg, got %s", thumb.contentType)
	}
	if thumb.metadata[entity.MetaOriginalPhotoID] != id.String() {
		t.Fatalf("expected original-photo-id metadata, got %v", thumb.metadata)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(thumb.data))
	if err != nil {
		t.Fatalf("thumbnail does not decode: %v", err)
	}
	if format != "jpeg" || cfg.Width != 100 || cfg.Height != 100 {
		t.Fatalf("expected 100x100 jpeg, got %dx%d %s", cfg.Width, cfg.Height, format)
	}

	photo := f.photos.photos[id]
	if photo.ThumbID == nil || *photo.ThumbID != id {
		t.Fatalf("expected thumbId == id, got %v", photo.ThumbID)
	}
}

func TestGenerateTwiceIsIdempotent(t *testing.T) {
	f := newFixture()
	id := f.addPhoto(t)
	req := dto.GenerationRequest{PhotoID: id.String(), BusinessID: "b1"}

	if err := f.uc.Generate(context.Background(), req); err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	first := f.thumbs.blobs[id.String()].data

	if err := f.uc.Generate(context.Background(), req); err != nil {
		t.Fatalf("second Generate: %v", err)
	}

	if len(f.thumbs.blobs) != 1 {
		t.Fatalf("expected one thumbnail, got %d", len(f.thumbs.blobs))
	}
	if !bytes.Equal(first, f.thumbs.blobs[id.String()].data) {
		t.Fatal("thumbnail changed on redelivery")
	}
	if *f.photos.photos[id].ThumbID != id {
		t.Fatal("thumbId changed on redelivery")
	}
}

func TestGenerateMalformedID(t *testing.T) {
	f := newFixture()

	err := f.uc.Generate(context.Background(), dto.GenerationRequest{PhotoID: "not-a-uuid"})
	assertPermanent(t, err, true)

	if !errors.Is(err, errs.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if f.originals.gets != 0 {
		t.Fatal("store must not be touched for a malformed id")
	}
}

func TestGenerateMissingOriginal(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	f.photos.photos[id] = &entity.Photo{ID: id}

	err := f.uc.Generate(context.Background(), dto.GenerationRequest{PhotoID: id.String()})
	assertPermanent(t, err, true)

	if len(f.thumbs.blobs) != 0 {
		t.Fatal("no thumbnail may be written for a missing original")
	}
	if f.photos.photos[id].ThumbID != nil {
		t.Fatal("record must stay unlinked")
	}
	if !f.photos.failed[id] {
		t.Fatal("photo must be marked as failed")
	}
}

func TestGenerateCorruptOriginal(t *testing.T) {
	f := newFixture()
	id := f.addPhoto(t)
	f.originals.blobs[id.String()] = storedBlob{data: []byte("garbage")}

	err := f.uc.Generate(context.Background(), dto.GenerationRequest{PhotoID: id.String()})
	assertPermanent(t, err, true)

	if !errors.Is(err, errs.ErrCorruptImage) {
		t.Fatalf("expected ErrCorruptImage, got %v", err)
	}
	if len(f.thumbs.blobs) != 0 {
		t.Fatal("no thumbnail may be written for a corrupt original")
	}
	if !f.photos.failed[id] {
		t.Fatal("photo must be marked as failed")
	}
}

func TestGenerateStoreFailureIsTransient(t *testing.T) {
	f := newFixture()
	id := f.addPhoto(t)
	f.thumbs.putErr = errors.New("bucket unavailable")

	err := f.uc.Generate(context.Background(), dto.GenerationRequest{PhotoID: id.String()})
	assertPermanent(t, err, false)

	if f.photos.photos[id].ThumbID != nil {
		t.Fatal("record must stay unlinked")
	}
	if f.photos.failed[id] {
		t.Fatal("transient failure must not mark the photo")
	}
}

func TestGenerateLinkFailureIsTransient(t *testing.T) {
	f := newFixture()
	id := f.addPhoto(t)
	f.photos.linkErr = errors.New("connection reset")

	err := f.uc.Generate(context.Background(), dto.GenerationRequest{PhotoID: id.String()})
	assertPermanent(t, err, false)
}

func TestGenerateMissingRecordRemovesThumbnail(t *testing.T) {
	f := newFixture()
	id := f.addPhoto(t)
	delete(f.photos.photos, id)

	err := f.uc.Generate(context.Background(), dto.GenerationRequest{PhotoID: id.String()})
	assertPermanent(t, err, true)

	if _, ok := f.thumbs.blobs[id.String()]; ok {
		t.Fatal("orphan thumbnail left behind")
	}
}

func TestGenerateCancelledFetchIsTransient(t *testing.T) {
	f := newFixture()
	id := f.addPhoto(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.uc.Generate(ctx, dto.GenerationRequest{PhotoID: id.String()})
	assertPermanent(t, err, false)

	if f.photos.failed[id] {
		t.Fatal("interrupted fetch must not mark the photo")
	}
}
