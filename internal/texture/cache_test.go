package texture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/Garsondee/Drift-Gallery/internal/catalog"
)

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	return img
}

type sizeTexture struct{ w, h int }

func uploadSize(img image.Image) sizeTexture {
	return sizeTexture{img.Bounds().Dx(), img.Bounds().Dy()}
}

func TestCache_RequestIsPendingUntilPoll(t *testing.T) {
	var loads atomic.Int32
	c := NewCache(LoaderFunc(func(ctx context.Context, index int) (image.Image, error) {
		loads.Add(1)
		return solid(index+1, 1), nil
	}), uploadSize, 2, nil)
	defer c.Close()

	e := c.Request(3)
	if e.Ready {
		t.Fatal("entry must start pending")
	}
	c.Wait()
	if e.Ready {
		t.Fatal("entry must stay pending until Poll runs on the frame thread")
	}
	if n := c.Poll(); n != 1 {
		t.Fatalf("expected 1 upload, got %d", n)
	}
	if !e.Ready || e.Value.w != 4 {
		t.Fatalf("expected ready 4px texture, got %+v", e)
	}
	if loads.Load() != 1 {
		t.Fatalf("expected one load, got %d", loads.Load())
	}
}

func TestCache_RepeatRequestsShareEntry(t *testing.T) {
	var loads atomic.Int32
	c := NewCache(LoaderFunc(func(ctx context.Context, index int) (image.Image, error) {
		loads.Add(1)
		return solid(1, 1), nil
	}), uploadSize, 4, nil)
	defer c.Close()

	a := c.Request(7)
	b := c.Request(7)
	c.Wait()
	c.Poll()
	if a != b {
		t.Fatal("expected the same entry for repeated requests")
	}
	if loads.Load() != 1 {
		t.Fatalf("expected a single load, got %d", loads.Load())
	}
}

func TestCache_NeverEvicts(t *testing.T) {
	c := NewCache(LoaderFunc(func(ctx context.Context, index int) (image.Image, error) {
		return solid(1, 1), nil
	}), uploadSize, 8, nil)
	defer c.Close()

	for i := 0; i < 500; i++ {
		c.Request(i)
	}
	c.Wait()
	if n := c.Poll(); n != 500 {
		t.Fatalf("expected 500 uploads, got %d", n)
	}
	if c.Len() != 500 || c.Pending() != 0 {
		t.Fatalf("expected 500 ready entries, len=%d pending=%d", c.Len(), c.Pending())
	}
	for i := 0; i < 500; i++ {
		if e, ok := c.Get(i); !ok || !e.Ready {
			t.Fatalf("entry %d missing or not ready", i)
		}
	}
}

func TestCache_FailureMarksEntry(t *testing.T) {
	c := NewCache(LoaderFunc(func(ctx context.Context, index int) (image.Image, error) {
		return nil, errors.New("missing")
	}), uploadSize, 1, nil)
	defer c.Close()

	e := c.Request(0)
	c.Wait()
	if n := c.Poll(); n != 0 {
		t.Fatalf("expected no uploads, got %d", n)
	}
	if e.Ready || !e.Failed {
		t.Fatalf("expected failed entry, got %+v", e)
	}
	if c.Pending() != 0 {
		t.Fatal("failed entries are not pending")
	}
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, solid(w, h), nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestSourceLoader_DecodesAndFits(t *testing.T) {
	fsys := fstest.MapFS{
		catalog.ImagePath(0): &fstest.MapFile{Data: jpegBytes(t, 800, 400)},
	}
	l := SourceLoader{Source: catalog.NewDirSource(fsys, ""), MaxSize: 256}
	img, err := l.Load(context.Background(), 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 256 || b.Dy() != 128 {
		t.Fatalf("expected 256x128, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestSourceLoader_MissingAsset(t *testing.T) {
	l := SourceLoader{Source: catalog.NewDirSource(fstest.MapFS{}, "")}
	_, err := l.Load(context.Background(), 9)
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFit_SmallImageUntouched(t *testing.T) {
	src := solid(10, 20)
	if Fit(src, 64) != src {
		t.Fatal("expected image within limit to be returned as-is")
	}
	if Fit(src, 0) != src {
		t.Fatal("expected zero limit to disable scaling")
	}
}

func TestFit_TallImage(t *testing.T) {
	out := Fit(solid(100, 400), 100)
	if b := out.Bounds(); b.Dx() != 25 || b.Dy() != 100 {
		t.Fatalf("expected 25x100, got %dx%d", b.Dx(), b.Dy())
	}
}
