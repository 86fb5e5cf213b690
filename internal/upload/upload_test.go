package upload

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"
)

func makePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func makeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func decodeDataURL(t *testing.T, url string) (string, image.Image) {
	t.Helper()
	header, payload, ok := strings.Cut(url, ";base64,")
	if !ok || !strings.HasPrefix(header, "data:") {
		t.Fatalf("not a data URL: %.40s", url)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return strings.TrimPrefix(header, "data:"), nil
	}
	return strings.TrimPrefix(header, "data:"), img
}

func TestDetectContentType(t *testing.T) {
	pngData := makePNG(t, 2, 2)

	tests := []struct {
		name     string
		declared string
		data     []byte
		want     string
	}{
		{"declared jpeg", "image/jpeg", []byte("x"), "image/jpeg"},
		{"legacy jpg alias", "image/jpg", []byte("x"), "image/jpeg"},
		{"declared png with params", "image/PNG; charset=binary", []byte("x"), "image/png"},
		{"declared gif", "image/gif", pngData, ""},
		{"declared text", "text/plain", pngData, ""},
		{"missing type sniffed", "", pngData, "image/png"},
		{"generic type sniffed", "application/octet-stream", makeJPEG(t, 2, 2), "image/jpeg"},
		{"missing type not image", "", []byte("hello world"), ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectContentType(tc.declared, tc.data); got != tc.want {
				t.Errorf("DetectContentType(%q) = %q, want %q", tc.declared, got, tc.want)
			}
		})
	}
}

func TestIsAcceptedType(t *testing.T) {
	for _, ct := range []string{"image/jpeg", "image/jpg", "image/png"} {
		if !IsAcceptedType(ct) {
			t.Errorf("expected %s to be accepted", ct)
		}
	}
	for _, ct := range []string{"image/gif", "image/webp", "application/pdf", ""} {
		if IsAcceptedType(ct) {
			t.Errorf("expected %q to be rejected", ct)
		}
	}
}

func TestThumbnail_Downscales(t *testing.T) {
	thumb, ct, err := Thumbnail(makePNG(t, 400, 200), "image/png", 100)
	if err != nil {
		t.Fatalf("Thumbnail failed: %v", err)
	}
	if ct != "image/png" {
		t.Errorf("expected png output, got %s", ct)
	}
	img, _, err := image.Decode(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("thumbnail does not decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("expected 100x50, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestThumbnail_KeepsSmallImages(t *testing.T) {
	thumb, ct, err := Thumbnail(makeJPEG(t, 40, 60), "image/jpeg", 256)
	if err != nil {
		t.Fatalf("Thumbnail failed: %v", err)
	}
	if ct != "image/jpeg" {
		t.Errorf("expected jpeg output, got %s", ct)
	}
	img, _, err := image.Decode(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("thumbnail does not decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 60 {
		t.Errorf("expected 40x60, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestPreviewURL_FallsBackToRawBytes(t *testing.T) {
	raw := []byte("not really a jpeg")
	url := PreviewURL(raw, "image/jpeg", 100)

	want := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw)
	if url != want {
		t.Errorf("expected raw data URL, got %q", url)
	}
}

func TestBatch_ValidFilesProducePreviews(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		b := NewBatch(64)
		for range n {
			b.Add("face.png", "image/png", makePNG(t, 10, 10))
		}

		if len(b.Files) != n {
			t.Errorf("n=%d: expected %d previews, got %d", n, n, len(b.Files))
		}
		if b.SubmitEnabled() != (n >= 1) {
			t.Errorf("n=%d: unexpected submit state %v", n, b.SubmitEnabled())
		}
		for _, f := range b.Files {
			ct, img := decodeDataURL(t, f.Preview)
			if ct != "image/png" || img == nil {
				t.Errorf("n=%d: invalid preview for %s", n, f.Name)
			}
		}
	}
}

func TestBatch_MixedFiles(t *testing.T) {
	b := NewBatch(64)
	b.Add("a.jpg", "image/jpeg", makeJPEG(t, 8, 8))
	b.Add("notes.txt", "text/plain", []byte("hello"))
	b.Add("b.png", "image/png", makePNG(t, 8, 8))
	b.Add("anim.gif", "image/gif", []byte("GIF89a"))

	if len(b.Files) != 2 {
		t.Fatalf("expected 2 previews, got %d", len(b.Files))
	}
	if b.Files[0].Name != "a.jpg" || b.Files[1].Name != "b.png" {
		t.Errorf("unexpected accepted files %v, %v", b.Files[0].Name, b.Files[1].Name)
	}
	notices := b.Notices()
	if len(notices) != 2 {
		t.Fatalf("expected 2 rejection notices, got %v", notices)
	}
	if notices[0] != "notes.txt: Please upload only image files (JPEG, PNG)" {
		t.Errorf("unexpected notice %q", notices[0])
	}
	if !b.SubmitEnabled() {
		t.Error("expected submit to stay enabled with valid files")
	}
}

func TestBatch_RemoveLastPreviewDisablesSubmit(t *testing.T) {
	b := NewBatch(64)
	b.Add("a.png", "image/png", makePNG(t, 4, 4))
	b.Add("b.png", "image/png", makePNG(t, 4, 4))

	if !b.Remove(b.Files[0].ID) {
		t.Fatal("expected first removal to succeed")
	}
	if !b.SubmitEnabled() {
		t.Error("expected submit enabled with one preview left")
	}
	if b.Remove("missing") {
		t.Error("expected removal of unknown id to fail")
	}
	if !b.Remove(b.Files[0].ID) {
		t.Fatal("expected second removal to succeed")
	}
	if b.SubmitEnabled() {
		t.Error("expected submit disabled after last preview removed")
	}
}

func TestBatch_UploadFiles(t *testing.T) {
	data := makePNG(t, 4, 4)
	b := NewBatch(64)
	b.Add("a.png", "", data)

	files := b.UploadFiles()
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	if files[0].ContentType != "image/png" || !bytes.Equal(files[0].Data, data) {
		t.Errorf("unexpected upload file %s %s", files[0].Name, files[0].ContentType)
	}
	if b.Size() != int64(len(data)) {
		t.Errorf("unexpected size %d", b.Size())
	}
}

func TestStage_Lifecycle(t *testing.T) {
	s := NewStage(time.Hour)
	now := time.Now()
	s.now = func() time.Time { return now }

	b := NewBatch(64)
	b.CreatedAt = now
	b.Add("a.png", "image/png", makePNG(t, 4, 4))
	s.Put(b)

	if got, ok := s.Get(b.ID); !ok || got.ID != b.ID || len(got.Files) != 1 {
		t.Fatal("expected staged batch")
	}

	if _, ok := s.RemoveFile(b.ID, "missing"); ok {
		t.Error("expected unknown file removal to fail")
	}
	got, ok := s.RemoveFile(b.ID, b.Files[0].ID)
	if !ok || got.SubmitEnabled() {
		t.Error("expected file removal to empty the batch")
	}

	if _, ok := s.Take(b.ID); !ok {
		t.Error("expected Take to return batch")
	}
	if _, ok := s.Take(b.ID); ok {
		t.Error("expected batch to be gone after Take")
	}
}

func TestStage_Expiry(t *testing.T) {
	s := NewStage(time.Hour)
	now := time.Now()
	s.now = func() time.Time { return now }

	old := NewBatch(64)
	old.CreatedAt = now.Add(-2 * time.Hour)
	fresh := NewBatch(64)
	fresh.CreatedAt = now.Add(-10 * time.Minute)
	s.Put(old)
	s.Put(fresh)

	if _, ok := s.Get(old.ID); ok {
		t.Error("expected expired batch to be hidden")
	}
	if n := s.Sweep(); n != 1 {
		t.Errorf("expected 1 swept batch, got %d", n)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 remaining batch, got %d", s.Len())
	}
	if _, ok := s.Get(fresh.ID); !ok {
		t.Error("expected fresh batch to survive")
	}
}

func TestStage_GetReturnsIndependentCopy(t *testing.T) {
	s := NewStage(time.Hour)
	b := NewBatch(64)
	b.Add("a.png", "image/png", makePNG(t, 4, 4))
	b.Add("b.png", "image/png", makePNG(t, 4, 4))
	s.Put(b)

	got, ok := s.Get(b.ID)
	if !ok {
		t.Fatal("expected staged batch")
	}
	removed, ok := s.RemoveFile(b.ID, got.Files[0].ID)
	if !ok || len(removed.Files) != 1 {
		t.Fatalf("expected one file left, got %+v", removed)
	}

	if len(got.Files) != 2 || len(got.UploadFiles()) != 2 {
		t.Errorf("expected earlier copy to keep 2 files, got %d", len(got.Files))
	}
	if again, _ := s.Get(b.ID); len(again.Files) != 1 {
		t.Errorf("expected stage to keep 1 file, got %d", len(again.Files))
	}
}

func TestStage_ConcurrentRemoveAndRead(t *testing.T) {
	s := NewStage(time.Hour)
	b := NewBatch(64)
	for i := range 20 {
		b.Add(fmt.Sprintf("%d.png", i), "image/png", makePNG(t, 2, 2))
	}
	ids := make([]string, 0, len(b.Files))
	for _, f := range b.Files {
		ids = append(ids, f.ID)
	}
	s.Put(b)

	var wg sync.WaitGroup
	wg.Go(func() {
		for _, id := range ids {
			s.RemoveFile(b.ID, id)
		}
	})
	wg.Go(func() {
		for range ids {
			if got, ok := s.Get(b.ID); ok {
				for _, f := range got.UploadFiles() {
					if len(f.Data) == 0 {
						t.Error("expected file data in copy")
					}
				}
			}
		}
	})
	wg.Wait()

	if got, _ := s.Get(b.ID); got.SubmitEnabled() {
		t.Errorf("expected every file removed, %d left", len(got.Files))
	}
}
