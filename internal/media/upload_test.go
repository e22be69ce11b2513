// ABOUTME: Tests for the media upload state machine and filename sanitizing.
// ABOUTME: Uses a scripted gateway and a fake clock so polling runs instantly.
package media

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/2389-research/typefully/internal/api"
	"github.com/2389-research/typefully/internal/apperr"
	"github.com/2389-research/typefully/internal/logutil"
)

type fakeGateway struct {
	presign   string
	statuses  []string
	uploadErr error
	posts     []string
	gets      []string
	uploads   [][]byte
	postBody  any
}

func (f *fakeGateway) Post(_ context.Context, path string, body any) (json.RawMessage, error) {
	f.posts = append(f.posts, path)
	f.postBody = body
	return json.RawMessage(f.presign), nil
}

func (f *fakeGateway) Get(_ context.Context, path string, _ url.Values) (json.RawMessage, error) {
	f.gets = append(f.gets, path)
	i := len(f.gets) - 1
	if i >= len(f.statuses) {
		i = len(f.statuses) - 1
	}
	return json.RawMessage(`{"media_id":"m1","status":"` + f.statuses[i] + `"}`), nil
}

func (f *fakeGateway) Upload(_ context.Context, _ string, data []byte) error {
	f.uploads = append(f.uploads, data)
	return f.uploadErr
}

type fakeClock struct {
	now    time.Time
	sleeps int
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.sleeps++
	c.now = c.now.Add(d)
	return nil
}

func tempFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("image-bytes"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func newTestOrchestrator(gw Gateway, clock Clock) *Orchestrator {
	return NewOrchestrator(gw, 2*time.Second, clock, logutil.Discard())
}

const okPresign = `{"upload_url":"https://storage.example/put","media_id":"m1"}`

func TestUploadReadyAfterProcessing(t *testing.T) {
	gw := &fakeGateway{presign: okPresign, statuses: []string{"processing", "ready"}}
	clock := &fakeClock{now: time.Unix(0, 0)}

	res, err := newTestOrchestrator(gw, clock).Upload(context.Background(), Request{
		SocialSetID: "123",
		Path:        tempFile(t, "My Photo!.JPG"),
		Timeout:     60 * time.Second,
	})
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if res.State != StateReady || res.MediaID != "m1" {
		t.Errorf("result = %+v", res)
	}
	if gw.posts[0] != "/social-sets/123/media/upload" {
		t.Errorf("presign path = %q", gw.posts[0])
	}
	if body := gw.postBody.(map[string]string); body["file_name"] != "My_Photo.jpg" {
		t.Errorf("file_name = %q", body["file_name"])
	}
	if string(gw.uploads[0]) != "image-bytes" {
		t.Errorf("uploaded %q", gw.uploads[0])
	}
	if len(gw.gets) != 2 || clock.sleeps != 1 {
		t.Errorf("gets = %d, sleeps = %d", len(gw.gets), clock.sleeps)
	}
}

func TestUploadNoWaitSkipsPolling(t *testing.T) {
	gw := &fakeGateway{presign: okPresign, statuses: []string{"ready"}}
	res, err := newTestOrchestrator(gw, &fakeClock{}).Upload(context.Background(), Request{
		SocialSetID: "123",
		Path:        tempFile(t, "a.png"),
		NoWait:      true,
		Timeout:     time.Minute,
	})
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if res.State != StateDone || len(gw.gets) != 0 {
		t.Errorf("state = %v, gets = %d", res.State, len(gw.gets))
	}
}

func TestUploadTimesOutSoftly(t *testing.T) {
	gw := &fakeGateway{presign: okPresign, statuses: []string{"processing"}}
	clock := &fakeClock{now: time.Unix(0, 0)}

	res, err := newTestOrchestrator(gw, clock).Upload(context.Background(), Request{
		SocialSetID: "123",
		Path:        tempFile(t, "a.png"),
		Timeout:     5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if res.State != StateTimedOut {
		t.Errorf("state = %v, want timed out", res.State)
	}
	// Polls at t=0,2,4 then the deadline passes.
	if len(gw.gets) != 3 {
		t.Errorf("gets = %d, want 3", len(gw.gets))
	}
}

func TestUploadProcessingFailure(t *testing.T) {
	for _, status := range []string{"error", "failed"} {
		t.Run(status, func(t *testing.T) {
			gw := &fakeGateway{presign: okPresign, statuses: []string{status}}
			_, err := newTestOrchestrator(gw, &fakeClock{}).Upload(context.Background(), Request{
				SocialSetID: "123",
				Path:        tempFile(t, "a.png"),
				Timeout:     time.Minute,
			})
			var ae *apperr.Error
			if !errors.As(err, &ae) || ae.Message != "Media processing failed" {
				t.Fatalf("error = %v", err)
			}
			if _, ok := ae.Detail("status"); !ok {
				t.Error("expected status detail")
			}
		})
	}
}

func TestUploadMissingFileMakesNoRequests(t *testing.T) {
	gw := &fakeGateway{presign: okPresign}
	_, err := newTestOrchestrator(gw, &fakeClock{}).Upload(context.Background(), Request{
		SocialSetID: "123",
		Path:        filepath.Join(t.TempDir(), "nope.png"),
	})
	if err == nil || len(gw.posts) != 0 {
		t.Fatalf("err = %v, posts = %d", err, len(gw.posts))
	}
}

func TestUploadPresignWithoutURL(t *testing.T) {
	gw := &fakeGateway{presign: `{"media_id":"m1"}`}
	_, err := newTestOrchestrator(gw, &fakeClock{}).Upload(context.Background(), Request{
		SocialSetID: "123",
		Path:        tempFile(t, "a.png"),
	})
	if err == nil || err.Error() != "Failed to get presigned URL" {
		t.Fatalf("error = %v", err)
	}
}

func TestUploadStorageRejects(t *testing.T) {
	gw := &fakeGateway{presign: okPresign, uploadErr: &api.UploadError{StatusCode: 403, StatusText: "Forbidden"}}
	_, err := newTestOrchestrator(gw, &fakeClock{}).Upload(context.Background(), Request{
		SocialSetID: "123",
		Path:        tempFile(t, "a.png"),
	})
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("error = %v", err)
	}
	if code, _ := ae.Detail("http_code"); code != 403 {
		t.Errorf("http_code = %v", code)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"photo.jpg":          "photo.jpg",
		"My Photo!.JPG":      "My_Photo.jpg",
		"__a  b__.png":       "a_b.png",
		"日本語.png":            "upload.png",
		"shot (1).jpeg":      "shot_(1).jpeg",
		"noext":              "noext",
		"clip.final.v2.MOV":  "clip.final.v2.mov",
		"@@@.gif":            "upload.gif",
	}
	for in, want := range tests {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
