// ABOUTME: Media upload orchestration: presign, PUT to storage, then poll processing status.
// ABOUTME: Models the flow as a small state machine with an injectable clock for tests.
package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/2389-research/typefully/internal/api"
	"github.com/2389-research/typefully/internal/apperr"
)

// State is a step of the upload flow.
type State int

const (
	StateRequested State = iota
	StateUploading
	StatePolling
	StateDone     // uploaded, polling skipped
	StateReady    // processing finished
	StateFailed   // processing reported error
	StateTimedOut // deadline passed while still processing
)

func (s State) String() string {
	switch s {
	case StateRequested:
		return "requested"
	case StateUploading:
		return "uploading"
	case StatePolling:
		return "polling"
	case StateDone:
		return "done"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateTimedOut:
		return "timed_out"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Gateway is the subset of the API client the orchestrator needs.
type Gateway interface {
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)
	Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error)
	Upload(ctx context.Context, uploadURL string, data []byte) error
}

// Clock abstracts time so polling can be tested without real sleeps.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RealClock is the wall clock.
var RealClock Clock = realClock{}

// Orchestrator runs uploads against one gateway.
type Orchestrator struct {
	api      Gateway
	interval time.Duration
	clock    Clock
	logger   *slog.Logger
}

// NewOrchestrator creates an orchestrator polling at interval. A nil clock
// uses the wall clock.
func NewOrchestrator(gw Gateway, interval time.Duration, clock Clock, logger *slog.Logger) *Orchestrator {
	if clock == nil {
		clock = RealClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{api: gw, interval: interval, clock: clock, logger: logger}
}

// Request describes one upload.
type Request struct {
	SocialSetID string
	Path        string
	NoWait      bool
	Timeout     time.Duration
}

// Result is the terminal state of an upload that did not hard-fail.
type Result struct {
	State   State
	MediaID string
	Status  json.RawMessage // last status body seen while polling
}

type presignResponse struct {
	UploadURL string          `json:"upload_url"`
	MediaID   json.RawMessage `json:"media_id"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// Upload runs the full flow. Hard failures are returned as errors; a
// timeout is a Result with StateTimedOut.
func (o *Orchestrator) Upload(ctx context.Context, req Request) (*Result, error) {
	info, err := os.Stat(req.Path)
	if err != nil || info.IsDir() {
		return nil, apperr.Newf("File not found: %s", req.Path)
	}

	fileName := SanitizeFilename(filepath.Base(req.Path))
	state := StateRequested
	o.logger.Debug("media upload", "state", state, "file_name", fileName)

	raw, err := o.api.Post(ctx, api.SocialSetPath(req.SocialSetID, "media", "upload"), map[string]string{
		"file_name": fileName,
	})
	if err != nil {
		return nil, err
	}
	var presign presignResponse
	_ = json.Unmarshal(raw, &presign)
	if presign.UploadURL == "" {
		return nil, apperr.New("Failed to get presigned URL", "response", raw)
	}
	mediaID := idString(presign.MediaID)

	data, err := os.ReadFile(req.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.Newf("File not found: %s", req.Path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", req.Path, err)
	}

	state = StateUploading
	o.logger.Debug("media upload", "state", state, "media_id", mediaID, "bytes", len(data))
	if err := o.api.Upload(ctx, presign.UploadURL, data); err != nil {
		var upErr *api.UploadError
		if errors.As(err, &upErr) {
			return nil, apperr.New("Failed to upload file to storage",
				"http_code", upErr.StatusCode,
				"status_text", upErr.StatusText)
		}
		return nil, err
	}

	if req.NoWait {
		return &Result{State: StateDone, MediaID: mediaID}, nil
	}

	return o.poll(ctx, req, mediaID)
}

func (o *Orchestrator) poll(ctx context.Context, req Request, mediaID string) (*Result, error) {
	start := o.clock.Now()
	path := api.SocialSetPath(req.SocialSetID, "media", mediaID)
	var last json.RawMessage

	for o.clock.Now().Sub(start) < req.Timeout {
		raw, err := o.api.Get(ctx, path, nil)
		if err != nil {
			return nil, err
		}
		last = raw

		var st statusResponse
		_ = json.Unmarshal(raw, &st)
		o.logger.Debug("media upload", "state", StatePolling, "media_id", mediaID, "status", st.Status)

		switch st.Status {
		case "ready":
			return &Result{State: StateReady, MediaID: mediaID, Status: raw}, nil
		case "error", "failed":
			return nil, apperr.New("Media processing failed", "status", raw)
		}

		if err := o.clock.Sleep(ctx, o.interval); err != nil {
			return nil, err
		}
	}

	return &Result{State: StateTimedOut, MediaID: mediaID, Status: last}, nil
}

// idString accepts string or numeric ids.
func idString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
