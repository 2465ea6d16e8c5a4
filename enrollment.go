package session

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// EnrollmentStatus is the signature enrollment state derived from the
// user's flag pair. It is computed once per user load instead of
// re-deriving the boolean expression at every call site.
type EnrollmentStatus string

const (
	// EnrollmentNotRequired applies to absent users and accounts past
	// their first login without a pending signature.
	EnrollmentNotRequired EnrollmentStatus = "not_required"
	// EnrollmentRequired blocks the application until the signature
	// capture flow completes.
	EnrollmentRequired EnrollmentStatus = "required"
	// EnrollmentSatisfied means a signature is on record.
	EnrollmentSatisfied EnrollmentStatus = "satisfied"
)

// EnrollmentStatusOf derives the gate state for a user.
func EnrollmentStatusOf(u *User) EnrollmentStatus {
	if u == nil {
		return EnrollmentNotRequired
	}
	if u.HasSignature {
		return EnrollmentSatisfied
	}
	if u.FirstLogin {
		return EnrollmentRequired
	}
	return EnrollmentNotRequired
}

// Point is a canvas coordinate of a captured signature stroke.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Drawing is a captured signature: pen strokes over a fixed canvas.
type Drawing struct {
	Width   int       `json:"width"`
	Height  int       `json:"height"`
	Strokes [][]Point `json:"strokes"`
}

// Empty reports whether the drawing contains no pen strokes.
func (d Drawing) Empty() bool {
	for _, stroke := range d.Strokes {
		if len(stroke) > 0 {
			return false
		}
	}
	return true
}

// EncodePNG rasterizes the strokes onto a white canvas and encodes the
// result as a PNG image asset.
func (d Drawing) EncodePNG() ([]byte, error) {
	width, height := d.Width, d.Height
	if width <= 0 {
		width = 600
	}
	if height <= 0 {
		height = 200
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	ink := color.RGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff}
	for _, stroke := range d.Strokes {
		if len(stroke) == 1 {
			img.Set(stroke[0].X, stroke[0].Y, ink)
			continue
		}
		for i := 1; i < len(stroke); i++ {
			drawLine(img, stroke[i-1], stroke[i], ink)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "unable to encode signature image")
	}
	return buf.Bytes(), nil
}

// drawLine plots a straight segment between two stroke points.
func drawLine(img *image.RGBA, from, to Point, c color.RGBA) {
	dx := abs(to.X - from.X)
	dy := -abs(to.Y - from.Y)
	sx, sy := 1, 1
	if from.X > to.X {
		sx = -1
	}
	if from.Y > to.Y {
		sy = -1
	}
	err := dx + dy

	x, y := from.X, from.Y
	for {
		img.Set(x, y, c)
		if x == to.X && y == to.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// signatureFilename is the asset name sent with the multipart upload.
const signatureFilename = "firma.png"

// EnrollmentFlow executes the one-time signature capture that unblocks
// a first login. Upload and profile-update failures keep the gate open
// and are retryable without limit; an uploaded asset orphaned by a
// later profile-update failure is accepted and not rolled back.
type EnrollmentFlow struct {
	client       APIClient
	orchestrator *Orchestrator
	logger       Logger
	activity     ActivitySink
	now          func() time.Time
}

// NewEnrollmentFlow binds the flow to the network collaborator and the
// orchestrator whose session it resynchronizes on success.
func NewEnrollmentFlow(client APIClient, orchestrator *Orchestrator) *EnrollmentFlow {
	return &EnrollmentFlow{
		client:       client,
		orchestrator: orchestrator,
		logger:       defLogger{},
		activity:     noopActivitySink{},
		now:          time.Now,
	}
}

// WithLogger overrides the default logger.
func (f *EnrollmentFlow) WithLogger(logger Logger) *EnrollmentFlow {
	if logger != nil {
		f.logger = logger
	}
	return f
}

// WithActivitySink configures an ActivitySink for enrollment events.
func (f *EnrollmentFlow) WithActivitySink(sink ActivitySink) *EnrollmentFlow {
	f.activity = normalizeActivitySink(sink)
	return f
}

// Complete runs the enrollment steps in order: validate the drawing and
// clarification name, encode the image, upload it, persist the flag
// pair with the signature key, then re-check the session so the gate
// derives as satisfied. The first failing step aborts and leaves the
// gate open.
func (f *EnrollmentFlow) Complete(ctx context.Context, drawing Drawing, clarification string) error {
	user := f.orchestrator.Container().State().User
	if user == nil {
		return ErrNoActiveSession
	}
	if EnrollmentStatusOf(user) != EnrollmentRequired {
		return ErrEnrollmentNotRequired
	}

	if drawing.Empty() {
		return ErrEmptySignature
	}
	if strings.TrimSpace(clarification) == "" {
		return ErrEmptyClarification
	}

	asset, err := drawing.EncodePNG()
	if err != nil {
		return f.fail(ctx, user.ID, "encode", err)
	}

	key, err := f.client.UploadSignature(ctx, signatureFilename, asset)
	if err != nil {
		err = goerrors.Wrap(err, goerrors.CategoryExternal, userMessage(err, MsgUploadFallback))
		return f.fail(ctx, user.ID, "upload", err)
	}

	if _, err := f.client.UpdateProfile(ctx, user.ID, EnrollmentPatch(key)); err != nil {
		// The uploaded asset stays behind; retries mint a fresh key.
		err = goerrors.Wrap(err, goerrors.CategoryExternal, userMessage(err, MsgProfileFallback))
		return f.fail(ctx, user.ID, "profile", err)
	}

	if err := f.orchestrator.CheckSession(ctx); err != nil {
		return f.fail(ctx, user.ID, "resync", err)
	}

	f.record(ctx, ActivityEventEnrollmentCompleted, user.ID, map[string]any{
		"signatureKey": key,
	})
	return nil
}

func (f *EnrollmentFlow) fail(ctx context.Context, userID, step string, err error) error {
	f.logger.Error("signature enrollment %s step failed: %v", step, err)
	f.record(ctx, ActivityEventEnrollmentFailed, userID, map[string]any{
		"step":  step,
		"error": err.Error(),
	})
	return err
}

func (f *EnrollmentFlow) record(ctx context.Context, event ActivityEventType, userID string, metadata map[string]any) {
	err := f.activity.Record(ctx, ActivityEvent{
		ID:         uuid.New(),
		EventType:  event,
		UserID:     userID,
		Metadata:   metadata,
		OccurredAt: f.now(),
	})
	if err != nil {
		f.logger.Error("activity sink record failed: %v", err)
	}
}
