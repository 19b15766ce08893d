package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/WillSeigler/Bookd/internal/apperr"
	"github.com/WillSeigler/Bookd/pkg/cloudinary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	preset   string
	rt       cloudinary.ResourceType
	folder   string
	publicID string
	progress bool
}

// scriptedHost answers attempts from a per-preset script.
type scriptedHost struct {
	mu      sync.Mutex
	calls   []call
	results map[string]error
	delay   time.Duration
}

func (h *scriptedHost) Upload(ctx context.Context, p cloudinary.UploadParams) (*cloudinary.UploadResult, error) {
	h.mu.Lock()
	h.calls = append(h.calls, call{preset: p.Preset, rt: p.ResourceType, folder: p.Folder, publicID: p.PublicID, progress: p.Progress != nil})
	err := h.results[p.Preset]
	h.mu.Unlock()

	if h.delay > 0 {
		select {
		case <-time.After(h.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	_, _ = io.Copy(io.Discard, p.Body)
	if p.Progress != nil {
		p.Progress(50)
		p.Progress(100)
	}
	return &cloudinary.UploadResult{PublicID: p.Folder + "/x", SecureURL: "https://res.cloudinary.com/demo/" + string(p.ResourceType) + "/upload/x"}, nil
}

func (h *scriptedHost) presets() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, c := range h.calls {
		out = append(out, c.preset)
	}
	return out
}

func fileOf(name, ct string, size int64) File {
	return File{
		Name:        name,
		ContentType: ct,
		Size:        size,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader([]byte("data"))), nil
		},
	}
}

var presetMissing = &cloudinary.UploadError{Kind: cloudinary.KindPresetNotFound, Message: "Upload preset not found", Status: 400}

func TestOversizedImageRejectedWithoutNetwork(t *testing.T) {
	host := &scriptedHost{}
	u := NewUploader(host, nil)

	items, err := u.UploadAll(context.Background(), []File{fileOf("big.jpg", "image/jpeg", 9<<20)}, Options{})
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, StateRejected, items[0].State)
	assert.Equal(t, "File must be smaller than 8MB", items[0].Error)
	assert.True(t, apperr.IsValidation(items[0].Err()))
	assert.Empty(t, host.calls)
}

func TestVideoUnderCapIsUploaded(t *testing.T) {
	host := &scriptedHost{}
	u := NewUploader(host, nil)

	items, err := u.UploadAll(context.Background(), []File{fileOf("set.mp4", "video/mp4", 10<<20)}, Options{})
	require.NoError(t, err)

	assert.Equal(t, StateUploaded, items[0].State)
	assert.Equal(t, 100, items[0].Progress)
	assert.Equal(t, "video", items[0].ResourceType)
	assert.Equal(t, []string{PresetVideoPosts}, host.presets())
	assert.Equal(t, DefaultFolder, host.calls[0].folder)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		file   File
		reason string
	}{
		{"not media", fileOf("a.pdf", "application/pdf", 10), "Please select an image or video file"},
		{"gif", fileOf("a.gif", "image/gif", 10), "Image must be JPEG, PNG, or WebP"},
		{"mkv", fileOf("a.mkv", "video/x-matroska", 10), "Video must be MP4, WebM, MOV, or AVI"},
		{"large video", fileOf("a.mov", "video/quicktime", 76<<20), "File must be smaller than 75MB"},
		{"png ok", fileOf("a.png", "image/png", 8<<20), ""},
		{"avi ok", fileOf("a.avi", "video/x-msvideo", 1), ""},
		{"type params", fileOf("a.webp", "IMAGE/WEBP; charset=binary", 1), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.file)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			var ve *apperr.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.reason, ve.Reason)
		})
	}
}

func TestPresetFallback(t *testing.T) {
	host := &scriptedHost{results: map[string]error{PresetSocialMediaPosts: presetMissing}}
	u := NewUploader(host, nil)

	var mu sync.Mutex
	var seen []int
	items, err := u.UploadAll(context.Background(), []File{fileOf("a.png", "image/png", 1024)}, Options{
		OnProgress: func(_ string, pct int) {
			mu.Lock()
			seen = append(seen, pct)
			mu.Unlock()
		},
	})
	require.NoError(t, err)

	assert.Equal(t, StateUploaded, items[0].State)
	assert.Equal(t, []string{PresetSocialMediaPosts, PresetProfilePictures}, host.presets())
	assert.True(t, host.calls[0].progress)
	assert.False(t, host.calls[1].progress, "progress is only reported for the first preset")
	assert.Empty(t, seen, "first attempt failed before sending progress")
}

func TestAllPresetsMissingIsEnriched(t *testing.T) {
	host := &scriptedHost{results: map[string]error{PresetVideoPosts: presetMissing, PresetProfilePictures: presetMissing}}
	u := NewUploader(host, nil)

	items, _ := u.UploadAll(context.Background(), []File{fileOf("a.webm", "video/webm", 1024)}, Options{})
	it := items[0]

	assert.Equal(t, StateFailed, it.State)
	var ue *cloudinary.UploadError
	require.True(t, errors.As(it.Err(), &ue))
	assert.Equal(t, cloudinary.KindPresetNotFound, ue.Kind)
	assert.Equal(t, []string{PresetVideoPosts, PresetProfilePictures}, ue.Presets)
	assert.Contains(t, it.Error, "video_posts, profile_pictures")
}

func TestOtherErrorsAbortWithoutFallback(t *testing.T) {
	for _, kind := range []cloudinary.Kind{cloudinary.KindRejected, cloudinary.KindNetwork, cloudinary.KindNotConfigured} {
		t.Run(string(kind), func(t *testing.T) {
			host := &scriptedHost{results: map[string]error{PresetSocialMediaPosts: &cloudinary.UploadError{Kind: kind, Message: "nope"}}}
			u := NewUploader(host, nil)

			items, _ := u.UploadAll(context.Background(), []File{fileOf("a.jpg", "image/jpeg", 1)}, Options{})

			assert.Equal(t, StateFailed, items[0].State)
			assert.Equal(t, kind, cloudinary.KindOf(items[0].Err()))
			assert.Len(t, host.calls, 1)
		})
	}
}

func TestTimeoutIsDistinctKind(t *testing.T) {
	host := &scriptedHost{delay: time.Second}
	u := NewUploader(host, nil, WithTimeouts(20*time.Millisecond, 20*time.Millisecond))

	items, _ := u.UploadAll(context.Background(), []File{fileOf("a.jpg", "image/jpeg", 1)}, Options{})

	assert.Equal(t, StateFailed, items[0].State)
	assert.Equal(t, cloudinary.KindTimeout, cloudinary.KindOf(items[0].Err()))
	assert.Len(t, host.calls, 1)
}

func TestUploadAllMixedBatch(t *testing.T) {
	host := &scriptedHost{}
	u := NewUploader(host, nil)

	items, err := u.UploadAll(context.Background(), []File{
		fileOf("a.jpg", "image/jpeg", 1),
		fileOf("b.gif", "image/gif", 1),
		fileOf("c.mp4", "video/mp4", 1),
	}, Options{Folder: "bookd/gigs", Tags: []string{"gig"}})
	require.NoError(t, err)

	states := []State{items[0].State, items[1].State, items[2].State}
	assert.Equal(t, []State{StateUploaded, StateRejected, StateUploaded}, states)
	assert.Len(t, host.calls, 2)
	for _, c := range host.calls {
		assert.Equal(t, "bookd/gigs", c.folder)
	}
}

func TestUploadAllLimits(t *testing.T) {
	u := NewUploader(&scriptedHost{}, nil, WithMaxFiles(2))

	_, err := u.UploadAll(context.Background(), nil, Options{})
	assert.True(t, apperr.IsValidation(err))

	f := fileOf("a.jpg", "image/jpeg", 1)
	_, err = u.UploadAll(context.Background(), []File{f, f, f}, Options{})
	assert.EqualError(t, err, "files: You can upload up to 2 files")
}

func TestUploadProfilePicture(t *testing.T) {
	host := &scriptedHost{}
	u := NewUploader(host, nil)

	it, err := u.UploadProfilePicture(context.Background(), fileOf("me.png", "image/png", 1024), "42")
	require.NoError(t, err)
	assert.Equal(t, StateUploaded, it.State)
	require.Len(t, host.calls, 1)
	assert.Equal(t, call{preset: PresetProfilePictures, rt: cloudinary.ResourceImage, folder: ProfileFolder, publicID: "user_42", progress: true}, host.calls[0])

	it, err = u.UploadProfilePicture(context.Background(), fileOf("me.png", "image/png", 6<<20), "42")
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, "Image must be smaller than 5MB", it.Error)
	assert.Len(t, host.calls, 1)
}

func TestStateTransitions(t *testing.T) {
	it := NewItem(fileOf("a.jpg", "image/jpeg", 1))
	assert.Equal(t, StateSelected, it.CurrentState())

	assert.ErrorIs(t, it.transition(StateUploading), ErrIllegalTransition)
	require.NoError(t, it.transition(StateValidating))
	require.NoError(t, it.transition(StateQueued))
	require.NoError(t, it.transition(StateUploading))
	require.NoError(t, it.finish(StateUploaded, nil))
	assert.True(t, it.CurrentState().Terminal())
	assert.ErrorIs(t, it.finish(StateFailed, errors.New("late")), ErrIllegalTransition)

	u := NewUploader(&scriptedHost{}, nil)
	assert.ErrorIs(t, u.Upload(context.Background(), NewItem(fileOf("b.jpg", "image/jpeg", 1)), Options{}), ErrIllegalTransition)
}
