// Package media validates user uploads and pushes them to the media host,
// tracking each file through its own state machine.
package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/WillSeigler/Bookd/internal/apperr"
	"github.com/WillSeigler/Bookd/pkg/cloudinary"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultFolder        = "bookd/posts"
	ProfileFolder        = "bookd/profiles"
	DefaultMaxFiles      = 4
	DefaultImageTimeout  = 60 * time.Second
	DefaultVideoTimeout  = 120 * time.Second
	DefaultAvatarTimeout = 30 * time.Second

	PresetVideoPosts       = "video_posts"
	PresetSocialMediaPosts = "social_media_posts"
	PresetProfilePictures  = "profile_pictures"
)

var (
	DefaultTags = []string{"social", "post"}
	ProfileTags = []string{"profile", "avatar"}
)

// Host performs a single upload attempt.
type Host interface {
	Upload(ctx context.Context, p cloudinary.UploadParams) (*cloudinary.UploadResult, error)
}

// Options apply to every file in one upload request.
type Options struct {
	Folder   string
	Tags     []string
	PublicID string
	// OnProgress observes per-item progress of the first preset attempt.
	OnProgress func(itemID string, percent int)
}

type Uploader struct {
	host          Host
	logger        *slog.Logger
	imageTimeout  time.Duration
	videoTimeout  time.Duration
	avatarTimeout time.Duration
	maxFiles      int
}

type UploaderOption func(*Uploader)

func WithTimeouts(image, video time.Duration) UploaderOption {
	return func(u *Uploader) {
		u.imageTimeout, u.videoTimeout = image, video
	}
}

func WithAvatarTimeout(d time.Duration) UploaderOption {
	return func(u *Uploader) { u.avatarTimeout = d }
}

func WithMaxFiles(n int) UploaderOption {
	return func(u *Uploader) { u.maxFiles = n }
}

func NewUploader(host Host, logger *slog.Logger, opts ...UploaderOption) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	u := &Uploader{
		host:          host,
		logger:        logger.With("component", "media"),
		imageTimeout:  DefaultImageTimeout,
		videoTimeout:  DefaultVideoTimeout,
		avatarTimeout: DefaultAvatarTimeout,
		maxFiles:      DefaultMaxFiles,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *Uploader) MaxFiles() int { return u.maxFiles }

// Accept moves a selected item through validation. It returns the
// validation error, if any, after marking the item rejected.
func (u *Uploader) Accept(it *Item) error {
	return u.accept(it, Validate)
}

func (u *Uploader) accept(it *Item, validate func(File) error) error {
	if err := it.transition(StateValidating); err != nil {
		return err
	}
	if verr := validate(it.file); verr != nil {
		if err := it.finish(StateRejected, verr); err != nil {
			return err
		}
		return verr
	}
	return it.transition(StateQueued)
}

// UploadAll validates every file and uploads the accepted ones concurrently.
// It returns once every item is terminal; per-file failures are recorded on
// the items, not returned.
func (u *Uploader) UploadAll(ctx context.Context, files []File, opts Options) ([]*Item, error) {
	if len(files) == 0 {
		return nil, apperr.Validation("files", "Please select an image or video file")
	}
	if len(files) > u.maxFiles {
		return nil, apperr.Validation("files", fmt.Sprintf("You can upload up to %d files", u.maxFiles))
	}

	items := make([]*Item, len(files))
	var g errgroup.Group
	for i, f := range files {
		it := NewItem(f)
		items[i] = it
		if err := u.Accept(it); err != nil {
			u.logger.InfoContext(ctx, "Upload rejected", "file", f.Name, "reason", it.Error)
			continue
		}
		g.Go(func() error {
			_ = u.Upload(ctx, it, opts)
			return nil
		})
	}
	_ = g.Wait()
	return items, nil
}

// Upload sends a queued item, trying each preset for its kind in order.
func (u *Uploader) Upload(ctx context.Context, it *Item, opts Options) error {
	rt := cloudinary.ResourceImage
	timeout := u.imageTimeout
	if IsVideo(it.ContentType) {
		rt, timeout = cloudinary.ResourceVideo, u.videoTimeout
	}
	return u.upload(ctx, it, presetsFor(rt), rt, timeout, opts)
}

// UploadProfilePicture validates and uploads an avatar for userID.
func (u *Uploader) UploadProfilePicture(ctx context.Context, f File, userID string) (*Item, error) {
	it := NewItem(f)
	if err := u.accept(it, ValidateProfilePicture); err != nil {
		return it, err
	}
	opts := Options{Folder: ProfileFolder, Tags: ProfileTags, PublicID: "user_" + userID}
	err := u.upload(ctx, it, []string{PresetProfilePictures}, cloudinary.ResourceImage, u.avatarTimeout, opts)
	return it, err
}

func (u *Uploader) upload(ctx context.Context, it *Item, presets []string, rt cloudinary.ResourceType, timeout time.Duration, opts Options) error {
	if err := it.transition(StateUploading); err != nil {
		return err
	}

	folder := opts.Folder
	if folder == "" {
		folder = DefaultFolder
	}
	tags := opts.Tags
	if len(tags) == 0 {
		tags = DefaultTags
	}

	var lastErr error
	for i, preset := range presets {
		params := cloudinary.UploadParams{
			ResourceType: rt,
			Preset:       preset,
			Folder:       folder,
			Tags:         tags,
			PublicID:     opts.PublicID,
			FileName:     it.Name,
			ContentType:  it.ContentType,
			Size:         it.Size,
		}
		if i == 0 {
			params.Progress = func(pct int) {
				it.setProgress(pct)
				if opts.OnProgress != nil {
					opts.OnProgress(it.ID, pct)
				}
			}
		}

		res, err := u.attempt(ctx, it, params, timeout)
		if err == nil {
			it.mu.Lock()
			it.URL, it.PublicID, it.ResourceType = res.SecureURL, res.PublicID, string(rt)
			it.mu.Unlock()
			u.logger.InfoContext(ctx, "Upload complete", "file", it.Name, "preset", preset, "public_id", res.PublicID)
			return it.finish(StateUploaded, nil)
		}

		lastErr = err
		if cloudinary.KindOf(err) != cloudinary.KindPresetNotFound {
			break
		}
		if i < len(presets)-1 {
			u.logger.WarnContext(ctx, "Upload preset not found, trying next", "preset", preset, "next", presets[i+1])
			continue
		}

		var ue *cloudinary.UploadError
		errors.As(err, &ue)
		lastErr = &cloudinary.UploadError{
			Kind: cloudinary.KindPresetNotFound,
			Message: fmt.Sprintf("Upload failed: None of the required presets (%s) were found in your Cloudinary account. "+
				"Please create the upload presets in the Cloudinary dashboard", strings.Join(presets, ", ")),
			Status:  ue.Status,
			Presets: presets,
		}
	}

	u.logger.WarnContext(ctx, "Upload failed", "file", it.Name, "kind", cloudinary.KindOf(lastErr), "error", lastErr)
	if err := it.finish(StateFailed, lastErr); err != nil {
		return err
	}
	return lastErr
}

func (u *Uploader) attempt(ctx context.Context, it *Item, params cloudinary.UploadParams, timeout time.Duration) (*cloudinary.UploadResult, error) {
	if it.file.Open == nil {
		return nil, &cloudinary.UploadError{Kind: cloudinary.KindNetwork, Message: "file content is not available"}
	}
	body, err := it.file.Open()
	if err != nil {
		return nil, &cloudinary.UploadError{Kind: cloudinary.KindNetwork, Message: "reading file: " + err.Error()}
	}
	defer body.Close()
	params.Body = body

	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := u.host.Upload(actx, params)
	if err != nil && cloudinary.KindOf(err) == "" {
		if errors.Is(actx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, &cloudinary.UploadError{Kind: cloudinary.KindTimeout, Message: "Upload timeout"}
		}
		return nil, &cloudinary.UploadError{Kind: cloudinary.KindNetwork, Message: err.Error()}
	}
	return res, err
}

// presetsFor lists presets in the order they are attempted.
func presetsFor(rt cloudinary.ResourceType) []string {
	if rt == cloudinary.ResourceVideo {
		return []string{PresetVideoPosts, PresetProfilePictures}
	}
	return []string{PresetSocialMediaPosts, PresetProfilePictures}
}
