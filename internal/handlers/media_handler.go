package handlers

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/WillSeigler/Bookd/internal/media"
	"github.com/WillSeigler/Bookd/internal/models"
	"github.com/WillSeigler/Bookd/internal/session"
	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
)

type MediaUploader interface {
	UploadAll(ctx context.Context, files []media.File, opts media.Options) ([]*media.Item, error)
	UploadProfilePicture(ctx context.Context, f media.File, userID string) (*media.Item, error)
}

type AvatarSetter interface {
	SetAvatar(ctx context.Context, url string) (*models.User, error)
}

// MediaHandler accepts multipart uploads and forwards them to the media host
type MediaHandler struct {
	uploader MediaUploader
	avatars  AvatarSetter
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(uploader MediaUploader, avatars AvatarSetter) *MediaHandler {
	return &MediaHandler{uploader: uploader, avatars: avatars}
}

// RegisterMediaRoutes registers upload routes
func (h *MediaHandler) RegisterMediaRoutes(g *echo.Group) {
	g.POST("/media", h.UploadMedia)
	g.POST("/profile/avatar", h.UploadAvatar)
}

// UploadMedia uploads the "files" parts of a multipart form. Every file gets
// its own result; the response is 200 when all uploaded, 207 when some did,
// and the first failure's status when none did.
func (h *MediaHandler) UploadMedia(c echo.Context) error {
	ctx := c.Request().Context()
	if _, err := session.RequireUserID(ctx); err != nil {
		return httpError(err)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid multipart form")
	}

	headers := form.File["files"]
	files := make([]media.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fileFromHeader(fh)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Failed to read "+fh.Filename)
		}
		files = append(files, f)
	}

	items, err := h.uploader.UploadAll(ctx, files, media.Options{})
	if err != nil {
		return httpError(err)
	}

	var urls, types []string
	var firstErr error
	for _, it := range items {
		if it.CurrentState() == media.StateUploaded {
			urls = append(urls, it.URL)
			types = append(types, it.ContentType)
		} else if firstErr == nil {
			firstErr = it.Err()
		}
	}

	status := http.StatusOK
	switch {
	case len(urls) == 0 && firstErr != nil:
		return httpError(firstErr)
	case firstErr != nil:
		status = http.StatusMultiStatus
	}

	return success(c, status, echo.Map{
		"items":       items,
		"media_urls":  urls,
		"media_types": types,
	})
}

// UploadAvatar uploads the "file" part as the session user's profile picture
func (h *MediaHandler) UploadAvatar(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := session.RequireUserID(ctx)
	if err != nil {
		return httpError(err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Please select an image file")
	}
	f, err := fileFromHeader(fh)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read "+fh.Filename)
	}

	item, err := h.uploader.UploadProfilePicture(ctx, f, userID)
	if err != nil {
		return httpError(err)
	}

	user, err := h.avatars.SetAvatar(ctx, item.URL)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{"item": item, "user": user})
}

// fileFromHeader wraps a multipart part, sniffing the content type when the
// client did not declare a useful one.
func fileFromHeader(fh *multipart.FileHeader) (media.File, error) {
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		src, err := fh.Open()
		if err != nil {
			return media.File{}, err
		}
		mt, err := mimetype.DetectReader(src)
		src.Close()
		if err != nil {
			return media.File{}, err
		}
		contentType = mt.String()
	}

	return media.File{
		Name:        fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}, nil
}
