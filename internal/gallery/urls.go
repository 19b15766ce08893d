// Package gallery derives display URLs for post media and renders the media
// grid with its lightbox overlay.
package gallery

import (
	"fmt"
	"hash/fnv"
	"net/url"
	"path"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const directive = `(a|ac|ar|b|bo|br|c|co|dl|dpr|du|e|eo|f|fl|fn|fps|g|h|l|o|pg|q|r|so|sp|t|u|vc|w|x|y|z)_[^,/]+`

const (
	deliveryHost = "res.cloudinary.com"
	uploadMarker = "/upload/"

	GridTransform     = "c_fill,w_600,h_600,q_auto,f_auto"
	LightboxTransform = "c_limit,w_1600,q_auto,f_auto"
	PosterTransform   = "so_0,c_fill,w_600,h_600,q_auto"
)

var (
	videoExts = map[string]bool{".mp4": true, ".webm": true, ".mov": true, ".avi": true, ".m4v": true, ".ogv": true, ".mkv": true}
	imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true, ".avif": true, ".svg": true}

	// transformSegment matches a directive list such as "c_fill,w_600".
	transformSegment = regexp.MustCompile(`^` + directive + `(,` + directive + `)*$`)
)

// InferType returns declared when set. Otherwise the type is guessed from
// the URL extension; unknown extensions are treated as images.
func InferType(rawURL, declared string) string {
	if declared = strings.TrimSpace(declared); declared != "" {
		return declared
	}
	if videoExts[extension(rawURL)] {
		return "video/*"
	}
	return "image/*"
}

func IsVideo(mediaType string) bool {
	return strings.HasPrefix(mediaType, "video/")
}

func extension(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return strings.ToLower(path.Ext(p))
}

// OptimizeImageURL requests a square grid thumbnail from the media host.
func OptimizeImageURL(rawURL string) string {
	return injectTransform(rawURL, GridTransform)
}

// LightboxImageURL requests a large, aspect-preserving rendition.
func LightboxImageURL(rawURL string) string {
	return injectTransform(rawURL, LightboxTransform)
}

// PosterURL returns a still frame at 0s for a hosted video. ok is false for
// videos served from anywhere else.
func PosterURL(rawURL string) (poster string, ok bool) {
	if !isHosted(rawURL) || !strings.Contains(rawURL, "/video"+uploadMarker) {
		return "", false
	}
	// The frame offset must apply even when a transformation is present.
	withFrame := chainTransform(rawURL, PosterTransform)

	base, query := withFrame, ""
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base, query = base[:i], base[i:]
	}
	base = strings.TrimSuffix(base, path.Ext(base))
	return base + ".jpg" + query, true
}

func isHosted(rawURL string) bool {
	u, err := url.Parse(rawURL)
	return err == nil && u.Host == deliveryHost
}

// injectTransform inserts transform right after the upload marker of a
// hosted URL that has no transformation yet. Anything else is returned as is.
func injectTransform(rawURL, transform string) string {
	if !isHosted(rawURL) {
		return rawURL
	}
	i := strings.Index(rawURL, uploadMarker)
	if i < 0 {
		return rawURL
	}
	rest := rawURL[i+len(uploadMarker):]
	// The last segment is the asset itself, never a transformation.
	first, _, more := strings.Cut(rest, "/")
	if more && transformSegment.MatchString(first) {
		return rawURL
	}
	return chainTransform(rawURL, transform)
}

// chainTransform puts transform in front of any existing transformation
// segments of a hosted URL.
func chainTransform(rawURL, transform string) string {
	i := strings.Index(rawURL, uploadMarker)
	if !isHosted(rawURL) || i < 0 {
		return rawURL
	}
	head, rest := rawURL[:i+len(uploadMarker)], rawURL[i+len(uploadMarker):]
	return head + transform + "/" + rest
}

type ProfileImageOptions struct {
	Width   int
	Height  int
	Crop    string
	Quality string
	Format  string
}

// ProfileImageURL builds a face-centred avatar URL for an uploaded public id.
func ProfileImageURL(cloudName, publicID string, opts ProfileImageOptions) string {
	if opts.Width == 0 {
		opts.Width = 200
	}
	if opts.Height == 0 {
		opts.Height = 200
	}
	if opts.Crop == "" {
		opts.Crop = "fill"
	}
	if opts.Quality == "" {
		opts.Quality = "auto"
	}
	if opts.Format == "" {
		opts.Format = "webp"
	}
	return fmt.Sprintf("https://%s/%s/image/upload/w_%d,h_%d,c_%s,q_%s,f_%s,g_face/%s",
		deliveryHost, cloudName, opts.Width, opts.Height, opts.Crop, opts.Quality, opts.Format, publicID)
}

// Initials is the avatar fallback for users without a picture.
func Initials(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return "?"
	}
	if len(words) > 2 {
		words = words[:2]
	}
	var b strings.Builder
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

var avatarColors = []string{"#7823E1", "#3B82F6", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6", "#06B6D4", "#F97316"}

// AvatarColor picks a stable background colour for a name.
func AvatarColor(name string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return avatarColors[h.Sum32()%uint32(len(avatarColors))]
}
