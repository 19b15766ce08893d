package gallery

import "fmt"

type Key string

const (
	KeyEscape     Key = "Escape"
	KeyArrowRight Key = "ArrowRight"
	KeyArrowLeft  Key = "ArrowLeft"
)

type Media struct {
	URL  string
	Type string
}

// Slide is what the open lightbox shows.
type Slide struct {
	Index    int
	URL      string
	Type     string
	IsVideo  bool
	Controls bool
	Autoplay bool
	Label    string
	Position string
	Multiple bool
}

// Lightbox is the overlay viewer state for one post's media.
type Lightbox struct {
	items []Media
	open  bool
	index int
}

func NewLightbox(urls, types []string) *Lightbox {
	items := make([]Media, len(urls))
	for i, u := range urls {
		items[i] = Media{URL: u, Type: InferType(u, typeAt(types, i))}
	}
	return &Lightbox{items: items}
}

func (l *Lightbox) Len() int     { return len(l.items) }
func (l *Lightbox) IsOpen() bool { return l.open }
func (l *Lightbox) Index() int   { return l.index }

// Open shows item i. Out-of-range indexes are ignored.
func (l *Lightbox) Open(i int) bool {
	if i < 0 || i >= len(l.items) {
		return false
	}
	l.index, l.open = i, true
	return true
}

func (l *Lightbox) Close() { l.open = false }

func (l *Lightbox) Next() {
	if n := len(l.items); n > 0 {
		l.index = (l.index + 1) % n
	}
}

func (l *Lightbox) Prev() {
	if n := len(l.items); n > 0 {
		l.index = (l.index - 1 + n) % n
	}
}

// HandleKey applies a key press while open and reports whether it was bound.
func (l *Lightbox) HandleKey(k Key) bool {
	if !l.open {
		return false
	}
	switch k {
	case KeyEscape:
		l.Close()
	case KeyArrowRight:
		l.Next()
	case KeyArrowLeft:
		l.Prev()
	default:
		return false
	}
	return true
}

// ClickBackdrop closes the overlay.
func (l *Lightbox) ClickBackdrop() { l.Close() }

// ClickMedia is a no-op: clicks on the media itself must not close it.
func (l *Lightbox) ClickMedia() {}

func (l *Lightbox) Current() (Slide, bool) {
	if !l.open || len(l.items) == 0 {
		return Slide{}, false
	}
	m := l.items[l.index]
	s := Slide{
		Index:    l.index,
		URL:      m.URL,
		Type:     m.Type,
		IsVideo:  IsVideo(m.Type),
		Label:    "Image",
		Position: fmt.Sprintf("%d / %d", l.index+1, len(l.items)),
		Multiple: len(l.items) > 1,
	}
	if s.IsVideo {
		s.Controls, s.Autoplay, s.Label = true, true, "Video"
	} else {
		s.URL = LightboxImageURL(m.URL)
	}
	return s, true
}
