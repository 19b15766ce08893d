package media

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/WillSeigler/Bookd/internal/apperr"
	"github.com/google/uuid"
)

type State string

const (
	StateSelected   State = "selected"
	StateValidating State = "validating"
	StateRejected   State = "rejected"
	StateQueued     State = "queued"
	StateUploading  State = "uploading"
	StateUploaded   State = "uploaded"
	StateFailed     State = "failed"
)

var transitions = map[State][]State{
	StateSelected:   {StateValidating},
	StateValidating: {StateRejected, StateQueued},
	StateQueued:     {StateUploading},
	StateUploading:  {StateUploaded, StateFailed},
}

// ErrIllegalTransition is wrapped by every rejected state change.
var ErrIllegalTransition = errors.New("illegal media state transition")

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateRejected || s == StateUploaded || s == StateFailed
}

// File is an upload candidate. Open may be called once per attempt.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// Item tracks one file from selection to a terminal state.
type Item struct {
	mu   sync.Mutex
	file File

	ID           string `json:"id"`
	Name         string `json:"name"`
	ContentType  string `json:"content_type"`
	Size         int64  `json:"size"`
	State        State  `json:"state"`
	Progress     int    `json:"progress"`
	URL          string `json:"url,omitempty"`
	PublicID     string `json:"public_id,omitempty"`
	ResourceType string `json:"resource_type,omitempty"`
	Error        string `json:"error,omitempty"`

	err error
}

func NewItem(f File) *Item {
	return &Item{
		file:        f,
		ID:          uuid.NewString(),
		Name:        f.Name,
		ContentType: normalizeType(f.ContentType),
		Size:        f.Size,
		State:       StateSelected,
	}
}

// Err returns the rejection or upload error of a terminal item.
func (it *Item) Err() error {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.err
}

func (it *Item) CurrentState() State {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.State
}

func (it *Item) transition(to State) error {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.transitionLocked(to)
}

func (it *Item) transitionLocked(to State) error {
	for _, allowed := range transitions[it.State] {
		if allowed == to {
			it.State = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, it.State, to)
}

func (it *Item) setProgress(pct int) {
	it.mu.Lock()
	defer it.mu.Unlock()
	if pct > it.Progress {
		it.Progress = pct
	}
}

func (it *Item) finish(to State, err error) error {
	it.mu.Lock()
	defer it.mu.Unlock()
	if terr := it.transitionLocked(to); terr != nil {
		return terr
	}
	it.err = err
	if err != nil {
		it.Error = message(err)
	}
	if to == StateUploaded {
		it.Progress = 100
	}
	return nil
}

func message(err error) string {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	return err.Error()
}
