package deck

import "slices"

// Face selects one side of a card.
type Face int

const (
	FaceFront Face = iota
	FaceBack
)

func (f Face) String() string {
	if f == FaceBack {
		return "back"
	}
	return "front"
}

// Side is one face of a card: text plus an ordered list of image references.
// Every mutation notifies the side's subscribers.
type Side struct {
	text   string
	images []string
	subs   []*sideSub
}

type sideSub struct {
	fn func()
}

// NewSide creates a side with the given text and no images.
func NewSide(text string) *Side {
	return &Side{text: text}
}

// Text returns the side's text.
func (s *Side) Text() string { return s.text }

// Images returns a copy of the image references.
func (s *Side) Images() []string { return slices.Clone(s.images) }

// SetText replaces the text. Setting the current text is a no-op.
func (s *Side) SetText(text string) {
	if s.text == text {
		return
	}
	s.text = text
	s.notify()
}

// SetImages replaces all image references.
func (s *Side) SetImages(images []string) {
	s.images = slices.Clone(images)
	s.notify()
}

// AddImage appends an image reference.
func (s *Side) AddImage(ref string) {
	s.images = append(s.images, ref)
	s.notify()
}

// RemoveImage removes the first occurrence of ref and reports whether it was
// present.
func (s *Side) RemoveImage(ref string) bool {
	i := slices.Index(s.images, ref)
	if i < 0 {
		return false
	}
	s.images = slices.Delete(s.images, i, i+1)
	s.notify()
	return true
}

// Subscribe registers fn to run after every change and returns a function
// that removes the registration.
func (s *Side) Subscribe(fn func()) (unsubscribe func()) {
	sub := &sideSub{fn: fn}
	s.subs = append(s.subs, sub)
	return func() {
		if i := slices.Index(s.subs, sub); i >= 0 {
			s.subs = slices.Delete(s.subs, i, i+1)
		}
	}
}

// notify fires a snapshot of the subscriber list so subscribers may
// subscribe or unsubscribe while being notified.
func (s *Side) notify() {
	for _, sub := range slices.Clone(s.subs) {
		sub.fn()
	}
}
