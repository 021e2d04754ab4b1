// Package layout turns layout-preserving renderings of a statement into
// positioned text fragments.
package layout

// Fragment is one piece of extracted text and its pixel offsets.
// Y grows downwards across the whole document.
type Fragment struct {
	Text string
	X    int
	Y    int
}

// Document is the read-only fragment set of one source document, kept in
// extraction order.
type Document struct {
	name      string
	fragments []Fragment
}

// NewDocument copies frags into a new Document.
func NewDocument(name string, frags []Fragment) *Document {
	cp := make([]Fragment, len(frags))
	copy(cp, frags)
	return &Document{name: name, fragments: cp}
}

// Name returns the source the document was read from.
func (d *Document) Name() string { return d.name }

// Len returns the number of fragments.
func (d *Document) Len() int { return len(d.fragments) }

// Fragments returns a copy of the fragments in extraction order.
func (d *Document) Fragments() []Fragment {
	cp := make([]Fragment, len(d.fragments))
	copy(cp, d.fragments)
	return cp
}
