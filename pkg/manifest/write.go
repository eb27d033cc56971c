package manifest

import (
	"io"
	"iter"

	"github.com/yaklabco/prosidy/pkg/codec"
)

// Write renders the successfully parsed entries of m. Structured formats
// produce an object keyed by path; XML produces a prosidy:manifest element
// with one prosidy:item per file.
func Write(w io.Writer, format codec.Format, m *Manifest) error {
	if format == codec.FormatXML {
		return codec.WriteEvents(w, m.events())
	}

	value := make(map[string]any, len(m.Entries))
	for _, e := range m.Entries {
		if e.Meta != nil {
			value[e.Path] = codec.MetaValue(e.Meta)
		}
	}
	return codec.EncodeValue(w, format, value, true)
}

func (m *Manifest) events() iter.Seq[codec.Event] {
	root := codec.Name{Prefix: codec.ReservedPrefix, Local: "manifest"}

	return func(yield func(codec.Event) bool) {
		if !yield(codec.Event{
			Kind: codec.EventStart,
			Name: root,
			Attrs: []codec.Attr{{
				Name:  codec.Name{Prefix: "xmlns", Local: codec.ReservedPrefix},
				Value: codec.ReservedURI,
			}},
		}) {
			return
		}

		for _, e := range m.Entries {
			if e.Meta == nil {
				continue
			}
			attrs := []codec.Attr{
				{Name: codec.Name{Prefix: codec.ReservedPrefix, Local: "path"}, Value: e.Path},
				{Name: codec.Name{Prefix: codec.ReservedPrefix, Local: "title"}, Value: e.Meta.Title().String()},
			}
			attrs = append(attrs, codec.Attrs(e.Meta.Props(), "")...)

			item := codec.Event{
				Kind:  codec.EventEmpty,
				Name:  codec.Name{Prefix: codec.ReservedPrefix, Local: "item"},
				Attrs: attrs,
			}
			if !yield(item) {
				return
			}
		}

		yield(codec.Event{Kind: codec.EventEnd, Name: root})
	}
}
