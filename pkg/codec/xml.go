package codec

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"iter"

	"github.com/yaklabco/prosidy/pkg/ast"
)

// WriteXML renders doc as an XML document. Events are written as they are
// produced, so the rendered output is never held in memory.
func WriteXML(w io.Writer, doc *ast.Document, opts Options) error {
	return WriteEvents(w, NewEncoder(doc, opts).All())
}

// WriteEvents writes an XML declaration followed by events. The events must
// form a single well-nested element, optionally preceded by processing
// instructions.
func WriteEvents(w io.Writer, events iter.Seq[Event]) error {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	enc := xml.NewEncoder(bw)
	if err := enc.EncodeToken(xml.ProcInst{
		Target: "xml",
		Inst:   []byte(`version="1.0" encoding="UTF-8"`),
	}); err != nil {
		return fmt.Errorf("encode XML: %w", err)
	}

	for ev := range events {
		if err := encodeEvent(enc, ev); err != nil {
			return fmt.Errorf("encode XML: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode XML: %w", err)
	}
	if _, err := bw.WriteString("\n"); err != nil {
		return fmt.Errorf("encode XML: %w", err)
	}
	return bw.Flush()
}

func encodeEvent(enc *xml.Encoder, ev Event) error {
	switch ev.Kind {
	case EventStart:
		return enc.EncodeToken(startElement(ev))
	case EventEnd:
		return enc.EncodeToken(xml.EndElement{Name: xmlName(ev.Name)})
	case EventEmpty:
		start := startElement(ev)
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		return enc.EncodeToken(start.End())
	case EventText:
		return enc.EncodeToken(xml.CharData(ev.Text))
	case EventProcInst:
		return enc.EncodeToken(xml.ProcInst{Target: ev.Target, Inst: []byte(ev.Inst)})
	default:
		return fmt.Errorf("unknown event kind %d", ev.Kind)
	}
}

func startElement(ev Event) xml.StartElement {
	start := xml.StartElement{Name: xmlName(ev.Name)}
	if len(ev.Attrs) > 0 {
		start.Attr = make([]xml.Attr, len(ev.Attrs))
		for i, a := range ev.Attrs {
			start.Attr[i] = xml.Attr{Name: xmlName(a.Name), Value: a.Value}
		}
	}
	return start
}

// xmlName keeps the prefix in the local part. encoding/xml would otherwise
// treat Space as a namespace URI and invent its own prefixes.
func xmlName(n Name) xml.Name {
	return xml.Name{Local: n.String()}
}
