package plist

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// uidKey is the single key of the dict that spells a UID in XML.
const uidKey = "CF$UID"

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
`

const dateLayout = "2006-01-02T15:04:05Z"

type xmlDecoder struct {
	dec *xml.Decoder
}

func decodeXML(data []byte) (Value, error) {
	p := &xmlDecoder{dec: xml.NewDecoder(bytes.NewReader(data))}
	start, err := p.nextStart()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, fmt.Errorf("no plist element")
		}
		return Value{}, err
	}
	if start.Name.Local != "plist" {
		// Bare values without the <plist> wrapper are accepted.
		return p.value(start)
	}
	inner, err := p.nextStart()
	if err != nil {
		return Value{}, fmt.Errorf("empty plist element: %w", err)
	}
	return p.value(inner)
}

// nextStart skips to the next start element. An end element first means
// the enclosing element closed; it is reported as errEnd.
func (p *xmlDecoder) nextStart() (xml.StartElement, error) {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return t, nil
		case xml.EndElement:
			return xml.StartElement{}, errEnd
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return xml.StartElement{}, fmt.Errorf("unexpected text %q", string(t))
			}
		}
	}
}

var errEnd = errors.New("end of element")

// text collects character data up to the end of the current element.
func (p *xmlDecoder) text(name string) (string, error) {
	var sb strings.Builder
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			return sb.String(), nil
		case xml.StartElement:
			return "", fmt.Errorf("unexpected <%s> inside <%s>", t.Name.Local, name)
		}
	}
}

func (p *xmlDecoder) value(start xml.StartElement) (Value, error) {
	switch start.Name.Local {
	case "dict":
		return p.dict()
	case "array":
		var items []Value
		for {
			child, err := p.nextStart()
			if errors.Is(err, errEnd) {
				return ArrayValue(items...), nil
			}
			if err != nil {
				return Value{}, err
			}
			v, err := p.value(child)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
	case "true", "false":
		if err := p.dec.Skip(); err != nil {
			return Value{}, err
		}
		return BoolValue(start.Name.Local == "true"), nil
	}

	s, err := p.text(start.Name.Local)
	if err != nil {
		return Value{}, err
	}
	switch start.Name.Local {
	case "string":
		return StringValue(s), nil
	case "integer":
		n, err := parseInteger(s)
		if err != nil {
			return Value{}, err
		}
		return IntegerValue(n), nil
	case "real":
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return Value{}, fmt.Errorf("bad real %q: %w", s, err)
		}
		return RealValue(f), nil
	case "data":
		b, err := base64.StdEncoding.DecodeString(stripSpace(s))
		if err != nil {
			return Value{}, fmt.Errorf("bad data: %w", err)
		}
		return DataValue(b), nil
	case "date":
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
		if err != nil {
			return Value{}, fmt.Errorf("bad date %q: %w", s, err)
		}
		return DateValue(t.UTC()), nil
	}
	return Value{}, fmt.Errorf("unknown element <%s>", start.Name.Local)
}

func (p *xmlDecoder) dict() (Value, error) {
	var members []Member
	seen := make(map[string]bool)
	for {
		keyStart, err := p.nextStart()
		if errors.Is(err, errEnd) {
			break
		}
		if err != nil {
			return Value{}, err
		}
		if keyStart.Name.Local != "key" {
			return Value{}, fmt.Errorf("want <key> in dict, got <%s>", keyStart.Name.Local)
		}
		key, err := p.text("key")
		if err != nil {
			return Value{}, err
		}
		if seen[key] {
			return Value{}, &DuplicateKeyError{Key: key}
		}
		seen[key] = true
		valStart, err := p.nextStart()
		if err != nil {
			return Value{}, fmt.Errorf("missing value for key %q: %w", key, err)
		}
		v, err := p.value(valStart)
		if err != nil {
			return Value{}, err
		}
		members = append(members, Member{Key: key, Value: v})
	}
	if len(members) == 1 && members[0].Key == uidKey && members[0].Value.Kind == Integer && members[0].Value.Int >= 0 {
		return UIDValue(uint64(members[0].Value.Int)), nil
	}
	return DictValue(members...), nil
}

func parseInteger(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	// Values above MaxInt64 keep their bit pattern.
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad integer %q", s)
	}
	return int64(u), nil
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// encodeXML writes v in the Apple XML layout with tab indentation.
func encodeXML(v Value) []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	writeXMLValue(&buf, v, 0)
	buf.WriteString("</plist>\n")
	return buf.Bytes()
}

func writeXMLValue(buf *bytes.Buffer, v Value, depth int) {
	indent := strings.Repeat("\t", depth)
	buf.WriteString(indent)
	switch v.Kind {
	case Dict:
		if len(v.Members) == 0 {
			buf.WriteString("<dict/>\n")
			return
		}
		buf.WriteString("<dict>\n")
		for _, m := range v.Members {
			buf.WriteString(indent + "\t<key>")
			xmlEscaper.WriteString(buf, m.Key) //nolint:errcheck
			buf.WriteString("</key>\n")
			writeXMLValue(buf, m.Value, depth+1)
		}
		buf.WriteString(indent + "</dict>\n")
	case Array:
		if len(v.Items) == 0 {
			buf.WriteString("<array/>\n")
			return
		}
		buf.WriteString("<array>\n")
		for _, item := range v.Items {
			writeXMLValue(buf, item, depth+1)
		}
		buf.WriteString(indent + "</array>\n")
	case String:
		buf.WriteString("<string>")
		xmlEscaper.WriteString(buf, v.Str) //nolint:errcheck
		buf.WriteString("</string>\n")
	case Integer:
		fmt.Fprintf(buf, "<integer>%d</integer>\n", v.Int)
	case Real:
		fmt.Fprintf(buf, "<real>%s</real>\n", strconv.FormatFloat(v.Real, 'g', -1, 64))
	case Bool:
		if v.Bool {
			buf.WriteString("<true/>\n")
		} else {
			buf.WriteString("<false/>\n")
		}
	case Data:
		fmt.Fprintf(buf, "<data>%s</data>\n", base64.StdEncoding.EncodeToString(v.Bytes))
	case Date:
		fmt.Fprintf(buf, "<date>%s</date>\n", v.Time.UTC().Format(dateLayout))
	case UID:
		fmt.Fprintf(buf, "<dict>\n%s\t<key>%s</key>\n%s\t<integer>%d</integer>\n%s</dict>\n", indent, uidKey, indent, v.UID, indent)
	default:
		buf.WriteString("<string></string>\n")
	}
}
