package parse

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

type format string

const (
	formatJSON format = "json"
	formatYAML format = "yaml"
)

// probeFormat sniffs the first non-whitespace byte: JSON documents open
// with a brace, anything else is treated as YAML.
func probeFormat(br *bufio.Reader) (format, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return "", &ParseError{Msg: "empty document", Err: err}
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		if err := br.UnreadByte(); err != nil {
			return "", err
		}
		if b == '{' {
			return formatJSON, nil
		}
		return formatYAML, nil
	}
}

// parseJSON walks the document token by token. Each path item is
// decoded as one structural unit and converted to records immediately;
// every other top-level value is skipped without materializing it.
func (s *Session) parseJSON(br *bufio.Reader) error {
	dec := json.NewDecoder(br)

	if err := expectDelim(dec, '{'); err != nil {
		return s.classify(err, dec.InputOffset())
	}

	for dec.More() {
		key, err := stringToken(dec)
		if err != nil {
			return s.classify(err, dec.InputOffset())
		}

		switch key {
		case "openapi", "swagger":
			marker, err := stringToken(dec)
			if err != nil {
				return s.classify(err, dec.InputOffset())
			}
			s.summary.versionMarker = marker
		case "info":
			if err := dec.Decode(&s.summary.info); err != nil {
				return s.classify(err, dec.InputOffset())
			}
		case "paths":
			if err := s.walkPaths(dec); err != nil {
				return s.classify(err, dec.InputOffset())
			}
		case "components":
			if err := s.walkComponents(dec); err != nil {
				return s.classify(err, dec.InputOffset())
			}
		case "definitions": // swagger 2.0 schema section
			n, err := countObjectKeys(dec)
			if err != nil {
				return s.classify(err, dec.InputOffset())
			}
			s.summary.schemaCount += n
		default:
			if err := skipValue(dec); err != nil {
				return s.classify(err, dec.InputOffset())
			}
		}
	}

	if err := expectDelim(dec, '}'); err != nil {
		return s.classify(err, dec.InputOffset())
	}
	return nil
}

// walkPaths consumes the paths object one path item at a time.
func (s *Session) walkPaths(dec *json.Decoder) error {
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	s.summary.sawPaths = true

	for dec.More() {
		path, err := stringToken(dec)
		if err != nil {
			return err
		}
		var item pathItemDoc
		if err := dec.Decode(&item); err != nil {
			return err
		}
		if err := s.addRecords(extractRecords(path, &item)); err != nil {
			return err
		}
	}
	return expectDelim(dec, '}')
}

// walkComponents counts schema entries. With PrioritizeEndpoints the
// schema bodies are never decoded at all; either way they are skipped
// value by value so the biggest schema costs one unit of buffer.
func (s *Session) walkComponents(dec *json.Decoder) error {
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		key, err := stringToken(dec)
		if err != nil {
			return err
		}
		if key == "schemas" {
			n, err := countObjectKeys(dec)
			if err != nil {
				return err
			}
			s.summary.schemaCount += n
			continue
		}
		if err := skipValue(dec); err != nil {
			return err
		}
	}
	return expectDelim(dec, '}')
}

// countObjectKeys consumes an object, counting its top-level keys and
// skipping their values.
func countObjectKeys(dec *json.Decoder) (int, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return 0, err
	}
	n := 0
	for dec.More() {
		if _, err := stringToken(dec); err != nil {
			return n, err
		}
		if err := skipValue(dec); err != nil {
			return n, err
		}
		n++
	}
	return n, expectDelim(dec, '}')
}

// skipValue consumes exactly one JSON value without building it.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return unexpectedEOF(err)
	}
	d, ok := tok.(json.Delim)
	if !ok || (d != '{' && d != '[') {
		return nil
	}
	depth := 1
	for depth > 0 {
		tok, err = dec.Token()
		if err != nil {
			return unexpectedEOF(err)
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return unexpectedEOF(err)
	}
	d, ok := tok.(json.Delim)
	if !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func stringToken(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", unexpectedEOF(err)
	}
	str, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %v", tok)
	}
	return str, nil
}

// unexpectedEOF normalizes mid-document EOF so truncation always maps
// to a ParseError upstream.
func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
