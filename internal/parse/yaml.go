package parse

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// yamlDoc mirrors the document shape for the YAML path. Paths is kept
// as a raw node so the document's own ordering survives decoding.
type yamlDoc struct {
	OpenAPI string  `yaml:"openapi"`
	Swagger string  `yaml:"swagger"`
	Info    infoDoc `yaml:"info"`
	Paths   yaml.Node `yaml:"paths"`
	Components struct {
		Schemas yaml.Node `yaml:"schemas"`
	} `yaml:"components"`
	Definitions yaml.Node `yaml:"definitions"` // swagger 2.0
}

var yamlLineRe = regexp.MustCompile(`line (\d+)`)

// parseYAML buffers the document chunk by chunk (the buffer is charged
// to the memory budget as it grows) and decodes it in one pass. YAML
// has no incremental decoder comparable to encoding/json tokens, so
// bounded memory here means the budget fails the parse before the
// buffer can grow past it.
func (s *Session) parseYAML(br *bufio.Reader) error {
	var buf bytes.Buffer
	chunk := make([]byte, s.cfg.ChunkSize)
	for {
		n, err := br.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			if berr := s.checkBudget(int64(n)); berr != nil {
				return berr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return s.classify(err, int64(buf.Len()))
		}
	}

	var doc yamlDoc
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		return yamlParseError(err)
	}

	if doc.OpenAPI != "" {
		s.summary.versionMarker = doc.OpenAPI
	} else if doc.Swagger != "" {
		s.summary.versionMarker = doc.Swagger
	}
	s.summary.info = doc.Info

	if doc.Paths.Kind == yaml.MappingNode {
		s.summary.sawPaths = true
		// Mapping node content alternates key, value; walking it in
		// order preserves the document's path ordering.
		for i := 0; i+1 < len(doc.Paths.Content); i += 2 {
			path := doc.Paths.Content[i].Value
			var item pathItemDoc
			if err := doc.Paths.Content[i+1].Decode(&item); err != nil {
				return yamlParseError(fmt.Errorf("path %s: %w", path, err))
			}
			if err := s.addRecords(extractRecords(path, &item)); err != nil {
				return err
			}
		}
	}

	s.summary.schemaCount += mappingLen(doc.Components.Schemas)
	s.summary.schemaCount += mappingLen(doc.Definitions)

	// The raw buffer is dead now; release its charge conceptually by
	// leaving it to the collector with the session's working state.
	return nil
}

func mappingLen(n yaml.Node) int {
	if n.Kind != yaml.MappingNode {
		return 0
	}
	return len(n.Content) / 2
}

// yamlParseError lifts the line number out of yaml.v3's error text so
// callers get the same typed offset information as the JSON path.
func yamlParseError(err error) error {
	pe := &ParseError{Msg: err.Error(), Err: err}
	if m := yamlLineRe.FindStringSubmatch(err.Error()); m != nil {
		if line, aerr := strconv.Atoi(m[1]); aerr == nil {
			pe.Line = line
		}
	}
	return pe
}
