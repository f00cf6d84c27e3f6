package hierarchy

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/orgchart/pkg/errors"
)

// Format is the serialization of a hierarchy document.
type Format string

// Supported formats. FormatAuto sniffs the first non-blank byte.
const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}

// FormatFromContentType infers the format from an HTTP Content-Type.
func FormatFromContentType(ct string) Format {
	switch {
	case strings.Contains(ct, "json"):
		return FormatJSON
	case strings.Contains(ct, "yaml"):
		return FormatYAML
	default:
		return FormatAuto
	}
}

// Decode parses data in the given format, fills in Kind when the document
// omits it, and validates the result.
func Decode(data []byte, format Format) (*Payload, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidPayload, "document is empty")
	}
	if format == FormatAuto {
		format = sniff(data)
	}

	var p Payload
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPayload, err, "decode json")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPayload, err, "decode yaml")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}

	if p.Kind == "" {
		p.Kind = Detect(&p)
	}
	if err := Validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Detect infers the kind of a payload from the populated fields. A chief
// means flat; units mean hierarchy; a tree means departments. An empty
// payload yields "".
func Detect(p *Payload) Kind {
	switch {
	case p.Chief != nil:
		return KindFlat
	case len(p.Units) > 0:
		return KindHierarchy
	case len(p.Tree) > 0:
		return KindDepartments
	default:
		return ""
	}
}

// Encode serializes p in the given format. FormatAuto encodes JSON.
func Encode(p *Payload, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(p)
	case FormatJSON, FormatAuto:
		return json.MarshalIndent(p, "", "  ")
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
}

func sniff(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return FormatJSON
	}
	return FormatYAML
}
