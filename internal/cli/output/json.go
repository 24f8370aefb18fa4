package output

import (
	"encoding/json"
	"io"

	"github.com/yndnr/respkv/internal/resp"
)

// JSONFormatter formats data as JSON.
type JSONFormatter struct{}

// Format formats data as indented JSON.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(normalize(data))
}

// normalize swaps tokens for their Reply view.
func normalize(data any) any {
	switch v := data.(type) {
	case resp.Token:
		return FromToken(v)
	case *resp.Token:
		return FromToken(*v)
	default:
		return data
	}
}
