package output

import "github.com/yndnr/respkv/internal/resp"

// Reply is the encoding-friendly view of a reply token.
type Reply struct {
	Type  string  `json:"type" yaml:"type"`
	Value any     `json:"value,omitempty" yaml:"value,omitempty"`
	Items []Reply `json:"items,omitempty" yaml:"items,omitempty"`
}

// FromToken converts t. Recognized commands are shown as the bulk
// string they were sent as.
func FromToken(t resp.Token) Reply {
	t = t.Literal()
	switch t.Kind {
	case resp.KindNull:
		return Reply{Type: "nil"}
	case resp.KindArray:
		items := make([]Reply, len(t.Elems))
		for i, e := range t.Elems {
			items[i] = FromToken(e)
		}
		return Reply{Type: "array", Items: items}
	case resp.KindInteger:
		return Reply{Type: "integer", Value: t.Int}
	case resp.KindError:
		return Reply{Type: "error", Value: t.Str}
	case resp.KindSimpleString:
		return Reply{Type: "status", Value: t.Str}
	default:
		return Reply{Type: "string", Value: t.Str}
	}
}
