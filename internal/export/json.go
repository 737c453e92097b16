package export

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/policy-cli/internal/recommend"
)

// Response is the JSON shape of a recommendation result.
type Response struct {
	*recommend.Result
	Top []recommend.Recommendation `json:"top"`
}

// NewResponse pairs a result with its top n recommendations.
func NewResponse(res *recommend.Result, topN int) Response {
	top := res.Top(topN)
	if top == nil {
		top = []recommend.Recommendation{}
	}
	return Response{Result: res, Top: top}
}

// WriteJSON writes the result and its top n recommendations as indented JSON.
func WriteJSON(w io.Writer, res *recommend.Result, topN int) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(NewResponse(res, topN)), "export: encode JSON")
}
