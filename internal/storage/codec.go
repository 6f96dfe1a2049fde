package storage

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/san-kum/seesaw/internal/seesaw"
)

const stateSchema = `{
  "type": "object",
  "required": ["items"],
  "properties": {
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["x", "w"],
        "properties": {
          "x": {"type": "number"},
          "w": {"type": "integer", "minimum": 1},
          "colorIdx": {"type": "integer"}
        }
      }
    }
  }
}`

var schema = jsonschema.MustCompileString("seesaw-state.schema.json", stateSchema)

type document struct {
	Items []seesaw.RestingItem `json:"items"`
}

// looseItem accepts integral weights written as 5.0.
type looseItem struct {
	X        float64 `json:"x"`
	W        float64 `json:"w"`
	ColorIdx float64 `json:"colorIdx"`
}

func Encode(items []seesaw.RestingItem) ([]byte, error) {
	doc := document{Items: items}
	if doc.Items == nil {
		doc.Items = []seesaw.RestingItem{}
	}
	return json.Marshal(doc)
}

// Decode parses a persisted document. Anything that is not valid JSON or
// does not match the schema yields ErrMalformedState.
func Decode(data []byte) ([]seesaw.RestingItem, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", seesaw.ErrMalformedState, err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", seesaw.ErrMalformedState, err)
	}

	var doc struct {
		Items []looseItem `json:"items"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", seesaw.ErrMalformedState, err)
	}

	items := make([]seesaw.RestingItem, 0, len(doc.Items))
	for i, it := range doc.Items {
		if it.W > math.MaxInt32 || math.Abs(it.ColorIdx) > math.MaxInt32 {
			return nil, fmt.Errorf("%w: item %d out of range", seesaw.ErrMalformedState, i)
		}
		items = append(items, seesaw.RestingItem{X: it.X, Weight: int(it.W), Color: int(it.ColorIdx)})
	}
	return items, nil
}
