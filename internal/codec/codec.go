// Package codec converts the roadmap state document to and from its portable
// JSON file form. Decoding is a strict parse followed by a repair pass that
// heals dangling pillar references and backfills fields missing from files
// written by older versions.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"roadmapcore/internal/sample"
	"roadmapcore/pkg/domain"
)

// Serialize encodes the full document as indented JSON.
func Serialize(doc domain.Document) ([]byte, error) {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode roadmap: %w", err)
	}
	return out, nil
}

// Outcome is the tagged result of Decode: either a repaired document or the
// reason the input was rejected.
type Outcome struct {
	Document domain.Document
	Err      error
}

// OK reports whether decoding succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Decode wraps Deserialize in an Outcome.
func Decode(data []byte) Outcome {
	doc, err := Deserialize(data)
	return Outcome{Document: doc, Err: err}
}

// Deserialize parses data and repairs it into a document that satisfies the
// pillar reference and quarter theme invariants. It fails with
// *MalformedInputError when data is not a JSON object or lacks array-typed
// "pillars" and "initiatives" fields.
func Deserialize(data []byte) (domain.Document, error) {
	top, err := parseObject(data)
	if err != nil {
		return domain.Document{}, malformed("not a JSON object", err)
	}
	if !isArray(top["pillars"]) || !isArray(top["initiatives"]) {
		return domain.Document{}, malformed(`"pillars" and "initiatives" must be arrays`, nil)
	}

	defaults := sample.Document()
	doc := domain.Document{}

	if doc.Meta, err = decodeMeta(top["meta"], defaults.Meta); err != nil {
		return domain.Document{}, err
	}
	if doc.NorthStar, err = decodeNorthStar(top["northStar"], defaults.NorthStar); err != nil {
		return domain.Document{}, err
	}
	if doc.Metrics, err = decodeMetrics(top["metrics"], defaults.Metrics); err != nil {
		return domain.Document{}, err
	}
	pillars, err := decodePillars(top["pillars"])
	if err != nil {
		return domain.Document{}, err
	}
	initiatives, err := decodeInitiatives(top["initiatives"])
	if err != nil {
		return domain.Document{}, err
	}
	if doc.QuarterThemes, err = decodeQuarterThemes(top["quarterThemes"], defaults.QuarterThemes); err != nil {
		return domain.Document{}, err
	}
	if doc.CapacityModel, err = decodeCapacity(top["capacityModel"], defaults.CapacityModel); err != nil {
		return domain.Document{}, err
	}
	if doc.Filters, err = decodeFilters(top["filters"], defaults.Filters); err != nil {
		return domain.Document{}, err
	}
	if doc.UI, err = decodeUI(top["ui"], defaults.UI); err != nil {
		return domain.Document{}, err
	}

	doc.Pillars = EnsureUnassignedPillar(pillars)
	doc.Initiatives = HealPillarReferences(initiatives, doc.Pillars)
	return doc, nil
}

func parseObject(data []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		if err := json.Unmarshal(trimmed, new(any)); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("top-level value is not an object")
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func isArray(raw json.RawMessage) bool { return firstByte(raw) == '[' }

// absent treats a missing key and an explicit null the same way.
func absent(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
