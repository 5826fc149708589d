package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// WeightOption is one alternate priced variant of a product.
type WeightOption struct {
	Weight       float64 `json:"weight"`
	Unit         string  `json:"unit"`
	MRP          float64 `json:"mrp"`
	SellingPrice float64 `json:"selling_price"`
}

// IsPieceUnit reports whether the unit is piece-denominated. Piece
// variants with no weight count as a single piece.
func IsPieceUnit(unit string) bool {
	return unit == "piece" || unit == "pieces"
}

// WeightOptions normalizes the weight_options column on read. Older rows
// stored the list double-encoded as a JSON string; newer rows store a
// structured JSON array. Both shapes decode to the same slice.
type WeightOptions []WeightOption

func (w *WeightOptions) Scan(value any) error {
	if value == nil {
		*w = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported weight_options type %T", value)
	}

	if len(raw) == 0 {
		*w = nil
		return nil
	}

	decoded, err := decodeWeightOptions(raw)
	if err != nil {
		return err
	}
	*w = decoded
	return nil
}

func (w WeightOptions) Value() (driver.Value, error) {
	if len(w) == 0 {
		return nil, nil
	}
	return json.Marshal(w)
}

func decodeWeightOptions(raw []byte) (WeightOptions, error) {
	var options []WeightOption
	if err := json.Unmarshal(raw, &options); err == nil {
		return options, nil
	}

	// Legacy double-encoded rows: a JSON string containing the array.
	var nested string
	if err := json.Unmarshal(raw, &nested); err != nil {
		return nil, fmt.Errorf("decoding weight_options: %w", err)
	}
	if nested == "" {
		return nil, nil
	}
	if err := json.Unmarshal([]byte(nested), &options); err != nil {
		return nil, fmt.Errorf("decoding legacy weight_options: %w", err)
	}
	return options, nil
}
