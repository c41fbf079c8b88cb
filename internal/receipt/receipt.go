package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/RevCBH/nibbl/internal/scalar"
	"github.com/RevCBH/nibbl/internal/validate"
)

var (
	// ErrNotFound is returned when the receipt file does not exist.
	ErrNotFound = errors.New("receipt not found")

	// ErrInvalid is returned when the receipt is not a usable JSON document.
	ErrInvalid = errors.New("invalid receipt")
)

// Receipt is the purchase document a session starts from.
type Receipt struct {
	Products []Product `json:"products" validate:"required,dive"`
}

// Product is one purchased item. Brand and product name identify it for
// eligibility; SKU is a secondary identity. Fields the receipt carries
// beyond these are kept in Extra and travel with the product into
// generation requests.
type Product struct {
	Brand       string `json:"brand" validate:"required"`
	ProductName string `json:"product_name" validate:"required"`
	SKU         string `json:"sku"`
	Category    string `json:"category"`

	Extra map[string]any `json:"-"`
}

var knownFields = map[string]bool{
	"brand":        true,
	"product_name": true,
	"sku":          true,
	"category":     true,
}

// NormalizedCategory is the lowercased category used for lookups and records.
func (p Product) NormalizedCategory() string {
	return strings.ToLower(strings.TrimSpace(p.Category))
}

// UnmarshalJSON decodes the typed fields and keeps everything else in Extra.
// Scalar identity fields may be strings or numbers in the wild.
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fields := []struct {
		key string
		dst *string
	}{
		{"brand", &p.Brand},
		{"product_name", &p.ProductName},
		{"sku", &p.SKU},
		{"category", &p.Category},
	}
	for _, f := range fields {
		msg, ok := raw[f.key]
		if !ok {
			continue
		}
		s, err := scalar.String(msg)
		if err != nil {
			return fmt.Errorf("field %q: %w", f.key, err)
		}
		*f.dst = s
	}

	for key, msg := range raw {
		if knownFields[key] {
			continue
		}
		var v any
		if err := json.Unmarshal(msg, &v); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		if p.Extra == nil {
			p.Extra = make(map[string]any)
		}
		p.Extra[key] = v
	}
	return nil
}

// MarshalJSON writes the typed fields and Extra as one flat object.
func (p Product) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+len(knownFields))
	for k, v := range p.Extra {
		out[k] = v
	}
	out["brand"] = p.Brand
	out["product_name"] = p.ProductName
	out["sku"] = p.SKU
	out["category"] = p.Category
	return json.Marshal(out)
}

// Load reads and validates the receipt at path.
func Load(path string) (*Receipt, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read receipt: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a receipt document.
func Parse(data []byte) (*Receipt, error) {
	var r Receipt
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := validate.Struct(r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return &r, nil
}

// CleanPath tidies a path typed or dropped into a terminal: surrounding
// whitespace and any quote characters are removed.
func CleanPath(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.ReplaceAll(s, "'", "")
	return s
}
