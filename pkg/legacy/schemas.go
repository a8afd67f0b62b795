package legacy

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

const priceSchema = `{"type": "number"}`

const quantitySchema = `{"type": "number", "default": 1}`

const vatSchema = `{
	"type": "object",
	"required": ["number", "sum"],
	"properties": {
		"number": {"type": "string", "enum": ["no", "0", "10", "18", "110", "118"]},
		"sum": {"type": "number"}
	}
}`

const paymentSchema = `{
	"anyOf": [
		{"type": "number"},
		{
			"type": "object",
			"required": ["sum"],
			"properties": {
				"type": {"type": "string", "enum": ["card", "cash"], "default": "card"},
				"sum": {"type": "number"}
			}
		}
	]
}`

const positionSchema = `{
	"type": "object",
	"required": ["name", "price"],
	"properties": {
		"name": {"type": "string"},
		"price": {"type": "number"},
		"quantity": {"type": "number", "default": 1},
		"vat": {
			"type": "object",
			"required": ["number", "sum"],
			"properties": {
				"number": {"type": "string", "enum": ["no", "0", "10", "18", "110", "118"]},
				"sum": {"type": "number"}
			}
		},
		"discount": {"type": "number"},
		"total": {"type": "number"}
	}
}`

// Schema es un esquema JSON compilado junto con su nombre
type Schema struct {
	Name   string
	schema *gojsonschema.Schema
}

var (
	PriceSchema    = mustCompile("price", priceSchema)
	QuantitySchema = mustCompile("quantity", quantitySchema)
	VATSchema      = mustCompile("vat", vatSchema)
	PaymentSchema  = mustCompile("payment", paymentSchema)
	PositionSchema = mustCompile("position", positionSchema)
)

func mustCompile(name, raw string) *Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("legacy: invalid %s schema: %v", name, err))
	}
	return &Schema{Name: name, schema: s}
}

// Validate comprueba value contra el esquema y retorna *FormatError si no lo cumple
func (s *Schema) Validate(value any) error {
	result, err := s.schema.Validate(gojsonschema.NewGoLoader(value))
	if err != nil {
		return &FormatError{Message: err.Error(), Schema: s.Name}
	}
	if result.Valid() {
		return nil
	}

	errs := result.Errors()
	return &FormatError{Message: errs[0].String(), Schema: s.Name}
}
