// Package vat normaliza las distintas representaciones de una tasa de IVA
// (porcentajes, fracciones, decimales, códigos combinados) al código canónico
// que espera la API de KOMTET Kassa.
package vat

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Rate es el código canónico de una tasa de IVA
type Rate string

const (
	RateNo  Rate = "no"  // Sin IVA
	Rate0   Rate = "0"   // IVA 0%
	Rate10  Rate = "10"  // IVA 10%
	Rate18  Rate = "18"  // IVA 18%, sólo generación legacy
	Rate20  Rate = "20"  // IVA 20%
	Rate110 Rate = "110" // IVA 10/110
	Rate118 Rate = "118" // IVA 18/118, sólo generación legacy
	Rate120 Rate = "120" // IVA 20/120
)

// String implementa fmt.Stringer
func (r Rate) String() string {
	return string(r)
}

// ErrUnknownRate se retorna cuando la tasa no pertenece al conjunto válido
var ErrUnknownRate = errors.New("unknown VAT rate")

// UnknownRateError conserva el valor normalizado que no fue reconocido
type UnknownRateError struct {
	Raw string
}

// Error implementa la interfaz error
func (e *UnknownRateError) Error() string {
	return fmt.Sprintf("Unknown VAT rate: %s", e.Raw)
}

// Is permite comparar con errors.Is(err, ErrUnknownRate)
func (e *UnknownRateError) Is(target error) bool {
	return target == ErrUnknownRate
}

// Table describe una generación del protocolo: tasas válidas, tokens combinados y alias
type Table struct {
	Rates   []Rate
	Joint   map[string]Rate
	Aliases map[string]Rate
}

// Parser convierte valores crudos a códigos canónicos según una Table
type Parser struct {
	rates   map[Rate]struct{}
	joint   map[string]Rate
	aliases map[string]Rate
}

// Default es la tabla de la generación actual: 18 y 118 se aceptan como alias de 20 y 120
var Default = Table{
	Rates: []Rate{RateNo, Rate0, Rate10, Rate20, Rate110, Rate120},
	Joint: map[string]Rate{
		"10/110": Rate110,
		"20/120": Rate120,
		"18/118": Rate120,
	},
	Aliases: map[string]Rate{
		"18":  Rate20,
		"118": Rate120,
	},
}

// Legacy es la tabla de la primera generación del protocolo
var Legacy = Table{
	Rates: []Rate{RateNo, Rate0, Rate10, Rate18, Rate110, Rate118},
	Joint: map[string]Rate{
		"10/110": Rate110,
		"18/118": Rate118,
	},
}

var defaultParser = NewParser(Default)

// NewParser construye un parser inmutable a partir de una tabla
func NewParser(table Table) *Parser {
	p := &Parser{
		rates:   make(map[Rate]struct{}, len(table.Rates)),
		joint:   make(map[string]Rate, len(table.Joint)),
		aliases: make(map[string]Rate, len(table.Aliases)),
	}
	for _, r := range table.Rates {
		p.rates[r] = struct{}{}
	}
	for k, v := range table.Joint {
		p.joint[k] = v
	}
	for k, v := range table.Aliases {
		p.aliases[k] = v
	}
	return p
}

// Parse normaliza raw con la tabla Default
func Parse(raw any) (Rate, error) {
	return defaultParser.Parse(raw)
}

// MustParse es como Parse pero entra en pánico ante un error
func MustParse(raw any) Rate {
	r, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return r
}

// Rates retorna las tasas válidas del parser
func (p *Parser) Rates() []Rate {
	out := make([]Rate, 0, len(p.rates))
	for r := range p.rates {
		out = append(out, r)
	}
	return out
}

// Valid indica si r pertenece al conjunto de tasas del parser
func (p *Parser) Valid(r Rate) bool {
	_, ok := p.rates[r]
	return ok
}

// Parse normaliza raw al código canónico. Acepta Rate, string, enteros,
// float y decimal.Decimal.
func (p *Parser) Parse(raw any) (Rate, error) {
	s, err := stringify(raw)
	if err != nil {
		return "", err
	}

	rate, ok := p.joint[s]
	if !ok {
		s = strings.ReplaceAll(s, "%", "")
		s = strings.ReplaceAll(s, "0.", "")
		rate = Rate(s)
	}

	if alias, ok := p.aliases[string(rate)]; ok {
		rate = alias
	}

	if !p.Valid(rate) {
		return "", &UnknownRateError{Raw: string(rate)}
	}
	return rate, nil
}

// stringify reproduce la coerción a texto previa al parseo: los enteros
// (incluidos los float y decimal integrales) quedan como porcentaje entero y
// los fraccionarios menores a 1 se formatean con dos decimales ("0.2" -> "0.20").
func stringify(raw any) (string, error) {
	switch v := raw.(type) {
	case Rate:
		return string(v), nil
	case string:
		return v, nil
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return formatDecimal(decimal.NewFromFloat32(v)), nil
	case float64:
		return formatDecimal(decimal.NewFromFloat(v)), nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return "", &UnknownRateError{Raw: v.String()}
		}
		return formatDecimal(d), nil
	case decimal.Decimal:
		return formatDecimal(v), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", &UnknownRateError{Raw: fmt.Sprintf("%v", raw)}
	}
}

func formatDecimal(d decimal.Decimal) string {
	if d.IsInteger() {
		return d.Truncate(0).String()
	}
	if d.LessThan(decimal.NewFromInt(1)) {
		return d.StringFixed(2)
	}
	return d.String()
}
