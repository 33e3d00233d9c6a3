package term

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// --- Enums ---

type Category int

const (
	CategoryBase Category = iota
	CategorySpecial
	CategoryConditional
)

func (c Category) String() string {
	switch c {
	case CategoryBase:
		return "Base"
	case CategorySpecial:
		return "Special"
	case CategoryConditional:
		return "Conditional"
	default:
		return "Unknown"
	}
}

// ParseCategory accepts the catalog spelling of a category.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "base":
		return CategoryBase, nil
	case "special":
		return CategorySpecial, nil
	case "conditional", "limiter":
		return CategoryConditional, nil
	default:
		return 0, fmt.Errorf("unknown term category %q", s)
	}
}

func (c *Category) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseCategory(node.Value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Category) MarshalYAML() (any, error) {
	return strings.ToLower(c.String()), nil
}

type CostOp int

const (
	CostFixed    CostOp = iota // value, paid once per copy
	CostLinear                 // offset + coefficient·X
	CostMultiply               // ×k
	CostDivide                 // ÷k
	CostRepeat                 // ×(X+1), applied to the final total
)

func (op CostOp) String() string {
	switch op {
	case CostFixed:
		return "Fixed"
	case CostLinear:
		return "Linear"
	case CostMultiply:
		return "Multiply"
	case CostDivide:
		return "Divide"
	case CostRepeat:
		return "Repeat"
	default:
		return "Unknown"
	}
}

// --- Cost expressions ---

// CostExpr is the tagged cost of a term.
type CostExpr struct {
	Op     CostOp
	Value  float64 // fixed value, linear coefficient, or modifier factor
	Offset float64 // linear only: added once regardless of count
}

func Fixed(v float64) CostExpr { return CostExpr{Op: CostFixed, Value: v} }
func Linear(k float64) CostExpr { return CostExpr{Op: CostLinear, Value: k} }
func LinearOffset(a, k float64) CostExpr { return CostExpr{Op: CostLinear, Value: k, Offset: a} }
func Multiply(k float64) CostExpr { return CostExpr{Op: CostMultiply, Value: k} }
func Divide(k float64) CostExpr { return CostExpr{Op: CostDivide, Value: k} }
func Repeat() CostExpr { return CostExpr{Op: CostRepeat} }

// IsModifier reports whether the expression scales a running total instead of adding to it.
func (c CostExpr) IsModifier() bool {
	return c.Op == CostMultiply || c.Op == CostDivide || c.Op == CostRepeat
}

// Additive returns the contribution of count copies of an additive cost.
// Modifiers contribute nothing here.
func (c CostExpr) Additive(count int) float64 {
	switch c.Op {
	case CostFixed:
		return c.Value * float64(count)
	case CostLinear:
		return c.Offset + c.Value*float64(count)
	default:
		return 0
	}
}

// Scale applies a modifier to total. Additive expressions return total unchanged.
func (c CostExpr) Scale(total float64, count int) float64 {
	switch c.Op {
	case CostMultiply:
		return total * c.Value
	case CostDivide:
		return total / c.Value
	case CostRepeat:
		return total * float64(count+1)
	default:
		return total
	}
}

func (c CostExpr) String() string {
	switch c.Op {
	case CostFixed:
		return formatNumber(c.Value)
	case CostLinear:
		coef := formatNumber(c.Value)
		switch c.Value {
		case 1:
			coef = ""
		case -1:
			coef = "-"
		}
		if c.Offset != 0 {
			return formatNumber(c.Offset) + "+" + coef + "X"
		}
		return coef + "X"
	case CostMultiply:
		return "*" + formatNumber(c.Value)
	case CostDivide:
		return "/" + formatNumber(c.Value)
	case CostRepeat:
		return "*(X+1)"
	default:
		return "?"
	}
}

// ParseCost parses the catalog cost grammar: "45", "-30", "X", "3X", "-6X",
// "30+10X", "*2", "/5" and "*(X+1)".
func ParseCost(s string) (CostExpr, error) {
	raw := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	raw = strings.NewReplacer("×", "*", "÷", "/", "x", "X").Replace(raw)
	if raw == "" {
		return CostExpr{}, fmt.Errorf("empty cost expression")
	}

	if raw == "*(X+1)" {
		return Repeat(), nil
	}

	if strings.HasPrefix(raw, "*") || strings.HasPrefix(raw, "/") {
		k, err := strconv.ParseFloat(raw[1:], 64)
		if err != nil || k <= 0 || math.IsInf(k, 0) {
			return CostExpr{}, fmt.Errorf("invalid modifier %q", s)
		}
		if raw[0] == '*' {
			return Multiply(k), nil
		}
		return Divide(k), nil
	}

	if strings.HasSuffix(raw, "X") {
		body := strings.TrimSuffix(raw, "X")
		offset := 0.0
		if i := strings.LastIndex(body, "+"); i > 0 {
			a, err := strconv.ParseFloat(body[:i], 64)
			if err != nil {
				return CostExpr{}, fmt.Errorf("invalid cost offset in %q", s)
			}
			offset = a
			body = body[i+1:]
		}
		coef := 1.0
		switch body {
		case "", "+":
		case "-":
			coef = -1
		default:
			k, err := strconv.ParseFloat(body, 64)
			if err != nil {
				return CostExpr{}, fmt.Errorf("invalid cost coefficient in %q", s)
			}
			coef = k
		}
		return LinearOffset(offset, coef), nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return CostExpr{}, fmt.Errorf("invalid cost expression %q", s)
	}
	return Fixed(v), nil
}

func (c *CostExpr) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: cost must be a scalar", node.Line)
	}
	parsed, err := ParseCost(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = parsed
	return nil
}

func (c CostExpr) MarshalYAML() (any, error) {
	return c.String(), nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// --- Term ---

// Term is an immutable rule fragment. Terms are shared by pointer from a Catalog
// and must never be mutated after the catalog is built.
type Term struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Category Category `yaml:"category"`
	Cost     CostExpr `yaml:"cost"`
	Spell    Template `yaml:"spell"`
	Creature Template `yaml:"creature"`
	// Power is the per-copy magnitude used by the effect interpreter when the
	// relevant template has no placeholder.
	Power int `yaml:"power,omitempty"`
}

func (t *Term) String() string {
	return t.Name
}

// IsLimiter reports whether the term wraps child terms.
func (t *Term) IsLimiter() bool {
	return t.Category == CategoryConditional
}

// ScalesWith reports whether repeated copies of the term stack when rendered
// through tpl, the template for the card's kind. Terms that do not scale are
// unique: at most one copy per card outside a limiter.
func (t *Term) ScalesWith(tpl Template) bool {
	return t.Cost.Op == CostLinear || tpl.HasPlaceholder()
}
