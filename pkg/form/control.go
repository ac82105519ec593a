package form

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sguter90/awspanel/pkg/models"
)

// Kind is the input type of a control
type Kind string

const (
	KindText     Kind = "text"
	KindPassword Kind = "password"
	KindTextArea Kind = "textarea"
	KindNumber   Kind = "number"
	KindCheckbox Kind = "checkbox"
	KindRadio    Kind = "radio"
)

// Control is a named input holding one configuration value in its natural representation
type Control interface {
	Name() string
	Kind() Kind
	// Set stores v, converting it to the control's representation
	Set(v any) error
	// Value returns the typed value to collect, ok is false when the control holds nothing
	Value() (any, bool)
	// Text returns the value as displayed
	Text() string
}

// Text is a single or multi line text input
type Text struct {
	name  string
	kind  Kind
	value string
}

// NewText creates a text input
func NewText(name string) *Text {
	return &Text{name: name, kind: KindText}
}

// NewPassword creates a masked text input
func NewPassword(name string) *Text {
	return &Text{name: name, kind: KindPassword}
}

// NewTextArea creates a multi line text input
func NewTextArea(name string) *Text {
	return &Text{name: name, kind: KindTextArea}
}

func (t *Text) Name() string { return t.name }
func (t *Text) Kind() Kind   { return t.kind }
func (t *Text) Text() string { return t.value }

func (t *Text) Set(v any) error {
	t.value = models.AsString(v)
	return nil
}

func (t *Text) Value() (any, bool) {
	return t.value, true
}

// Number is a numeric input. The textual form is kept so values round-trip unchanged.
type Number struct {
	name  string
	value string
}

// NewNumber creates a numeric input
func NewNumber(name string) *Number {
	return &Number{name: name}
}

func (n *Number) Name() string { return n.name }
func (n *Number) Kind() Kind   { return KindNumber }
func (n *Number) Text() string { return n.value }

func (n *Number) Set(v any) error {
	s := strings.TrimSpace(models.AsString(v))
	if s == "" {
		n.value = ""
		return nil
	}
	if _, err := json.Number(s).Float64(); err != nil {
		return fmt.Errorf("%s: %q is not a number", n.name, s)
	}
	n.value = s
	return nil
}

func (n *Number) Value() (any, bool) {
	if n.value == "" {
		return "", true
	}
	return json.Number(n.value), true
}

// Checkbox is a boolean input. Stations send flags either as JSON booleans or as 0/1;
// the representation last applied is the one collected.
type Checkbox struct {
	name    string
	checked bool
	numeric bool
}

// NewCheckbox creates a checkbox
func NewCheckbox(name string) *Checkbox {
	return &Checkbox{name: name}
}

func (c *Checkbox) Name() string  { return c.name }
func (c *Checkbox) Kind() Kind    { return KindCheckbox }
func (c *Checkbox) Checked() bool { return c.checked }

func (c *Checkbox) Text() string {
	if c.checked {
		return "on"
	}
	return ""
}

func (c *Checkbox) Set(v any) error {
	b, err := models.AsBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	c.checked = b
	switch v.(type) {
	case json.Number, int, int64, float64:
		c.numeric = true
	case bool:
		c.numeric = false
	}
	return nil
}

// uncheck clears the box and keeps the wire representation
func (c *Checkbox) uncheck() {
	c.checked = false
}

func (c *Checkbox) Value() (any, bool) {
	if c.numeric {
		if c.checked {
			return json.Number("1"), true
		}
		return json.Number("0"), true
	}
	return c.checked, true
}

// Option is one choice of a radio group
type Option struct {
	Value   any
	Label   string
	Aliases []string
}

// Radio is a group of mutually exclusive options
type Radio struct {
	name     string
	options  []Option
	selected int
}

// NewRadio creates a radio group with nothing selected
func NewRadio(name string, options ...Option) *Radio {
	return &Radio{name: name, options: options, selected: -1}
}

func (r *Radio) Name() string      { return r.name }
func (r *Radio) Kind() Kind        { return KindRadio }
func (r *Radio) Options() []Option { return r.options }

// Selected returns the index of the chosen option, -1 when none
func (r *Radio) Selected() int { return r.selected }

func (r *Radio) Text() string {
	if r.selected < 0 {
		return ""
	}
	return r.options[r.selected].Label
}

func (r *Radio) Set(v any) error {
	s := strings.TrimSpace(models.AsString(v))
	for i, opt := range r.options {
		if models.AsString(opt.Value) == s {
			r.selected = i
			return nil
		}
	}
	for i, opt := range r.options {
		for _, alias := range opt.Aliases {
			if strings.EqualFold(alias, s) {
				r.selected = i
				return nil
			}
		}
	}
	return fmt.Errorf("%s: no option matches %q", r.name, s)
}

func (r *Radio) Value() (any, bool) {
	if r.selected < 0 {
		return nil, false
	}
	return r.options[r.selected].Value, true
}

// jsonInt renders an enumeration value the way the station encodes it
func jsonInt[T ~int](v T) json.Number {
	return json.Number(strconv.Itoa(int(v)))
}
