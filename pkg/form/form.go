// Package form maps flat configuration records onto named input controls and back.
package form

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sguter90/awspanel/pkg/models"
)

const (
	// ScopeAll selects every control of the form
	ScopeAll = "*"
	// ScopeConfig selects every control that is submitted to the station
	ScopeConfig = "config"
)

// FieldMap maps record keys to control names. A nil map means names equal keys.
type FieldMap map[string]string

// IdentityMap builds a FieldMap whose control names equal the keys
func IdentityMap(keys ...string) FieldMap {
	fm := make(FieldMap, len(keys))
	for _, k := range keys {
		fm[k] = k
	}
	return fm
}

// Field is a control plus its placement and presentation state
type Field struct {
	Control  Control
	Section  string
	Label    string
	Disabled bool
	ReadOnly bool
	Visible  bool
}

// FieldOption configures a Field when it is added
type FieldOption func(*Field)

// Disabled marks a field as display only; it is never submitted
func Disabled() FieldOption {
	return func(f *Field) {
		f.Disabled = true
	}
}

// ReadOnly marks a field as not editable
func ReadOnly() FieldOption {
	return func(f *Field) {
		f.ReadOnly = true
	}
}

// Form is an ordered set of fields grouped in sections
type Form struct {
	mu     sync.RWMutex
	fields map[string]*Field
	order  []string
}

// New creates an empty form
func New() *Form {
	return &Form{
		fields: make(map[string]*Field),
	}
}

// Add appends a control to section. Adding a name twice replaces the earlier field.
func (f *Form) Add(section, label string, c Control, opts ...FieldOption) {
	field := &Field{
		Control: c,
		Section: section,
		Label:   label,
		Visible: true,
	}
	for _, opt := range opts {
		opt(field)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.fields[c.Name()]; !exists {
		f.order = append(f.order, c.Name())
	}
	f.fields[c.Name()] = field
}

// Has reports whether the form defines a control called name
func (f *Form) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.fields[name]
	return ok
}

// Names returns the control names of scope in form order
func (f *Form) Names(scope string) []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.order))
	for _, name := range f.order {
		if f.inScope(f.fields[name], scope) {
			names = append(names, name)
		}
	}
	return names
}

// Sections returns section names in the order they first appear
func (f *Form) Sections() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	seen := make(map[string]bool)
	var sections []string
	for _, name := range f.order {
		s := f.fields[name].Section
		if !seen[s] {
			seen[s] = true
			sections = append(sections, s)
		}
	}
	return sections
}

func (f *Form) inScope(field *Field, scope string) bool {
	switch scope {
	case ScopeAll:
		return true
	case ScopeConfig:
		return !field.Disabled
	}
	return field.Section == scope
}

// Apply writes every present key of record into the control fm names for it.
// Keys without a mapping or without a matching control are skipped, controls whose key is
// absent keep their value. Conversion failures are reported together; the other keys are
// still applied.
func (f *Form) Apply(record map[string]any, fm FieldMap) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		name := key
		if fm != nil {
			mapped, ok := fm[key]
			if !ok {
				continue
			}
			name = mapped
		}

		field, ok := f.fields[name]
		if !ok {
			if fm != nil {
				errs = append(errs, fmt.Errorf("field map points %s at unknown control %s", key, name))
			}
			continue
		}

		if err := field.Control.Set(record[key]); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// ApplyPosted writes operator input for the controls of scope. Like an HTML form post,
// a checkbox missing from values is unchecked. Disabled controls are ignored.
func (f *Form) ApplyPosted(scope string, values map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var errs []error
	for _, name := range f.order {
		field := f.fields[name]
		if field.Disabled || !f.inScope(field, scope) {
			continue
		}

		v, ok := values[name]
		if !ok {
			if cb, isCheckbox := field.Control.(*Checkbox); isCheckbox {
				cb.uncheck()
			}
			continue
		}
		if err := field.Control.Set(v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Set assigns a single control
func (f *Form) Set(name string, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	field, ok := f.fields[name]
	if !ok {
		return fmt.Errorf("unknown field %s", name)
	}
	return field.Control.Set(v)
}

// Value returns the typed value of a single control
func (f *Form) Value(name string) (any, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	field, ok := f.fields[name]
	if !ok {
		return nil, false
	}
	return field.Control.Value()
}

// Collect reads every control of scope into a flat record
func (f *Form) Collect(scope string) models.ConfigRecord {
	f.mu.RLock()
	defer f.mu.RUnlock()

	record := make(models.ConfigRecord)
	for _, name := range f.order {
		field := f.fields[name]
		if !f.inScope(field, scope) {
			continue
		}
		if v, ok := field.Control.Value(); ok {
			record[name] = v
		}
	}
	return record
}

// Encode produces the body submitted to the station. It follows HTML form rules the
// firmware depends on: disabled fields are skipped and unchecked checkboxes are omitted,
// since the station treats the presence of a flag as enabled.
func (f *Form) Encode(scope string) map[string]any {
	f.mu.RLock()
	defer f.mu.RUnlock()

	body := make(map[string]any)
	for _, name := range f.order {
		field := f.fields[name]
		if field.Disabled || !f.inScope(field, scope) {
			continue
		}
		if cb, ok := field.Control.(*Checkbox); ok && !cb.Checked() {
			continue
		}
		if v, ok := field.Control.Value(); ok {
			body[name] = v
		}
	}
	return body
}

// SetVisible shows or hides the row of a field
func (f *Form) SetVisible(name string, visible bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if field, ok := f.fields[name]; ok {
		field.Visible = visible
	}
}

// SetReadOnly toggles whether a field is editable
func (f *Form) SetReadOnly(name string, readOnly bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if field, ok := f.fields[name]; ok {
		field.ReadOnly = readOnly
	}
}

// Visible reports whether the row of a field is shown
func (f *Form) Visible(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	field, ok := f.fields[name]
	return ok && field.Visible
}

// IsReadOnly reports whether a field is read-only
func (f *Form) IsReadOnly(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	field, ok := f.fields[name]
	return ok && field.ReadOnly
}

// FieldView is a snapshot of a field for rendering
type FieldView struct {
	Name     string       `json:"name"`
	Kind     Kind         `json:"kind"`
	Label    string       `json:"label"`
	Text     string       `json:"text"`
	Checked  bool         `json:"checked,omitempty"`
	Options  []OptionView `json:"options,omitempty"`
	Disabled bool         `json:"disabled,omitempty"`
	ReadOnly bool         `json:"readonly,omitempty"`
	Visible  bool         `json:"visible"`
}

// OptionView is one choice of a radio field
type OptionView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}

// Fields returns the fields of scope in form order
func (f *Form) Fields(scope string) []FieldView {
	f.mu.RLock()
	defer f.mu.RUnlock()

	views := make([]FieldView, 0, len(f.order))
	for _, name := range f.order {
		field := f.fields[name]
		if !f.inScope(field, scope) {
			continue
		}

		view := FieldView{
			Name:     name,
			Kind:     field.Control.Kind(),
			Label:    field.Label,
			Text:     field.Control.Text(),
			Disabled: field.Disabled,
			ReadOnly: field.ReadOnly,
			Visible:  field.Visible,
		}
		switch c := field.Control.(type) {
		case *Checkbox:
			view.Checked = c.Checked()
		case *Radio:
			for i, opt := range c.Options() {
				view.Options = append(view.Options, OptionView{
					Value:    models.AsString(opt.Value),
					Label:    opt.Label,
					Selected: i == c.Selected(),
				})
			}
		}
		views = append(views, view)
	}
	return views
}
