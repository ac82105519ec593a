package dashboard

import (
	"sync"
	"time"
)

// StatusNotReady is shown while the station answers 503
const StatusNotReady = "Station not ready"

// View holds what the dashboard currently displays. Outputs are only replaced by a
// render, so a failed poll leaves the previous values on screen.
type View struct {
	mu         sync.RWMutex
	outputs    map[string]Output
	order      []string
	indicators []Output
	status     string
	otaMessage string
	updatedAt  time.Time
}

// NewView creates an empty view
func NewView() *View {
	return &View{
		outputs: make(map[string]Output),
	}
}

// Render stores the outputs of a model and clears the status line
func (v *View) Render(m Model) {
	bindings := m.Bindings()
	indicators := m.Indicators()

	v.mu.Lock()
	defer v.mu.Unlock()

	for _, o := range bindings {
		if _, ok := v.outputs[o.Name]; !ok {
			v.order = append(v.order, o.Name)
		}
		v.outputs[o.Name] = o
	}
	if indicators != nil {
		v.indicators = indicators
	}
	v.status = ""
	v.updatedAt = time.Now()
}

// SetStatus replaces the status line
func (v *View) SetStatus(status string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = status
}

// Status returns the status line
func (v *View) Status() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.status
}

// SetOTAMessage replaces the message of the last OTA trigger
func (v *View) SetOTAMessage(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.otaMessage = msg
}

// OTAMessage returns the message of the last OTA trigger
func (v *View) OTAMessage() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.otaMessage
}

// Output returns a single output by name
func (v *View) Output(name string) (Output, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	o, ok := v.outputs[name]
	return o, ok
}

// Snapshot is a copy of the view for rendering
type Snapshot struct {
	Outputs    []Output  `json:"outputs"`
	Indicators []Output  `json:"indicators"`
	Status     string    `json:"status"`
	OTAMessage string    `json:"ota_message"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Snapshot copies the current state
func (v *View) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()

	s := Snapshot{
		Outputs:    make([]Output, 0, len(v.order)),
		Indicators: append([]Output(nil), v.indicators...),
		Status:     v.status,
		OTAMessage: v.otaMessage,
		UpdatedAt:  v.updatedAt,
	}
	for _, name := range v.order {
		s.Outputs = append(s.Outputs, v.outputs[name])
	}
	return s
}

// Indicator returns the colour of a sensor indicator
func (v *View) Indicator(name string) (Color, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, o := range v.indicators {
		if o.Name == name {
			return o.Color, true
		}
	}
	return ColorNone, false
}
