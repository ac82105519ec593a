// Package panel tracks which single section of the control panel is shown.
package panel

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sguter90/awspanel/pkg/models"
)

var ErrUnknownPanel = errors.New("unknown panel")

// Listener is notified after the active panel changed
type Listener func(prev, next models.PanelID)

// Switcher holds exactly one active panel out of a fixed set
type Switcher struct {
	// notify orders state changes together with their listener calls
	notify    sync.Mutex
	mu        sync.RWMutex
	panels    []models.PanelID
	active    map[models.PanelID]bool
	current   models.PanelID
	listeners []Listener
}

// NewSwitcher creates a switcher over panels with initial active.
// Listeners registered later are not told about the initial panel.
func NewSwitcher(panels []models.PanelID, initial models.PanelID) (*Switcher, error) {
	s := &Switcher{
		panels: append([]models.PanelID(nil), panels...),
		active: make(map[models.PanelID]bool, len(panels)),
	}
	for _, p := range panels {
		s.active[p] = false
	}
	if _, ok := s.active[initial]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPanel, initial)
	}
	s.active[initial] = true
	s.current = initial
	return s, nil
}

// OnChange registers a listener. Listeners run synchronously in registration order.
func (s *Switcher) OnChange(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Activate deactivates every other panel and activates id, then notifies listeners.
// Activating the current panel notifies again so that listeners can re-arm.
// Concurrent calls notify in the order they changed the state, so the last
// notification always names the active panel. Listeners must not call Activate.
func (s *Switcher) Activate(id models.PanelID) error {
	s.notify.Lock()
	defer s.notify.Unlock()

	s.mu.Lock()
	if _, ok := s.active[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownPanel, id)
	}

	prev := s.current
	for _, p := range s.panels {
		s.active[p] = p == id
	}
	s.current = id
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(prev, id)
	}
	return nil
}

// Active returns the active panel
func (s *Switcher) Active() models.PanelID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// IsActive reports whether id is the active panel
func (s *Switcher) IsActive(id models.PanelID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active[id]
}

// Panels returns the panel set in navigation order
func (s *Switcher) Panels() []models.PanelID {
	return append([]models.PanelID(nil), s.panels...)
}

// State is the visual state of one panel and its navigation entry
type State struct {
	ID          models.PanelID `json:"id"`
	Title       string         `json:"title"`
	Active      bool           `json:"active"`
	PanelClass  string         `json:"panel_class"`
	BannerClass string         `json:"banner_class"`
}

// States returns the visual state of every panel in navigation order
func (s *Switcher) States() []State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	states := make([]State, 0, len(s.panels))
	for _, p := range s.panels {
		panelClass, bannerClass := classes(p, s.active[p])
		states = append(states, State{
			ID:          p,
			Title:       models.PanelTitles[p],
			Active:      s.active[p],
			PanelClass:  panelClass,
			BannerClass: bannerClass,
		})
	}
	return states
}

// Classes returns the CSS classes of the panel body and its banner entry
func (s *Switcher) Classes(id models.PanelID) (panelClass, bannerClass string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return classes(id, s.active[id])
}

func classes(id models.PanelID, active bool) (string, string) {
	if !active {
		return "panel", "top_menu unselected_top_menu"
	}
	panelClass := "panel active_panel"
	if id == models.PanelGeneral {
		panelClass += " left_panel"
	}
	return panelClass, "top_menu selected_top_menu"
}
