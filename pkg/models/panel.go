package models

import "fmt"

// PanelID identifies one of the mutually exclusive sections of the control panel
type PanelID string

const (
	PanelGeneral   PanelID = "general"
	PanelNetwork   PanelID = "network"
	PanelSensors   PanelID = "sensors"
	PanelDevices   PanelID = "devices"
	PanelDashboard PanelID = "dashboard"
)

// Panels is the fixed panel set in navigation order
var Panels = []PanelID{PanelGeneral, PanelNetwork, PanelSensors, PanelDevices, PanelDashboard}

// PanelTitles holds the navigation labels
var PanelTitles = map[PanelID]string{
	PanelGeneral:   "General",
	PanelNetwork:   "Network",
	PanelSensors:   "Sensors",
	PanelDevices:   "Devices",
	PanelDashboard: "Dashboard",
}

// ParsePanelID validates a panel name
func ParsePanelID(s string) (PanelID, error) {
	for _, p := range Panels {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown panel %q", s)
}
