package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sguter90/awspanel/pkg/dashboard"
)

var (
	primaryColor = lipgloss.Color("39")
	subtleColor  = lipgloss.Color("245")
	warningColor = lipgloss.Color("214")
	greenColor   = lipgloss.Color("42")
	redColor     = lipgloss.Color("196")

	titleStyle   = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	labelStyle   = lipgloss.NewStyle().Width(22).Foreground(subtleColor)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor).Bold(true)
)

var outputGroups = []string{dashboard.GroupSystem, dashboard.GroupGPS, dashboard.GroupSensors}

func colorStyle(c dashboard.Color) lipgloss.Style {
	switch c {
	case dashboard.ColorGreen:
		return lipgloss.NewStyle().Foreground(greenColor)
	case dashboard.ColorRed:
		return lipgloss.NewStyle().Foreground(redColor)
	}
	return lipgloss.NewStyle()
}

// renderSnapshot lays out the dashboard for the terminal
func renderSnapshot(s dashboard.Snapshot, width int) string {
	if width <= 0 {
		width = 60
	}
	divider := lipgloss.NewStyle().Foreground(subtleColor).Render(strings.Repeat("─", width))

	header := titleStyle.Render("AWS station")
	if !s.UpdatedAt.IsZero() {
		header += lipgloss.NewStyle().Foreground(subtleColor).Render("  updated " + s.UpdatedAt.Format("15:04:05"))
	}
	parts := []string{header, divider}

	if s.Status != "" {
		parts = append(parts, warningStyle.Render(s.Status))
	}
	if s.OTAMessage != "" {
		parts = append(parts, "OTA: "+s.OTAMessage)
	}

	for _, group := range outputGroups {
		var lines []string
		for _, o := range s.Outputs {
			if o.Group != group {
				continue
			}
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Left,
				"  ",
				labelStyle.Render(o.Label),
				colorStyle(o.Color).Render(o.Text),
			))
		}
		if len(lines) == 0 {
			continue
		}
		parts = append(parts, "", titleStyle.Render(group))
		parts = append(parts, lines...)
	}

	if len(s.Indicators) > 0 {
		leds := make([]string, 0, len(s.Indicators))
		for _, ind := range s.Indicators {
			leds = append(leds, colorStyle(ind.Color).Render("● "+ind.Label)+"  ")
		}
		parts = append(parts, "", titleStyle.Render("Indicators"), "  "+lipgloss.JoinHorizontal(lipgloss.Top, leds...))
	}

	parts = append(parts, divider)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
