// Package webui renders the control panel pages served by the local web server.
package webui

import (
	"errors"
	"html/template"
	"io"
	"io/fs"

	"github.com/sguter90/awspanel/pkg/dashboard"
	"github.com/sguter90/awspanel/pkg/form"
	"github.com/sguter90/awspanel/pkg/models"
	"github.com/sguter90/awspanel/pkg/panel"
	"github.com/sguter90/awspanel/pkg/session"
)

var pageTmpl *template.Template

// loadTemplatesFromFS parses the page and its partials from dir in fsys.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	pageTmpl, err = template.ParseFS(sub, "*.html", "partials/*.html")
	if err != nil {
		return err
	}
	return nil
}

// LoadTemplates loads the embedded templates. Call it during startup; the server
// must not start when it fails.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// PanelData is one panel of the page together with its form rows
type PanelData struct {
	panel.State
	Fields []form.FieldView
}

// IsDashboard reports whether the panel shows telemetry instead of a form
func (p PanelData) IsDashboard() bool {
	return p.ID == models.PanelDashboard
}

// PageData is the view model of the control panel page
type PageData struct {
	Title     string
	Panels    []PanelData
	Dashboard dashboard.Snapshot
	// Flash is a one-shot notice such as a failed submit
	Flash string
	// Refresh reloads the page after that many seconds while the dashboard is shown
	Refresh int
}

// NewPageData collects the render state of a session
func NewPageData(s *session.Session, flash string) *PageData {
	data := &PageData{
		Title:     "AWS control panel",
		Dashboard: s.View().Snapshot(),
		Flash:     flash,
	}
	for _, st := range s.Switcher().States() {
		p := PanelData{State: st}
		if st.ID != models.PanelDashboard {
			p.Fields = s.Form().Fields(string(st.ID))
		}
		data.Panels = append(data.Panels, p)
	}
	return data
}

// RenderPage writes the full control panel page
func RenderPage(w io.Writer, data *PageData) error {
	if pageTmpl == nil {
		return errors.New("page template not loaded: call webui.LoadTemplates during startup")
	}
	return pageTmpl.ExecuteTemplate(w, "panel.html", data)
}

// RenderDashboardPartial writes only the telemetry block, for periodic refresh.
func RenderDashboardPartial(w io.Writer, snap *dashboard.Snapshot) error {
	if pageTmpl == nil {
		return errors.New("dashboard template not loaded: call webui.LoadTemplates during startup")
	}
	return pageTmpl.ExecuteTemplate(w, "partials/dashboard.html", snap)
}
