package main

import (
	"strings"
	"testing"
	"time"

	"github.com/sguter90/awspanel/pkg/dashboard"
	"github.com/sguter90/awspanel/pkg/form"
	"github.com/sguter90/awspanel/pkg/models"
)

func TestParseAssignments(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    map[string]string
		wantErr bool
	}{
		{name: "single", args: []string{"tzname=UTC"}, want: map[string]string{"tzname": "UTC"}},
		{name: "value with equals", args: []string{"url_path=/a?b=c"}, want: map[string]string{"url_path": "/a?b=c"}},
		{name: "empty value", args: []string{"remote_server="}, want: map[string]string{"remote_server": ""}},
		{name: "missing equals", args: []string{"tzname"}, wantErr: true},
		{name: "missing key", args: []string{"=UTC"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAssignments(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseAssignments() error = %v, wantErr %v", err, tt.wantErr)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s: expected %q, got %q", k, v, got[k])
				}
			}
		})
	}
}

func TestDisplayValue(t *testing.T) {
	tests := []struct {
		name  string
		field form.FieldView
		want  string
	}{
		{name: "password masked", field: form.FieldView{Kind: form.KindPassword, Text: "secret"}, want: "********"},
		{name: "empty password", field: form.FieldView{Kind: form.KindPassword}, want: ""},
		{name: "checked", field: form.FieldView{Kind: form.KindCheckbox, Checked: true}, want: "yes"},
		{name: "unchecked", field: form.FieldView{Kind: form.KindCheckbox}, want: "no"},
		{name: "certificate", field: form.FieldView{Kind: form.KindTextArea, Text: "a\nb\nc\n"}, want: "(3 lines, see config root-ca)"},
		{name: "text", field: form.FieldView{Kind: form.KindText, Text: "UTC"}, want: "UTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := displayValue(tt.field); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRenderSnapshot(t *testing.T) {
	snap := dashboard.Snapshot{
		Status: dashboard.StatusNotReady,
		Outputs: []dashboard.Output{
			{Name: "uptime", Label: "Uptime", Group: dashboard.GroupSystem, Text: "1 day 1 hour 1 minute 1 second"},
			{Name: "temperature", Label: "Temperature", Group: dashboard.GroupSensors, Text: "21.50"},
		},
		Indicators: []dashboard.Output{
			{Name: models.IndicatorTemperature, Label: "Temperature", Color: dashboard.ColorGreen},
		},
		UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	out := renderSnapshot(snap, 40)
	for _, want := range []string{
		"AWS station",
		"updated 03:04:05",
		dashboard.StatusNotReady,
		"1 day 1 hour 1 minute 1 second",
		"21.50",
		"● Temperature",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
	if strings.Contains(out, dashboard.GroupGPS) {
		t.Error("Expected empty GPS group to be left out")
	}
}
