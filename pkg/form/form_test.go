package form

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/sguter90/awspanel/pkg/models"
)

func sampleRecord() models.ConfigRecord {
	return models.ConfigRecord{
		models.KeyTimezone:             "CET-1CEST,M3.5.0,M10.5.0/3",
		models.KeyAutomaticUpdates:     true,
		models.KeyPushFreq:             json.Number("300"),
		models.KeyDataPush:             json.Number("1"),
		models.KeyRemoteServer:         "aws.example.org",
		models.KeyURLPath:              "/weather",
		models.KeyPrefIface:            json.Number("1"),
		models.KeyWiFiMode:             json.Number("2"),
		models.KeyWiFiStaSSID:          "home",
		models.KeyWiFiStaIPMode:        json.Number("1"),
		models.KeyWiFiStaIP:            "192.168.1.50/24",
		models.KeyWiFiAPSSID:           "AWS",
		models.KeyHasBME:               true,
		models.KeyHasTSL:               false,
		models.KeyCloudCoverageFormula: json.Number("0"),
		"k1":                           json.Number("33"),
		"k7":                           json.Number("-0.5"),
		models.KeyCCAWSCloudy:          json.Number("-5"),
		models.KeyHasRTC:               true,
	}
}

func TestStationForm_RoundTrip(t *testing.T) {
	sf := NewStationForm(Capabilities{})
	record := sampleRecord()

	if err := sf.Fill(record); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	collected := sf.Collect(ScopeAll)
	for key, want := range record {
		got, ok := collected[key]
		if !ok {
			t.Errorf("Expected %s to be collected", key)
			continue
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: expected %#v, got %#v", key, want, got)
		}
	}
}

func TestStationForm_RoundTrip_UnsentRadiosStayUnset(t *testing.T) {
	sf := NewStationForm(Capabilities{})
	if err := sf.Fill(models.ConfigRecord{models.KeyTimezone: "UTC"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	collected := sf.Collect(ScopeAll)
	if _, ok := collected[models.KeyWiFiMode]; ok {
		t.Error("Expected wifi_mode to be absent when the station never sent it")
	}
}

func TestForm_Apply_MissingKeysUntouched(t *testing.T) {
	sf := NewStationForm(Capabilities{})

	sf.Fill(models.ConfigRecord{models.KeyTimezone: "UTC", models.KeyPushFreq: json.Number("60")})
	sf.Fill(models.ConfigRecord{models.KeyPushFreq: json.Number("120")})

	if v, _ := sf.Value(models.KeyTimezone); v != "UTC" {
		t.Errorf("Expected tzname to keep UTC, got %v", v)
	}
	if v, _ := sf.Value(models.KeyPushFreq); v != json.Number("120") {
		t.Errorf("Expected push_freq 120, got %v", v)
	}
}

func TestForm_Apply_CollectsErrors(t *testing.T) {
	sf := NewStationForm(Capabilities{})

	err := sf.Fill(models.ConfigRecord{
		models.KeyPushFreq: "often",
		models.KeyWiFiMode: "Mesh",
		models.KeyTimezone: "UTC",
	})
	if err == nil {
		t.Fatal("Expected conversion errors")
	}
	if v, _ := sf.Value(models.KeyTimezone); v != "UTC" {
		t.Errorf("Expected valid keys to still be applied, got %v", v)
	}
}

func TestForm_Apply_FieldMap(t *testing.T) {
	f := New()
	f.Add("general", "Name", NewText("station_name"))

	err := f.Apply(map[string]any{"name": "roof", "ignored": 1}, FieldMap{"name": "station_name"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if v, _ := f.Value("station_name"); v != "roof" {
		t.Errorf("Expected roof, got %v", v)
	}

	if err := f.Apply(map[string]any{"name": "x"}, FieldMap{"name": "missing"}); err == nil {
		t.Error("Expected error for a map entry naming an unknown control")
	}
}

func TestStationForm_DropsUnmodelledKeys(t *testing.T) {
	sf := NewStationForm(Capabilities{})
	record := sampleRecord()
	record["legacy_key"] = "x"

	if err := sf.Fill(record); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, ok := sf.Collect(ScopeAll)["legacy_key"]; ok {
		t.Error("Expected unmodelled key to be dropped on submit")
	}
}

func TestForm_Collect_Scopes(t *testing.T) {
	sf := NewStationForm(Capabilities{})
	sf.Fill(sampleRecord())

	general := sf.Collect(SectionGeneral)
	if _, ok := general[models.KeyTimezone]; !ok {
		t.Error("Expected tzname in general scope")
	}
	if _, ok := general[models.KeyHasBME]; ok {
		t.Error("Expected has_bme outside general scope")
	}

	config := sf.Collect(ScopeConfig)
	if _, ok := config[models.KeyHasRTC]; ok {
		t.Error("Expected disabled has_rtc outside config scope")
	}
}

func TestForm_Encode(t *testing.T) {
	sf := NewStationForm(Capabilities{})
	sf.Fill(sampleRecord())

	body := sf.Encode(ScopeConfig)

	tests := []struct {
		key     string
		present bool
		want    any
	}{
		{models.KeyHasBME, true, true},
		{models.KeyHasTSL, false, nil},
		{models.KeyHasMLX, false, nil},
		{models.KeyDataPush, true, json.Number("1")},
		{models.KeyHasRTC, false, nil},
		{models.KeyPushFreq, true, json.Number("300")},
		{models.KeyWiFiMode, true, json.Number("2")},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := body[tt.key]
			if ok != tt.present {
				t.Fatalf("Expected present=%v, got %v (%#v)", tt.present, ok, got)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %#v, got %#v", tt.want, got)
			}
		})
	}

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Expected encodable body, got %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}
	if decoded[models.KeyPushFreq] != float64(300) {
		t.Errorf("Expected push_freq as JSON number, got %#v", decoded[models.KeyPushFreq])
	}
}

func TestRadio_LegacyLabels(t *testing.T) {
	tests := []struct {
		input any
		want  json.Number
	}{
		{"AP", "1"},
		{"Client", "0"},
		{"both", "2"},
		{json.Number("1"), "1"},
		{float64(2), "2"},
	}

	for _, tt := range tests {
		sf := NewStationForm(Capabilities{})
		if err := sf.Set(models.KeyWiFiMode, tt.input); err != nil {
			t.Errorf("%v: unexpected error %v", tt.input, err)
			continue
		}
		if v, _ := sf.Value(models.KeyWiFiMode); v != tt.want {
			t.Errorf("%v: expected %v, got %v", tt.input, tt.want, v)
		}
	}
}

func TestNumber_Empty(t *testing.T) {
	n := NewNumber("k1")
	if err := n.Set(""); err != nil {
		t.Fatalf("Expected empty number to be accepted, got %v", err)
	}
	if v, _ := n.Value(); v != "" {
		t.Errorf("Expected empty value, got %#v", v)
	}
	if err := n.Set("1e3"); err != nil {
		t.Errorf("Expected exponent notation to be accepted, got %v", err)
	}
}

func TestStationForm_ToggleWiFiMode(t *testing.T) {
	tests := []struct {
		mode    any
		staRows bool
		apRows  bool
	}{
		{json.Number("0"), true, false},
		{json.Number("1"), false, true},
		{json.Number("2"), true, true},
		{"AP", false, true},
	}

	for _, tt := range tests {
		sf := NewStationForm(Capabilities{})
		sf.Fill(models.ConfigRecord{models.KeyWiFiMode: tt.mode})

		if got := sf.Visible(models.KeyWiFiStaSSID); got != tt.staRows {
			t.Errorf("mode %v: expected client rows visible=%v, got %v", tt.mode, tt.staRows, got)
		}
		if got := sf.Visible(models.KeyWiFiAPSSID); got != tt.apRows {
			t.Errorf("mode %v: expected AP rows visible=%v, got %v", tt.mode, tt.apRows, got)
		}
		if !sf.Visible(models.KeyWiFiMode) {
			t.Errorf("mode %v: expected wifi_mode row to stay visible", tt.mode)
		}
	}
}

func TestStationForm_ToggleStationIPMode(t *testing.T) {
	sf := NewStationForm(Capabilities{})

	sf.Fill(models.ConfigRecord{models.KeyWiFiStaIPMode: json.Number("0")})
	if !sf.IsReadOnly(models.KeyWiFiStaIP) {
		t.Error("Expected static IP to be read-only with DHCP")
	}

	sf.Fill(models.ConfigRecord{models.KeyWiFiStaIPMode: json.Number("1")})
	for _, k := range []string{models.KeyWiFiStaIP, models.KeyWiFiStaGW, models.KeyWiFiStaDNS} {
		if sf.IsReadOnly(k) {
			t.Errorf("Expected %s to be editable with a fixed address", k)
		}
	}
}

func TestStationForm_Ethernet(t *testing.T) {
	plain := NewStationForm(Capabilities{})
	if plain.Has(models.KeyEthIP) {
		t.Error("Expected no Ethernet fields without the capability")
	}
	if err := plain.Set(models.KeyPrefIface, json.Number("2")); err == nil {
		t.Error("Expected Ethernet interface to be rejected without the capability")
	}

	sf := NewStationForm(Capabilities{Ethernet: true})
	if sf.Visible(models.KeyEthIP) {
		t.Error("Expected Ethernet rows hidden by default")
	}

	sf.Fill(models.ConfigRecord{models.KeyPrefIface: json.Number("2")})
	if !sf.Visible(models.KeyEthIP) {
		t.Error("Expected Ethernet rows visible for Ethernet interface")
	}
	if sf.Visible(models.KeyWiFiStaSSID) {
		t.Error("Expected Wi-Fi rows hidden for Ethernet interface")
	}

	sf.Fill(models.ConfigRecord{models.KeyPrefIface: json.Number("1")})
	if sf.Visible(models.KeyEthIP) || !sf.Visible(models.KeyWiFiStaSSID) {
		t.Error("Expected Wi-Fi rows back for Wi-Fi interface")
	}
}

func TestForm_Fields(t *testing.T) {
	sf := NewStationForm(Capabilities{})
	sf.Fill(sampleRecord())

	views := sf.Fields(SectionNetwork)
	if len(views) == 0 {
		t.Fatal("Expected network fields")
	}
	if views[0].Name != models.KeyPrefIface {
		t.Errorf("Expected pref_iface first, got %s", views[0].Name)
	}

	var mode *FieldView
	for i := range views {
		if views[i].Name == models.KeyWiFiMode {
			mode = &views[i]
		}
	}
	if mode == nil {
		t.Fatal("Expected wifi_mode field")
	}
	if len(mode.Options) != 3 || !mode.Options[2].Selected {
		t.Errorf("Expected Both selected, got %+v", mode.Options)
	}

	devices := sf.Fields(SectionDevices)
	for _, v := range devices {
		if !v.Disabled {
			t.Errorf("Expected %s to be disabled", v.Name)
		}
	}
}

func TestStationForm_Edit(t *testing.T) {
	sf := NewStationForm(Capabilities{})
	sf.Fill(models.ConfigRecord{
		models.KeyHasBME:   json.Number("1"),
		models.KeyHasTSL:   true,
		models.KeyHasRTC:   true,
		models.KeyTimezone: "UTC",
		models.KeyWiFiMode: json.Number("0"),
	})

	err := sf.Edit(SectionSensors, map[string]any{models.KeyHasTSL: "on", "k1": "40"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if v, _ := sf.Value(models.KeyHasBME); v != json.Number("0") {
		t.Errorf("Expected has_bme unchecked in its numeric form, got %#v", v)
	}
	if v, _ := sf.Value(models.KeyHasTSL); v != true {
		t.Errorf("Expected has_tsl checked, got %#v", v)
	}
	if v, _ := sf.Value(models.KeyHasRTC); v != true {
		t.Errorf("Expected disabled has_rtc untouched, got %#v", v)
	}
	if v, _ := sf.Value(models.KeyTimezone); v != "UTC" {
		t.Errorf("Expected other sections untouched, got %v", v)
	}

	sf.Edit(SectionNetwork, map[string]any{models.KeyWiFiMode: "1"})
	if sf.Visible(models.KeyWiFiStaSSID) || !sf.Visible(models.KeyWiFiAPSSID) {
		t.Error("Expected rows to follow the edited Wi-Fi mode")
	}
}
