package form

import (
	"github.com/sguter90/awspanel/pkg/models"
)

// Sections of the station configuration form
const (
	SectionGeneral = string(models.PanelGeneral)
	SectionNetwork = string(models.PanelNetwork)
	SectionSensors = string(models.PanelSensors)
	SectionDevices = string(models.PanelDevices)
)

// Capabilities describes optional hardware of the station that changes the form layout
type Capabilities struct {
	Ethernet bool
}

var (
	stationRows = []string{
		models.KeyWiFiStaSSID, models.KeyWiFiStaPassword, models.KeyWiFiStaIPMode,
		models.KeyWiFiStaIP, models.KeyWiFiStaGW, models.KeyWiFiStaDNS,
	}
	accessPointRows = []string{
		models.KeyWiFiAPSSID, models.KeyWiFiAPPassword, models.KeyWiFiAPIP, models.KeyWiFiAPGW, models.KeyWiFiAPDNS,
	}
	stationStaticRows = []string{models.KeyWiFiStaIP, models.KeyWiFiStaGW, models.KeyWiFiStaDNS}
)

// StationForm is the configuration form of an AWS station
type StationForm struct {
	*Form
	caps Capabilities
}

// NewStationForm builds the form layout for a station with the given capabilities
func NewStationForm(caps Capabilities) *StationForm {
	f := New()

	f.Add(SectionGeneral, "Timezone", NewText(models.KeyTimezone))
	f.Add(SectionGeneral, "Automatic updates", NewCheckbox(models.KeyAutomaticUpdates))
	f.Add(SectionGeneral, "Push frequency (s)", NewNumber(models.KeyPushFreq))
	f.Add(SectionGeneral, "Push data", NewCheckbox(models.KeyDataPush))
	f.Add(SectionGeneral, "Remote server", NewText(models.KeyRemoteServer))
	f.Add(SectionGeneral, "URL path", NewText(models.KeyURLPath))
	f.Add(SectionGeneral, "OTA URL", NewText(models.KeyOTAURL))
	f.Add(SectionGeneral, "Root CA", NewTextArea(models.KeyRootCA))

	ifaces := []Option{
		{Value: jsonInt(models.InterfaceWiFiAP), Label: "Wi-Fi AP", Aliases: []string{"wifi_ap"}},
		{Value: jsonInt(models.InterfaceWiFiSta), Label: "Wi-Fi Client", Aliases: []string{"wifi_sta"}},
	}
	if caps.Ethernet {
		ifaces = append(ifaces, Option{Value: jsonInt(models.InterfaceEthernet), Label: "Ethernet", Aliases: []string{"eth"}})
	}
	f.Add(SectionNetwork, "Preferred interface", NewRadio(models.KeyPrefIface, ifaces...))

	f.Add(SectionNetwork, "Wi-Fi mode", NewRadio(models.KeyWiFiMode,
		Option{Value: jsonInt(models.WiFiModeStation), Label: "Client", Aliases: []string{"Client", "sta"}},
		Option{Value: jsonInt(models.WiFiModeAccessPoint), Label: "AP", Aliases: []string{"AP"}},
		Option{Value: jsonInt(models.WiFiModeBoth), Label: "Both", Aliases: []string{"Both"}},
	))
	f.Add(SectionNetwork, "Client SSID", NewText(models.KeyWiFiStaSSID))
	f.Add(SectionNetwork, "Client password", NewPassword(models.KeyWiFiStaPassword))
	f.Add(SectionNetwork, "Client addressing", ipModeRadio(models.KeyWiFiStaIPMode))
	f.Add(SectionNetwork, "Client IP", NewText(models.KeyWiFiStaIP))
	f.Add(SectionNetwork, "Client gateway", NewText(models.KeyWiFiStaGW))
	f.Add(SectionNetwork, "Client DNS", NewText(models.KeyWiFiStaDNS))
	f.Add(SectionNetwork, "AP SSID", NewText(models.KeyWiFiAPSSID))
	f.Add(SectionNetwork, "AP password", NewPassword(models.KeyWiFiAPPassword))
	f.Add(SectionNetwork, "AP IP", NewText(models.KeyWiFiAPIP))
	f.Add(SectionNetwork, "AP gateway", NewText(models.KeyWiFiAPGW))
	f.Add(SectionNetwork, "AP DNS", NewText(models.KeyWiFiAPDNS))

	if caps.Ethernet {
		f.Add(SectionNetwork, "Ethernet addressing", ipModeRadio(models.KeyEthIPMode))
		f.Add(SectionNetwork, "Ethernet IP", NewText(models.KeyEthIP))
		f.Add(SectionNetwork, "Ethernet gateway", NewText(models.KeyEthGW))
		f.Add(SectionNetwork, "Ethernet DNS", NewText(models.KeyEthDNS))
	}

	f.Add(SectionSensors, "BME280", NewCheckbox(models.KeyHasBME))
	f.Add(SectionSensors, "TSL2591", NewCheckbox(models.KeyHasTSL))
	f.Add(SectionSensors, "MLX96014", NewCheckbox(models.KeyHasMLX))
	f.Add(SectionSensors, "Sound level meter", NewCheckbox(models.KeyHasSPL))
	f.Add(SectionSensors, "Cloud coverage formula", NewRadio(models.KeyCloudCoverageFormula,
		Option{Value: jsonInt(models.FormulaAWS), Label: "AWS", Aliases: []string{"aws"}},
		Option{Value: jsonInt(models.FormulaAAG), Label: "AAG", Aliases: []string{"aag"}},
	))
	for _, k := range models.CalibrationKeys() {
		f.Add(SectionSensors, k, NewNumber(k))
	}
	f.Add(SectionSensors, "AWS cloudy threshold", NewNumber(models.KeyCCAWSCloudy))
	f.Add(SectionSensors, "AWS overcast threshold", NewNumber(models.KeyCCAWSOvercast))
	f.Add(SectionSensors, "AAG cloudy threshold", NewNumber(models.KeyCCAAGCloudy))
	f.Add(SectionSensors, "AAG overcast threshold", NewNumber(models.KeyCCAAGOvercast))

	// detected by the firmware at boot, shown but never sent back
	f.Add(SectionDevices, "RTC", NewCheckbox(models.KeyHasRTC), Disabled())
	f.Add(SectionDevices, "SD card", NewCheckbox(models.KeyHasSDCard), Disabled())
	f.Add(SectionDevices, "LoRaWAN", NewCheckbox(models.KeyHasLoRaWAN), Disabled())

	sf := &StationForm{Form: f, caps: caps}
	sf.ShowWiFi()
	sf.ToggleStationIPMode(false)
	return sf
}

func ipModeRadio(name string) *Radio {
	return NewRadio(name,
		Option{Value: jsonInt(models.IPModeDHCP), Label: "DHCP", Aliases: []string{"dhcp"}},
		Option{Value: jsonInt(models.IPModeFixed), Label: "Fixed", Aliases: []string{"fixed", "static"}},
	)
}

// Capabilities returns the hardware options the layout was built for
func (sf *StationForm) Capabilities() Capabilities {
	return sf.caps
}

// Fill applies a configuration record and updates the dependent row states
func (sf *StationForm) Fill(record models.ConfigRecord) error {
	err := sf.Apply(record, nil)
	sf.refresh()
	return err
}

// Edit applies operator input posted for one section and updates the dependent row states
func (sf *StationForm) Edit(section string, values map[string]any) error {
	err := sf.ApplyPosted(section, values)
	sf.refresh()
	return err
}

func (sf *StationForm) refresh() {
	if sf.caps.Ethernet && sf.preferredInterface() == models.InterfaceEthernet {
		sf.ShowEthernet()
	} else {
		sf.ShowWiFi()
		if mode, ok := sf.wifiMode(); ok {
			sf.ToggleWiFiMode(mode)
		}
	}

	sf.ToggleStationIPMode(sf.stationIPMode() == models.IPModeFixed)
}

// FillRootCA sets the certificate text
func (sf *StationForm) FillRootCA(ca string) {
	_ = sf.Set(models.KeyRootCA, ca)
}

// ToggleWiFiMode shows the rows that apply to the given topology
func (sf *StationForm) ToggleWiFiMode(mode models.WiFiMode) {
	showSta := mode == models.WiFiModeStation || mode == models.WiFiModeBoth
	showAP := mode == models.WiFiModeAccessPoint || mode == models.WiFiModeBoth

	for _, k := range stationRows {
		sf.SetVisible(k, showSta)
	}
	for _, k := range accessPointRows {
		sf.SetVisible(k, showAP)
	}
}

// ToggleStationIPMode makes the static client address fields editable when fixed is set
func (sf *StationForm) ToggleStationIPMode(fixed bool) {
	for _, k := range stationStaticRows {
		sf.SetReadOnly(k, !fixed)
	}
}

// ShowWiFi shows every Wi-Fi row and hides the Ethernet rows
func (sf *StationForm) ShowWiFi() {
	for _, k := range models.WiFiParameters {
		sf.SetVisible(k, true)
	}
	for _, k := range models.EthernetParameters {
		sf.SetVisible(k, false)
	}
}

// ShowEthernet hides the Wi-Fi rows and shows the Ethernet rows, if the station has a port
func (sf *StationForm) ShowEthernet() {
	if !sf.caps.Ethernet {
		return
	}
	for _, k := range models.WiFiParameters {
		sf.SetVisible(k, false)
	}
	for _, k := range models.EthernetParameters {
		sf.SetVisible(k, true)
	}
}

func (sf *StationForm) wifiMode() (models.WiFiMode, bool) {
	v, ok := sf.Value(models.KeyWiFiMode)
	if !ok {
		return 0, false
	}
	mode, err := models.ParseWiFiMode(v)
	return mode, err == nil
}

func (sf *StationForm) stationIPMode() models.IPMode {
	v, ok := sf.Value(models.KeyWiFiStaIPMode)
	if !ok {
		return models.IPModeDHCP
	}
	n, err := models.AsInt(v)
	if err != nil {
		return models.IPModeDHCP
	}
	return models.IPMode(n)
}

func (sf *StationForm) preferredInterface() models.Interface {
	v, ok := sf.Value(models.KeyPrefIface)
	if !ok {
		return models.InterfaceWiFiAP
	}
	n, err := models.AsInt(v)
	if err != nil {
		return models.InterfaceWiFiAP
	}
	return models.Interface(n)
}
