package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ConfigRecord is the flat configuration document exchanged with the station.
// Values are string, bool or json.Number.
type ConfigRecord map[string]any

// Configuration keys accepted by the station firmware
const (
	KeyTimezone         = "tzname"
	KeyAutomaticUpdates = "automatic_updates"
	KeyPushFreq         = "push_freq"
	KeyDataPush         = "data_push"
	KeyRemoteServer     = "remote_server"
	KeyURLPath          = "url_path"
	KeyOTAURL           = "ota_url"
	KeyRootCA           = "root_ca"
	KeyPrefIface        = "pref_iface"

	KeyWiFiMode        = "wifi_mode"
	KeyWiFiStaSSID     = "wifi_sta_ssid"
	KeyWiFiStaPassword = "wifi_sta_password"
	KeyWiFiStaIPMode   = "wifi_sta_ip_mode"
	KeyWiFiStaIP       = "wifi_sta_ip"
	KeyWiFiStaGW       = "wifi_sta_gw"
	KeyWiFiStaDNS      = "wifi_sta_dns"
	KeyWiFiAPSSID      = "wifi_ap_ssid"
	KeyWiFiAPPassword  = "wifi_ap_password"
	KeyWiFiAPIP        = "wifi_ap_ip"
	KeyWiFiAPGW        = "wifi_ap_gw"
	KeyWiFiAPDNS       = "wifi_ap_dns"

	KeyEthIPMode = "eth_ip_mode"
	KeyEthIP     = "eth_ip"
	KeyEthGW     = "eth_gw"
	KeyEthDNS    = "eth_dns"

	KeyHasBME = "has_bme"
	KeyHasTSL = "has_tsl"
	KeyHasMLX = "has_mlx"
	KeyHasSPL = "has_spl"

	KeyHasRTC     = "has_rtc"
	KeyHasSDCard  = "has_sdcard"
	KeyHasLoRaWAN = "has_lorawan"

	KeyCloudCoverageFormula = "cloud_coverage_formula"
	KeyCCAWSCloudy          = "cc_aws_cloudy"
	KeyCCAWSOvercast        = "cc_aws_overcast"
	KeyCCAAGCloudy          = "cc_aag_cloudy"
	KeyCCAAGOvercast        = "cc_aag_overcast"
)

// CalibrationKeys returns the k1..k7 cloud coverage coefficient keys
func CalibrationKeys() []string {
	keys := make([]string, 0, 7)
	for i := 1; i <= 7; i++ {
		keys = append(keys, fmt.Sprintf("k%d", i))
	}
	return keys
}

// WiFiParameters lists the keys shown on the Wi-Fi part of the network panel
var WiFiParameters = []string{
	KeyWiFiMode, KeyWiFiStaSSID, KeyWiFiStaPassword, KeyWiFiStaIPMode, KeyWiFiStaIP, KeyWiFiStaGW, KeyWiFiStaDNS,
	KeyWiFiAPSSID, KeyWiFiAPPassword, KeyWiFiAPIP, KeyWiFiAPGW, KeyWiFiAPDNS,
}

// EthernetParameters lists the keys of stations built with an Ethernet port
var EthernetParameters = []string{KeyEthIPMode, KeyEthIP, KeyEthGW, KeyEthDNS}

// WiFiMode is the Wi-Fi topology of the station
type WiFiMode int

const (
	WiFiModeStation WiFiMode = iota
	WiFiModeAccessPoint
	WiFiModeBoth
)

func (m WiFiMode) String() string {
	switch m {
	case WiFiModeStation:
		return "Client"
	case WiFiModeAccessPoint:
		return "AP"
	case WiFiModeBoth:
		return "Both"
	}
	return "Unknown"
}

// ParseWiFiMode accepts the numeric firmware value or one of the legacy labels
func ParseWiFiMode(v any) (WiFiMode, error) {
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "client", "sta":
			return WiFiModeStation, nil
		case "ap":
			return WiFiModeAccessPoint, nil
		case "both":
			return WiFiModeBoth, nil
		}
	}
	n, err := AsInt(v)
	if err != nil {
		return 0, fmt.Errorf("invalid wifi mode %v", v)
	}
	if n < int64(WiFiModeStation) || n > int64(WiFiModeBoth) {
		return 0, fmt.Errorf("wifi mode %d out of range", n)
	}
	return WiFiMode(n), nil
}

// IPMode selects DHCP or fixed addressing
type IPMode int

const (
	IPModeDHCP IPMode = iota
	IPModeFixed
)

// Interface is the preferred network interface of the station
type Interface int

const (
	InterfaceWiFiAP Interface = iota
	InterfaceWiFiSta
	InterfaceEthernet
)

// CloudCoverageFormula selects how the station classifies sky temperature
type CloudCoverageFormula int

const (
	FormulaAWS CloudCoverageFormula = iota
	FormulaAAG
)

// Get returns the raw value stored under key
func (r ConfigRecord) Get(key string) (any, bool) {
	v, ok := r[key]
	return v, ok
}

// Clone returns a shallow copy of the record
func (r ConfigRecord) Clone() ConfigRecord {
	out := make(ConfigRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Keys returns the record keys in no particular order
func (r ConfigRecord) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	return keys
}

// AsInt converts a scalar JSON value into an integer
func AsInt(v any) (int64, error) {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return 0, err
		}
		return int64(f), nil
	case float64:
		return int64(t), nil
	case int:
		return int64(t), nil
	case int64:
		return t, nil
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	case string:
		return AsInt(json.Number(strings.TrimSpace(t)))
	}
	return 0, fmt.Errorf("unsupported value type %T", v)
}

// AsFloat converts a scalar JSON value into a float
func AsFloat(v any) (float64, error) {
	switch t := v.(type) {
	case json.Number:
		return t.Float64()
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case string:
		return json.Number(strings.TrimSpace(t)).Float64()
	}
	return 0, fmt.Errorf("unsupported value type %T", v)
}

// AsBool interprets booleans, numeric flags and HTML checkbox values
func AsBool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "on", "true", "1", "yes":
			return true, nil
		case "", "off", "false", "0", "no":
			return false, nil
		}
		return false, fmt.Errorf("invalid boolean %q", t)
	case nil:
		return false, nil
	}
	n, err := AsInt(v)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

// AsString renders a scalar JSON value as text
func AsString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	}
	return fmt.Sprintf("%v", v)
}
