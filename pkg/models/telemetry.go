package models

import "time"

// Telemetry is one snapshot returned by /get_station_data
type Telemetry map[string]any

// Telemetry keys as sent by the station
const (
	TelemetryBatteryLevel       = "battery_level"
	TelemetryUptime             = "uptime"
	TelemetryBuildID            = "build_id"
	TelemetryResetReason        = "reset_reason"
	TelemetryInitHeapSize       = "init_heap_size"
	TelemetryCurrentHeapSize    = "current_heap_size"
	TelemetryLargestFreeHeap    = "largest_free_heap_block"
	TelemetryOTABoard           = "ota_board"
	TelemetryOTADevice          = "ota_device"
	TelemetryOTAConfig          = "ota_config"
	TelemetryOTACode            = "ota_code"
	TelemetryGPSFix             = "gps_fix"
	TelemetryGPSLongitude       = "gps_longitude"
	TelemetryGPSLatitude        = "gps_latitude"
	TelemetryGPSAltitude        = "gps_altitude"
	TelemetryGPSTimeSec         = "gps_time_sec"
	TelemetryGPSTimeUsec        = "gps_time_usec"
	TelemetryNTPTimeSec         = "ntp_time_sec"
	TelemetryNTPTimeUsec        = "ntp_time_usec"
	TelemetryAvailableSensors   = "available_sensors"
	TelemetryTemperature        = "temperature"
	TelemetryDewPoint           = "dew_point"
	TelemetryPressure           = "pressure"
	TelemetrySeaLevelPressure   = "sl_pressure"
	TelemetryRH                 = "rh"
	TelemetryMSAS               = "msas"
	TelemetryNELM               = "nelm"
	TelemetryLux                = "lux"
	TelemetryIrradiance         = "irradiance"
	TelemetryAmbientTemperature = "ambient_temperature"
	TelemetrySkyTemperature     = "sky_temperature"
	TelemetryRawSkyTemperature  = "raw_sky_temperature"
	TelemetryCloudCoverage      = "cloud_coverage"
	TelemetrySoundLevel         = "db"
)

// Has reports whether the snapshot carries key
func (t Telemetry) Has(key string) bool {
	_, ok := t[key]
	return ok
}

// Float returns a numeric metric
func (t Telemetry) Float(key string) (float64, bool) {
	v, ok := t[key]
	if !ok {
		return 0, false
	}
	f, err := AsFloat(v)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Int returns an integer metric
func (t Telemetry) Int(key string) (int64, bool) {
	v, ok := t[key]
	if !ok {
		return 0, false
	}
	i, err := AsInt(v)
	if err != nil {
		return 0, false
	}
	return i, true
}

// String returns a metric rendered as text
func (t Telemetry) String(key string) (string, bool) {
	v, ok := t[key]
	if !ok {
		return "", false
	}
	return AsString(v), true
}

// Bool returns a flag metric
func (t Telemetry) Bool(key string) (bool, bool) {
	v, ok := t[key]
	if !ok {
		return false, false
	}
	b, err := AsBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// Time combines a seconds and a microseconds field into a UTC timestamp
func (t Telemetry) Time(secKey, usecKey string) (time.Time, bool) {
	sec, ok := t.Int(secKey)
	if !ok {
		return time.Time{}, false
	}
	usec, _ := t.Int(usecKey)
	return time.Unix(sec, usec*int64(time.Microsecond)).UTC(), true
}

// Sensors returns the availability mask, zero when absent
func (t Telemetry) Sensors() SensorMask {
	v, _ := t.Int(TelemetryAvailableSensors)
	return SensorMask(v)
}
