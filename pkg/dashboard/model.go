// Package dashboard turns station telemetry into display values and keeps them fresh.
package dashboard

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sguter90/awspanel/pkg/models"
)

// Color of an output or indicator
type Color string

const (
	ColorNone  Color = ""
	ColorGreen Color = "green"
	ColorRed   Color = "red"
)

// Output groups
const (
	GroupSystem  = "System"
	GroupGPS     = "GPS"
	GroupSensors = "Sensors"
)

// Output is one named display value
type Output struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Group string `json:"group"`
	Text  string `json:"text"`
	Color Color  `json:"color,omitempty"`
}

// Metric is an optional typed value of a snapshot
type Metric[T any] struct {
	Value T
	Valid bool
}

func metric[T any](v T, ok bool) Metric[T] {
	return Metric[T]{Value: v, Valid: ok}
}

// Model is the typed view of one telemetry snapshot
type Model struct {
	BatteryLevel     Metric[float64]
	BuildID          Metric[string]
	Uptime           Metric[int64]
	ResetReason      Metric[int64]
	InitialHeap      Metric[int64]
	CurrentHeap      Metric[int64]
	LargestHeapBlock Metric[int64]
	OTABoard         Metric[string]
	OTADevice        Metric[string]
	OTAConfig        Metric[string]
	OTACode          Metric[int64]

	GPSFix       Metric[bool]
	GPSLongitude Metric[float64]
	GPSLatitude  Metric[float64]
	GPSAltitude  Metric[float64]
	GPSTime      Metric[time.Time]
	NTPTime      Metric[time.Time]

	Temperature        Metric[float64]
	DewPoint           Metric[float64]
	Pressure           Metric[float64]
	SeaLevelPressure   Metric[float64]
	RH                 Metric[float64]
	MSAS               Metric[float64]
	NELM               Metric[float64]
	Illuminance        Metric[float64]
	Irradiance         Metric[float64]
	AmbientTemperature Metric[float64]
	SkyTemperature     Metric[float64]
	RawSkyTemperature  Metric[float64]
	CloudCoverage      Metric[int64]
	SoundLevel         Metric[float64]

	Sensors Metric[models.SensorMask]
}

// Present builds the model of a snapshot. Keys the snapshot lacks stay invalid.
func Present(t models.Telemetry) Model {
	m := Model{
		BatteryLevel:     metric(t.Float(models.TelemetryBatteryLevel)),
		BuildID:          metric(t.String(models.TelemetryBuildID)),
		Uptime:           metric(t.Int(models.TelemetryUptime)),
		ResetReason:      metric(t.Int(models.TelemetryResetReason)),
		InitialHeap:      metric(t.Int(models.TelemetryInitHeapSize)),
		CurrentHeap:      metric(t.Int(models.TelemetryCurrentHeapSize)),
		LargestHeapBlock: metric(t.Int(models.TelemetryLargestFreeHeap)),
		OTABoard:         metric(t.String(models.TelemetryOTABoard)),
		OTADevice:        metric(t.String(models.TelemetryOTADevice)),
		OTAConfig:        metric(t.String(models.TelemetryOTAConfig)),
		OTACode:          metric(t.Int(models.TelemetryOTACode)),

		GPSFix:       metric(t.Bool(models.TelemetryGPSFix)),
		GPSLongitude: metric(t.Float(models.TelemetryGPSLongitude)),
		GPSLatitude:  metric(t.Float(models.TelemetryGPSLatitude)),
		GPSAltitude:  metric(t.Float(models.TelemetryGPSAltitude)),
		GPSTime:      metric(t.Time(models.TelemetryGPSTimeSec, models.TelemetryGPSTimeUsec)),
		NTPTime:      metric(t.Time(models.TelemetryNTPTimeSec, models.TelemetryNTPTimeUsec)),

		Temperature:        metric(t.Float(models.TelemetryTemperature)),
		DewPoint:           metric(t.Float(models.TelemetryDewPoint)),
		Pressure:           metric(t.Float(models.TelemetryPressure)),
		SeaLevelPressure:   metric(t.Float(models.TelemetrySeaLevelPressure)),
		RH:                 metric(t.Float(models.TelemetryRH)),
		MSAS:               metric(t.Float(models.TelemetryMSAS)),
		NELM:               metric(t.Float(models.TelemetryNELM)),
		Illuminance:        metric(t.Float(models.TelemetryLux)),
		Irradiance:         metric(t.Float(models.TelemetryIrradiance)),
		AmbientTemperature: metric(t.Float(models.TelemetryAmbientTemperature)),
		SkyTemperature:     metric(t.Float(models.TelemetrySkyTemperature)),
		RawSkyTemperature:  metric(t.Float(models.TelemetryRawSkyTemperature)),
		CloudCoverage:      metric(t.Int(models.TelemetryCloudCoverage)),
		SoundLevel:         metric(t.Float(models.TelemetrySoundLevel)),
	}

	if t.Has(models.TelemetryAvailableSensors) {
		m.Sensors = metric(t.Sensors(), true)
	}
	return m
}

func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Bindings maps the model to named outputs in display order
func (m Model) Bindings() []Output {
	var out []Output

	add := func(valid bool, name, label, group string, text func() string) {
		if valid {
			out = append(out, Output{Name: name, Label: label, Group: group, Text: text()})
		}
	}
	reading := func(name, label string, v Metric[float64]) {
		add(v.Valid, name, label, GroupSensors, func() string { return Reading(v.Value) })
	}
	bytes := func(name, label string, v Metric[int64]) {
		add(v.Valid, name, label, GroupSystem, func() string { return fmt.Sprintf("%d bytes", v.Value) })
	}

	add(m.BatteryLevel.Valid, "battery_level", "Battery level", GroupSystem, func() string { return plain(m.BatteryLevel.Value) + "%" })
	add(m.BuildID.Valid, "build_id", "Build", GroupSystem, func() string { return "V" + m.BuildID.Value })
	add(m.Uptime.Valid, "uptime", "Uptime", GroupSystem, func() string { return FormatUptime(m.Uptime.Value) })
	add(m.ResetReason.Valid, "reset_reason", "Reset reason", GroupSystem, func() string { return ResetReason(m.ResetReason.Value) })
	bytes("initial_heap", "Initial heap", m.InitialHeap)
	bytes("current_heap", "Current heap", m.CurrentHeap)
	bytes("largest_heap_block", "Largest heap block", m.LargestHeapBlock)
	add(m.OTABoard.Valid, "ota_board", "OTA board", GroupSystem, func() string { return m.OTABoard.Value })
	add(m.OTADevice.Valid, "ota_device", "OTA device", GroupSystem, func() string { return m.OTADevice.Value })
	add(m.OTAConfig.Valid, "ota_config", "OTA config", GroupSystem, func() string { return m.OTAConfig.Value })
	add(m.OTACode.Valid, "ota_status", "OTA status", GroupSystem, func() string { return OTAStatus(m.OTACode.Value) })

	if m.GPSFix.Valid {
		color := ColorRed
		if m.GPSFix.Value {
			color = ColorGreen
		}
		out = append(out, Output{Name: "gps_fix", Label: "GPS fix", Group: GroupGPS, Text: YesNo(m.GPSFix.Value), Color: color})
	}
	add(m.GPSLongitude.Valid, "gps_longitude", "Longitude", GroupGPS, func() string { return plain(m.GPSLongitude.Value) })
	add(m.GPSLatitude.Valid, "gps_latitude", "Latitude", GroupGPS, func() string { return plain(m.GPSLatitude.Value) })
	add(m.GPSAltitude.Valid, "gps_altitude", "Altitude", GroupGPS, func() string { return plain(m.GPSAltitude.Value) })
	add(m.GPSTime.Valid, "gps_time", "GPS time", GroupGPS, func() string { return Timestamp(m.GPSTime.Value) })
	add(m.NTPTime.Valid, "ntp_time", "NTP time", GroupGPS, func() string { return Timestamp(m.NTPTime.Value) })

	reading("temperature", "Temperature", m.Temperature)
	reading("dewpoint", "Dew point", m.DewPoint)
	reading("pressure", "Pressure", m.Pressure)
	reading("sl_pressure", "Sea level pressure", m.SeaLevelPressure)
	reading("rh", "Relative humidity", m.RH)
	reading("msas", "MSAS", m.MSAS)
	reading("nelm", "NELM", m.NELM)
	reading("illuminance", "Illuminance", m.Illuminance)
	reading("irradiance", "Irradiance", m.Irradiance)
	reading("ambient_temperature", "Ambient temperature", m.AmbientTemperature)
	reading("sky_temperature", "Sky temperature", m.SkyTemperature)
	reading("raw_sky_temperature", "Raw sky temperature", m.RawSkyTemperature)
	add(m.CloudCoverage.Valid, "cloud_coverage", "Cloud coverage", GroupSensors, func() string { return CloudCoverage(m.CloudCoverage.Value) })
	add(m.SoundLevel.Valid, "sound_level", "Sound level", GroupSensors, func() string { return SoundLevel(m.SoundLevel.Value) })

	return out
}

// Indicators returns one green or red output per sensor indicator, none when the
// snapshot carried no availability mask
func (m Model) Indicators() []Output {
	if !m.Sensors.Valid {
		return nil
	}

	out := make([]Output, 0, len(models.IndicatorOrder))
	for _, name := range models.IndicatorOrder {
		info, _ := models.GetIndicatorInfo(name)
		color := ColorRed
		if m.Sensors.Value.Has(info.Sensor) {
			color = ColorGreen
		}
		out = append(out, Output{Name: name, Label: info.Label, Group: info.Category, Color: color})
	}
	return out
}
