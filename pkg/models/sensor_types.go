package models

// SensorMask is the available_sensors bitmask reported by the station
type SensorMask uint32

// Sensor bits as defined by the station firmware
const (
	SensorMLX SensorMask = 0x00000001
	SensorTSL SensorMask = 0x00000002
	SensorBME SensorMask = 0x00000004
	SensorGPS SensorMask = 0x00000040
	SensorSPL SensorMask = 0x00000800
)

// Has reports whether every bit of s is set
func (m SensorMask) Has(s SensorMask) bool {
	return s != 0 && m&s == s
}

// SensorCategory constants for the dashboard indicator groups
const (
	SensorCategoryWeather = "Weather"
	SensorCategorySky     = "Sky"
	SensorCategoryLight   = "Light"
	SensorCategoryNoise   = "Noise"
	SensorCategoryGPS     = "GPS"
)

// Indicator names shown on the dashboard
const (
	IndicatorTemperature = "temp_led"
	IndicatorPressure    = "pres_led"
	IndicatorHumidity    = "rh_led"
	IndicatorTSL         = "tsl_led"
	IndicatorSQM         = "sqm_led"
	IndicatorCloud       = "cloud_led"
	IndicatorSPL         = "spl_led"
	IndicatorGPS         = "gps_led"
)

// IndicatorInfo holds metadata about a sensor indicator
type IndicatorInfo struct {
	Name     string
	Label    string
	Category string
	Sensor   SensorMask
}

// IndicatorRegistry maps indicator names to the sensor bit driving them
var IndicatorRegistry = map[string]IndicatorInfo{
	IndicatorTemperature: {
		Name:     IndicatorTemperature,
		Label:    "Temperature",
		Category: SensorCategoryWeather,
		Sensor:   SensorBME,
	},
	IndicatorPressure: {
		Name:     IndicatorPressure,
		Label:    "Pressure",
		Category: SensorCategoryWeather,
		Sensor:   SensorBME,
	},
	IndicatorHumidity: {
		Name:     IndicatorHumidity,
		Label:    "Relative humidity",
		Category: SensorCategoryWeather,
		Sensor:   SensorBME,
	},
	IndicatorTSL: {
		Name:     IndicatorTSL,
		Label:    "Illuminance",
		Category: SensorCategoryLight,
		Sensor:   SensorTSL,
	},
	IndicatorSQM: {
		Name:     IndicatorSQM,
		Label:    "Sky quality",
		Category: SensorCategoryLight,
		Sensor:   SensorTSL,
	},
	IndicatorCloud: {
		Name:     IndicatorCloud,
		Label:    "Cloud coverage",
		Category: SensorCategorySky,
		Sensor:   SensorMLX,
	},
	IndicatorSPL: {
		Name:     IndicatorSPL,
		Label:    "Sound level",
		Category: SensorCategoryNoise,
		Sensor:   SensorSPL,
	},
	IndicatorGPS: {
		Name:     IndicatorGPS,
		Label:    "GPS",
		Category: SensorCategoryGPS,
		Sensor:   SensorGPS,
	},
}

// IndicatorOrder is the display order of the indicators
var IndicatorOrder = []string{
	IndicatorTemperature,
	IndicatorPressure,
	IndicatorHumidity,
	IndicatorTSL,
	IndicatorSQM,
	IndicatorCloud,
	IndicatorSPL,
	IndicatorGPS,
}

// GetIndicatorInfo returns metadata for an indicator
func GetIndicatorInfo(name string) (IndicatorInfo, bool) {
	info, ok := IndicatorRegistry[name]
	return info, ok
}
