package twin

import "image/color"

// Status colors are a fixed table; anything unrecognized reads as
// offline so a bad feed value degrades to gray instead of crashing.
var (
	statusGreen  = color.RGBA{R: 0, G: 228, B: 48, A: 255}
	statusOrange = color.RGBA{R: 255, G: 161, B: 0, A: 255}
	statusRed    = color.RGBA{R: 230, G: 41, B: 55, A: 255}
	statusGray   = color.RGBA{R: 130, G: 130, B: 130, A: 255}
)

// Color returns the marker color for a panel status
func (s PanelStatus) Color() color.RGBA {
	switch s {
	case PanelGood:
		return statusGreen
	case PanelWarning:
		return statusOrange
	case PanelCritical:
		return statusRed
	}
	return statusGray
}

// Color returns the marker color for a sensor status
func (s SensorStatus) Color() color.RGBA {
	switch s {
	case SensorOnline:
		return statusGreen
	case SensorWarning:
		return statusOrange
	case SensorCritical:
		return statusRed
	}
	return statusGray
}

// Color returns the tooltip accent color for an alert type
func (t AlertType) Color() color.RGBA {
	switch t {
	case AlertMoisture:
		return color.RGBA{R: 102, G: 191, B: 255, A: 255}
	case AlertThermal:
		return statusOrange
	}
	return statusGray
}
