package domain

// SensorStatus describes connectivity of the physical sensors and the last
// known position.
type SensorStatus struct {
	// I2C sensors
	MAX30102Connected bool // SpO2 / heart rate
	MLX90614Connected bool // IR temperature
	BME280Connected   bool // environment

	GPSConnected bool
	GPSFix       bool
	Latitude     float64
	Longitude    float64
	Altitude     float64

	CameraReady bool
	ADCReady    bool // ECG front end
}

// ResetConnectivity clears every connection and readiness flag. The last
// known position is kept.
func (s *SensorStatus) ResetConnectivity() {
	*s = SensorStatus{
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		Altitude:  s.Altitude,
	}
}
