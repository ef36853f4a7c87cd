package domain

// Status is an immutable snapshot of the controller. It is decoupled from
// the live records and safe to hand to other goroutines or encode as JSON.
type Status struct {
	State       SystemState    `json:"state"`
	MemoryState MemoryState    `json:"memory_state"`
	Boot        BootSummary    `json:"boot_status"`
	Sensors     SensorSummary  `json:"sensors"`
	Position    PositionReport `json:"position"`
	IsReady     bool           `json:"is_ready"`
}

// BootSummary is the boot portion of a Status snapshot.
type BootSummary struct {
	Display         bool     `json:"display"`
	Sensors         bool     `json:"sensors"`
	GPS             bool     `json:"gps"`
	I2CDevices      []string `json:"i2c_devices"`
	LLMReady        bool     `json:"llm_ready"`
	WakeWord        bool     `json:"wake_word"`
	Dashboard       bool     `json:"dashboard"`
	Battery         int      `json:"battery"`
	GPSFix          bool     `json:"gps_fix"`
	Errors          []string `json:"errors"`
	BootID          string   `json:"boot_id,omitempty"`
	BootTimeSeconds float64  `json:"boot_time_seconds"`
}

// SensorSummary is the sensor connectivity portion of a Status snapshot.
type SensorSummary struct {
	MAX30102 bool `json:"max30102"`
	MLX90614 bool `json:"mlx90614"`
	BME280   bool `json:"bme280"`
	GPS      bool `json:"gps"`
	Camera   bool `json:"camera"`
}

// PositionReport is the last known GPS position.
type PositionReport struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
}

// NewStatus builds a snapshot from the live records. Slices are copied.
func NewStatus(state SystemState, mem MemoryState, boot BootStatus, sensors SensorStatus) Status {
	return Status{
		State:       state,
		MemoryState: mem,
		Boot: BootSummary{
			Display:         boot.DisplayInitialized,
			Sensors:         boot.SensorsInitialized,
			GPS:             boot.GPSInitialized,
			I2CDevices:      append([]string{}, boot.I2CDevicesDetected...),
			LLMReady:        boot.LLMReady,
			WakeWord:        boot.WakeWordActive,
			Dashboard:       boot.DashboardReady,
			Battery:         boot.BatteryLevel,
			GPSFix:          boot.GPSFix,
			Errors:          append([]string{}, boot.Errors...),
			BootID:          boot.BootID,
			BootTimeSeconds: boot.BootDuration().Seconds(),
		},
		Sensors: SensorSummary{
			MAX30102: sensors.MAX30102Connected,
			MLX90614: sensors.MLX90614Connected,
			BME280:   sensors.BME280Connected,
			GPS:      sensors.GPSConnected,
			Camera:   sensors.CameraReady,
		},
		Position: PositionReport{
			Latitude:  sensors.Latitude,
			Longitude: sensors.Longitude,
			Altitude:  sensors.Altitude,
		},
		IsReady: state == StateReady,
	}
}
