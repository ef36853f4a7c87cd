package domain

// SystemState is the coarse operational state of the device.
type SystemState string

const (
	StateBooting      SystemState = "booting"
	StateInitializing SystemState = "initializing"
	StateReady        SystemState = "ready"
	StateActiveVoice  SystemState = "active_voice"
	StateActiveVision SystemState = "active_vision"
	StateEmergency    SystemState = "emergency"
	StateLowPower     SystemState = "low_power"
	StateShuttingDown SystemState = "shutting_down"
)

// String returns the wire value of the state.
func (s SystemState) String() string {
	return string(s)
}

// Valid reports whether s is one of the known states.
func (s SystemState) Valid() bool {
	switch s {
	case StateBooting, StateInitializing, StateReady, StateActiveVoice,
		StateActiveVision, StateEmergency, StateLowPower, StateShuttingDown:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s SystemState) Terminal() bool {
	return s == StateShuttingDown
}

// MemoryState labels the heavy subsystem currently loaded into the
// constrained working memory. Only one label is active at a time.
type MemoryState string

const (
	MemoryIdle         MemoryState = "idle"
	MemoryFastLLM      MemoryState = "fast_llm"
	MemoryMedicalLLM   MemoryState = "medical_llm"
	MemoryVisionActive MemoryState = "vision_active"
)

// String returns the wire value of the memory state.
func (m MemoryState) String() string {
	return string(m)
}

// Valid reports whether m is one of the known memory states.
func (m MemoryState) Valid() bool {
	switch m {
	case MemoryIdle, MemoryFastLLM, MemoryMedicalLLM, MemoryVisionActive:
		return true
	}
	return false
}
