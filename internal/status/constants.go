// internal/status/constants.go
package status

// Diagnostic Status Block layout constants.
// These values define the protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerBlock is the fixed number of logical slots per monitor.
const SlotsPerBlock = 20

// ---- SLOT INDICES ----

// SlotHealthCode holds the overall monitor health state.
const SlotHealthCode = 0

// SlotActiveFaults holds the active fault count.
const SlotActiveFaults = 1

// SlotLastFaultCode holds the most recently raised fault code.
const SlotLastFaultCode = 2

// SlotLastSeverity holds the severity of the most recent fault.
const SlotLastSeverity = 3

// SlotSecondsInFault holds how long the monitor has been unhealthy.
const SlotSecondsInFault = 4

// SlotTotalFaults holds the low word of the total-appended counter.
const SlotTotalFaults = 5

// SlotConfirmCount holds the low word of the watchdog confirm counter.
const SlotConfirmCount = 6

// SlotLateConfirms holds the watchdog late-confirmation count.
const SlotLateConfirms = 7

// ---- RESERVED RANGE ----

// Slots 8–10 are reserved for future use.
const SlotReservedStart = 8
const SlotReservedEnd = 10

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// Device name is always placed at the END of the status block.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// ---- LIMITS ----

// DeviceNameMaxChars is the maximum number of ASCII characters stored
// for the device name.
const DeviceNameMaxChars = 16

// ---- HEALTH CODES ----

// HealthUnknown represents an unknown or boot state.
const HealthUnknown uint16 = 0

// HealthOK represents a healthy monitor with no active faults.
const HealthOK uint16 = 1

// HealthDegraded represents reduced-capability operation.
const HealthDegraded uint16 = 2

// HealthSafeState represents the terminal safe state.
const HealthSafeState uint16 = 3
