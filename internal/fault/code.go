// internal/fault/code.go
package fault

// Code identifies a unique failure condition.
// Codes are grouped by category in the high byte.
// No two distinct failure conditions share a code.
type Code uint16

const CodeNone Code = 0x0000

// ---- VOLTAGE (0x01xx) ----

const (
	CodeUndervoltage    Code = 0x0100
	CodeOvervoltage     Code = 0x0101
	CodeVoltageUnstable Code = 0x0102
)

// ---- TEMPERATURE (0x02xx) ----

const (
	CodeOvertempWarning   Code = 0x0200
	CodeOvertempShutdown  Code = 0x0201
	CodeUndertempWarning  Code = 0x0202
	CodeUndertempShutdown Code = 0x0203
	CodeTempSensorFault   Code = 0x0204
)

// ---- CLOCK (0x03xx) ----

const (
	CodeClockDrift Code = 0x0300
	CodeClockLost  Code = 0x0301
)

// ---- MEMORY (0x04xx) ----

const (
	CodeRAMError      Code = 0x0400
	CodeFlashError    Code = 0x0401
	CodeStackOverflow Code = 0x0402
)

// ---- WATCHDOG (0x05xx) ----

const (
	CodeWatchdogReset       Code = 0x0500
	CodeWatchdogTimeout     Code = 0x0501
	CodeWatchdogLateConfirm Code = 0x0502
)

// ---- COMMUNICATION (0x06xx) ----

const (
	CodeCANBusOff       Code = 0x0600
	CodeCANErrorPassive Code = 0x0601
	CodeLINNoResponse   Code = 0x0602
)

// ---- CPU TRAP (0x07xx) ----

const (
	CodeMemAccessViolation Code = 0x0700
	CodeInstrBusError      Code = 0x0701
	CodeBusError           Code = 0x0702
	CodeUsageFault         Code = 0x0703
	CodeDivideByZero       Code = 0x0704
	CodeTrapUnknown        Code = 0x0705
)

// ---- LOG INTERNAL (0x0Fxx) ----

// CodeLogCorrupt marks a log entry whose checksum failed verification.
// It never describes a live hardware condition.
const CodeLogCorrupt Code = 0x0F00

// Category is the fault group encoded in the high byte of a Code.
type Category uint8

const (
	CategoryNone          Category = 0x00
	CategoryVoltage       Category = 0x01
	CategoryTemperature   Category = 0x02
	CategoryClock         Category = 0x03
	CategoryMemory        Category = 0x04
	CategoryWatchdog      Category = 0x05
	CategoryCommunication Category = 0x06
	CategoryCPUTrap       Category = 0x07
	CategoryLog           Category = 0x0F
)

// NumCategories bounds fixed-size per-category arrays.
const NumCategories = 16

func (c Code) Category() Category {
	return Category(c >> 8)
}

func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryVoltage:
		return "voltage"
	case CategoryTemperature:
		return "temperature"
	case CategoryClock:
		return "clock"
	case CategoryMemory:
		return "memory"
	case CategoryWatchdog:
		return "watchdog"
	case CategoryCommunication:
		return "communication"
	case CategoryCPUTrap:
		return "cpu-trap"
	case CategoryLog:
		return "log"
	default:
		return "unknown"
	}
}

func (c Code) String() string {
	switch c {
	case CodeNone:
		return "none"
	case CodeUndervoltage:
		return "undervoltage"
	case CodeOvervoltage:
		return "overvoltage"
	case CodeVoltageUnstable:
		return "voltage-unstable"
	case CodeOvertempWarning:
		return "overtemp-warning"
	case CodeOvertempShutdown:
		return "overtemp-shutdown"
	case CodeUndertempWarning:
		return "undertemp-warning"
	case CodeUndertempShutdown:
		return "undertemp-shutdown"
	case CodeTempSensorFault:
		return "temp-sensor-fault"
	case CodeClockDrift:
		return "clock-drift"
	case CodeClockLost:
		return "clock-lost"
	case CodeRAMError:
		return "ram-error"
	case CodeFlashError:
		return "flash-error"
	case CodeStackOverflow:
		return "stack-overflow"
	case CodeWatchdogReset:
		return "watchdog-reset"
	case CodeWatchdogTimeout:
		return "watchdog-timeout"
	case CodeWatchdogLateConfirm:
		return "watchdog-late-confirm"
	case CodeCANBusOff:
		return "can-bus-off"
	case CodeCANErrorPassive:
		return "can-error-passive"
	case CodeLINNoResponse:
		return "lin-no-response"
	case CodeMemAccessViolation:
		return "mem-access-violation"
	case CodeInstrBusError:
		return "instr-bus-error"
	case CodeBusError:
		return "bus-error"
	case CodeUsageFault:
		return "usage-fault"
	case CodeDivideByZero:
		return "divide-by-zero"
	case CodeTrapUnknown:
		return "trap-unknown"
	case CodeLogCorrupt:
		return "log-corrupt"
	default:
		return "unknown"
	}
}
