// cmd/sentinel/main.go
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tamzrod/ecu-sentinel/internal/config"
	"github.com/tamzrod/ecu-sentinel/internal/escalate"
	"github.com/tamzrod/ecu-sentinel/internal/fault"
	"github.com/tamzrod/ecu-sentinel/internal/faultlog"
	"github.com/tamzrod/ecu-sentinel/internal/hal"
	"github.com/tamzrod/ecu-sentinel/internal/health"
	"github.com/tamzrod/ecu-sentinel/internal/telemetry"
	tmodbus "github.com/tamzrod/ecu-sentinel/internal/telemetry/modbus"
	"github.com/tamzrod/ecu-sentinel/internal/trap"
	"github.com/tamzrod/ecu-sentinel/internal/watchdog"
)

// sinks is the runtime's escalation target. Safe state halts the
// scheduler loop; the process exit stands in for the hardware reset.
type sinks struct {
	agg  *telemetry.Aggregator // nil when telemetry is disabled
	halt chan struct{}
}

func (s *sinks) EnterDegradedMode(r escalate.Reason) {
	slog.Warn("entering degraded mode", "reason", r.String())
	if s.agg != nil {
		s.agg.MarkDegraded()
	}
}

func (s *sinks) EnterSafeState(r escalate.Reason) {
	slog.Error("entering safe state", "reason", r.String())
	if s.agg != nil {
		s.agg.MarkSafeState()
	}
	close(s.halt)
}

// notifyTee fans fault notifications out to the log sink and, when
// telemetry is enabled, the status aggregator.
type notifyTee struct {
	agg *telemetry.Aggregator
}

func (n *notifyTee) FaultRaised(r fault.Record) {
	slog.Warn("fault raised",
		"code", r.Code.String(),
		"severity", r.Severity.String(),
		"data", r.Data,
	)
	if n.agg != nil {
		n.agg.FaultRaised(r)
	}
}

func (n *notifyTee) FaultCleared(c fault.Code) {
	slog.Info("fault cleared", "code", c.String())
	if n.agg != nil {
		n.agg.FaultCleared(c)
	}
}

func main() {
	if len(os.Args) < 2 {
		slog.Error("usage: sentinel <config.yaml>")
		os.Exit(1)
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}
	if err := config.Validate(cfg); err != nil {
		slog.Error("config validation failed", "err", err)
		os.Exit(1)
	}
	config.Normalize(cfg)
	m := cfg.Monitor

	// --------------------
	// Telemetry (opt-in)
	// --------------------

	var agg *telemetry.Aggregator
	var blockWriter *telemetry.BlockWriter
	if m.Telemetry != nil {
		cli, err := tmodbus.NewEndpointClient(tmodbus.Config{
			Endpoint: m.Telemetry.Endpoint,
			UnitID:   uint8(m.Telemetry.UnitID),
			Timeout:  time.Duration(m.Telemetry.TimeoutMs) * time.Millisecond,
		})
		if err != nil {
			slog.Error("telemetry client failed", "err", err)
			os.Exit(1)
		}
		defer cli.Close()

		agg = telemetry.NewAggregator()
		blockWriter, err = telemetry.NewBlockWriter(telemetry.Plan{
			BaseSlot:   uint16(m.Telemetry.BaseSlot),
			DeviceName: m.Telemetry.DeviceName,
		}, cli)
		if err != nil {
			slog.Error("telemetry writer failed", "err", err)
			os.Exit(1)
		}
	}

	// --------------------
	// Build the monitor context
	// --------------------

	clock := hal.NewSystemClock()
	sensors := hal.NewSimSensors()
	faultStatus := &hal.SimFaultStatus{}
	notify := &notifyTee{agg: agg}

	log, err := faultlog.New(m.FaultLog.Capacity)
	if err != nil {
		slog.Error("fault log build failed", "err", err)
		os.Exit(1)
	}

	snk := &sinks{agg: agg, halt: make(chan struct{})}
	ctl, err := escalate.NewController(snk, snk)
	if err != nil {
		slog.Error("escalation controller build failed", "err", err)
		os.Exit(1)
	}

	supervisor, err := health.New(health.Config{
		Voltage: health.VoltageThresholds{
			ShutdownLowMV:  uint16(m.Voltage.ShutdownLowMv),
			WarningLowMV:   uint16(m.Voltage.WarningLowMv),
			WarningHighMV:  uint16(m.Voltage.WarningHighMv),
			ShutdownHighMV: uint16(m.Voltage.ShutdownHighMv),
			NominalMV:      uint16(m.Voltage.NominalMv),
			HysteresisMV:   uint16(m.Voltage.HysteresisMv),
		},
		Temperature: health.TemperatureThresholds{
			ShutdownLowC:  int16(m.Temperature.ShutdownLowC),
			WarningLowC:   int16(m.Temperature.WarningLowC),
			WarningHighC:  int16(m.Temperature.WarningHighC),
			ShutdownHighC: int16(m.Temperature.ShutdownHighC),
			NominalC:      int16(m.Temperature.NominalC),
			HysteresisC:   int16(m.Temperature.HysteresisC),
		},
		EnableClockCheck:       m.Clock.Enable,
		ClockDriftTolerancePPM: int32(m.Clock.DriftTolerancePpm),
		EnableRAMTest:          m.Memory.EnableRamTest,
		RAMTestPattern:         byte(m.Memory.TestPattern),
	}, sensors, clock, log, ctl, notify)
	if err != nil {
		slog.Error("health supervisor build failed", "err", err)
		os.Exit(1)
	}

	var wdt *watchdog.Supervisor
	wdt, err = watchdog.New(watchdog.Config{
		Timeout:          time.Duration(m.Watchdog.TimeoutMs) * time.Millisecond,
		TolerancePercent: uint32(m.Watchdog.TolerancePct),
	}, hal.NewSimTimer(func() { wdt.OnHardwareTimeout() }), clock, log, ctl, notify)
	if err != nil {
		slog.Error("watchdog build failed", "err", err)
		os.Exit(1)
	}

	trapHandler, err := trap.NewHandler(trap.Config{}, log, ctl, faultStatus, clock, notify)
	if err != nil {
		slog.Error("trap handler build failed", "err", err)
		os.Exit(1)
	}

	// --------------------
	// Start supervisors
	// --------------------

	if err := supervisor.Start(); err != nil {
		slog.Error("health start failed", "err", err)
		os.Exit(1)
	}
	if err := wdt.Start(); err != nil {
		slog.Error("watchdog start failed", "err", err)
		os.Exit(1)
	}
	if agg != nil {
		agg.SetStarted()
	}
	slog.Info("sentinel running",
		"check_interval_ms", m.CheckIntervalMs,
		"watchdog_timeout_ms", m.Watchdog.TimeoutMs,
	)

	// --------------------
	// Scheduler loop
	// --------------------

	tick := time.NewTicker(time.Duration(m.CheckIntervalMs) * time.Millisecond)
	defer tick.Stop()
	confirm := time.NewTicker(time.Duration(m.Watchdog.TimeoutMs) * time.Millisecond / 2)
	defer confirm.Stop()
	second := time.NewTicker(time.Second)
	defer second.Stop()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGUSR2)

	for {
		select {
		case <-tick.C:
			supervisor.Tick()
			if agg != nil {
				agg.SetActiveFaults(supervisor.ActiveFaultCount())
				agg.SetWatchdog(wdt.Stats())
			}

		case <-confirm.C:
			if res, err := wdt.Confirm(); err == nil && res.Late {
				slog.Warn("late watchdog confirmation",
					"elapsed_ms", res.ElapsedMS,
					"expected_ms", res.ExpectedMS,
				)
			}

		case <-second.C:
			if agg == nil {
				continue
			}
			agg.TickSecond()
			if err := blockWriter.WriteStatus(agg.Snapshot()); err != nil {
				slog.Warn("status write failed", "err", err)
			}

		case sig := <-sigs:
			switch sig {
			case syscall.SIGUSR1, syscall.SIGUSR2:
				// Bench fault injection: USR1 is a recoverable
				// divide-by-zero, USR2 a precise bus error.
				cfsr, kind := uint32(1<<24), trap.KindUsageFault
				if sig == syscall.SIGUSR2 {
					cfsr, kind = 1<<9, trap.KindBusFault
				}
				snap := trap.Snapshot{
					Kind:    kind,
					Context: fault.CPUContext{CFSR: cfsr, PC: 0x0800_1000},
				}
				act := trapHandler.Handle(&snap)
				slog.Info("injected trap handled", "action", act.Kind.String())

			default:
				slog.Info("shutting down", "signal", sig.String())
				supervisor.Stop()
				return
			}

		case <-snk.halt:
			// Terminal. Only an external reset restores operation;
			// flush a last status block and exit nonzero.
			if agg != nil && blockWriter != nil {
				_ = blockWriter.WriteStatus(agg.Snapshot())
			}
			slog.Error("safe state reached, awaiting reset")
			os.Exit(2)
		}
	}
}
