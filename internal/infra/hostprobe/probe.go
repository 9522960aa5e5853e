package hostprobe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/sensors"

	"github.com/yanqian/opsdash/internal/domain/sysstats"
)

// DefaultThermalPath is the Raspberry Pi / generic Linux SoC thermal zone.
const DefaultThermalPath = "/sys/class/thermal/thermal_zone0/temp"

var errNoSensor = errors.New("no cpu temperature sensor")

// Probe reads host counters through gopsutil, with a sysfs thermal zone read for
// temperature.
type Probe struct {
	thermalPath string
	readFile    func(name string) ([]byte, error)
	sensorTemps func(ctx context.Context) ([]sensors.TemperatureStat, error)
}

// New builds a probe. An empty thermalPath uses DefaultThermalPath.
func New(thermalPath string) *Probe {
	path := strings.TrimSpace(thermalPath)
	if path == "" {
		path = DefaultThermalPath
	}
	return &Probe{
		thermalPath: path,
		readFile:    os.ReadFile,
		sensorTemps: sensors.TemperaturesWithContext,
	}
}

// CPUTimes returns the aggregate counters across all cores.
func (p *Probe) CPUTimes(ctx context.Context) (sysstats.CPUTimes, error) {
	stats, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return sysstats.CPUTimes{}, fmt.Errorf("read cpu times: %w", err)
	}
	if len(stats) == 0 {
		return sysstats.CPUTimes{}, errors.New("read cpu times: no aggregate counters")
	}
	s := stats[0]
	return sysstats.CPUTimes{
		User:      s.User,
		Nice:      s.Nice,
		System:    s.System,
		Idle:      s.Idle,
		IOWait:    s.Iowait,
		IRQ:       s.Irq,
		SoftIRQ:   s.Softirq,
		Steal:     s.Steal,
		Guest:     s.Guest,
		GuestNice: s.GuestNice,
	}, nil
}

func (p *Probe) LoadAverage(ctx context.Context) (float64, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("read load average: %w", err)
	}
	return avg.Load1, nil
}

func (p *Probe) LogicalCores(ctx context.Context) (int, error) {
	return cpu.CountsWithContext(ctx, true)
}

func (p *Probe) Memory(ctx context.Context) (sysstats.MemoryUsage, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return sysstats.MemoryUsage{}, fmt.Errorf("read memory: %w", err)
	}
	return sysstats.MemoryUsage{Total: vm.Total, Free: vm.Free}, nil
}

func (p *Probe) Disk(ctx context.Context, path string) (sysstats.DiskUsage, error) {
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return sysstats.DiskUsage{}, fmt.Errorf("read disk usage %s: %w", path, err)
	}
	return sysstats.DiskUsage{Total: usage.Total, Used: usage.Used}, nil
}

// CPUTemperature prefers the thermal zone file and falls back to the hardware sensor
// list.
func (p *Probe) CPUTemperature(ctx context.Context) (float64, error) {
	if raw, err := p.readFile(p.thermalPath); err == nil {
		if temp, err := parseMilliCelsius(raw); err == nil {
			return temp, nil
		}
	}
	// Some platforms return partial results alongside a warning error.
	temps, err := p.sensorTemps(ctx)
	if temp, ok := pickCPUSensor(temps); ok {
		return temp, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read sensors: %w", err)
	}
	return 0, errNoSensor
}

func parseMilliCelsius(raw []byte) (float64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse thermal zone: %w", err)
	}
	return float64(value) / 1000, nil
}

var cpuSensorHints = []string{"coretemp", "k10temp", "cpu", "soc", "package"}

func pickCPUSensor(temps []sensors.TemperatureStat) (float64, bool) {
	for _, hint := range cpuSensorHints {
		for _, t := range temps {
			if t.Temperature > 0 && strings.Contains(strings.ToLower(t.SensorKey), hint) {
				return t.Temperature, true
			}
		}
	}
	return 0, false
}

var _ sysstats.Probe = (*Probe)(nil)
