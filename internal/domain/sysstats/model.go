package sysstats

import "time"

// Snapshot is one persisted reading of host resource utilization.
type Snapshot struct {
	ID          int64     `json:"id,omitempty"`
	CapturedAt  time.Time `json:"captured_at"`
	CPUPercent  float64   `json:"cpu_percent"`
	RAMPercent  float64   `json:"ram_percent"`
	DiskPercent float64   `json:"disk_percent"`
	CPUTempC    *float64  `json:"cpu_temp_c"`
	RAMUsedMB   int64     `json:"ram_used_mb"`
	RAMTotalMB  int64     `json:"ram_total_mb"`
	DiskUsedGB  float64   `json:"disk_used_gb"`
	DiskTotalGB float64   `json:"disk_total_gb"`
}

// CPUTimes mirrors the kernel's cumulative per-state CPU counters, in seconds.
type CPUTimes struct {
	User      float64
	Nice      float64
	System    float64
	Idle      float64
	IOWait    float64
	IRQ       float64
	SoftIRQ   float64
	Steal     float64
	Guest     float64
	GuestNice float64
}

// Total sums every counter field.
func (t CPUTimes) Total() float64 {
	return t.User + t.Nice + t.System + t.Idle + t.IOWait + t.IRQ + t.SoftIRQ + t.Steal + t.Guest + t.GuestNice
}

// Idled is the time spent idle or waiting on I/O.
func (t CPUTimes) Idled() float64 {
	return t.Idle + t.IOWait
}

// MemoryUsage is the OS-reported physical memory, in bytes.
type MemoryUsage struct {
	Total uint64
	Free  uint64
}

// DiskUsage is the filesystem usage of one mount point, in bytes.
type DiskUsage struct {
	Total uint64
	Used  uint64
}

// Config wires runtime knobs for the sampler.
type Config struct {
	// SampleWindow separates the two CPU counter reads.
	SampleWindow   time.Duration
	DiskPath       string
	HistoryDefault int
	HistoryMax     int
}

const (
	defaultSampleWindow   = 200 * time.Millisecond
	defaultHistoryLimit   = 12
	defaultHistoryMaximum = 288
)

func (c Config) withDefaults() Config {
	if c.SampleWindow <= 0 {
		c.SampleWindow = defaultSampleWindow
	}
	if c.DiskPath == "" {
		c.DiskPath = "/"
	}
	if c.HistoryDefault <= 0 {
		c.HistoryDefault = defaultHistoryLimit
	}
	if c.HistoryMax <= 0 {
		c.HistoryMax = defaultHistoryMaximum
	}
	return c
}
