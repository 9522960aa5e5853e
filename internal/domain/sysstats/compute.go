package sysstats

import (
	"math"

	"github.com/yanqian/opsdash/pkg/util"
)

const (
	bytesPerMB = 1024 * 1024
	bytesPerGB = 1024 * 1024 * 1024
)

// CPUPercent derives utilization from two counter reads. ok is false when the counters
// did not advance, which leaves the caller to pick a fallback.
func CPUPercent(prev, cur CPUTimes) (float64, bool) {
	totalDelta := cur.Total() - prev.Total()
	if totalDelta <= 0 {
		return 0, false
	}
	idleDelta := cur.Idled() - prev.Idled()
	if idleDelta < 0 {
		idleDelta = 0
	}
	pct := 100 * (1 - idleDelta/totalDelta)
	return util.Round2(util.Clamp(pct, 0, 100)), true
}

// LoadPercent approximates utilization from the one minute load average.
func LoadPercent(load1 float64, cores int) float64 {
	if cores <= 0 {
		cores = 1
	}
	pct := math.Min(100, load1/float64(cores)*100)
	return util.Round2(util.Clamp(pct, 0, 100))
}

type memoryFields struct {
	percent float64
	usedMB  int64
	totalMB int64
}

func memoryFieldsFrom(m MemoryUsage) memoryFields {
	if m.Total == 0 {
		return memoryFields{}
	}
	free := m.Free
	if free > m.Total {
		free = m.Total
	}
	used := m.Total - free
	return memoryFields{
		percent: util.Round2(util.Clamp(float64(used)/float64(m.Total)*100, 0, 100)),
		usedMB:  int64(math.Round(float64(used) / bytesPerMB)),
		totalMB: int64(math.Round(float64(m.Total) / bytesPerMB)),
	}
}

type diskFields struct {
	percent float64
	usedGB  float64
	totalGB float64
}

func diskFieldsFrom(d DiskUsage) diskFields {
	if d.Total == 0 {
		return diskFields{}
	}
	return diskFields{
		percent: util.Round2(util.Clamp(float64(d.Used)/float64(d.Total)*100, 0, 100)),
		usedGB:  util.Round2(float64(d.Used) / bytesPerGB),
		totalGB: util.Round2(float64(d.Total) / bytesPerGB),
	}
}
