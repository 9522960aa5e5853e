package hostprobe

import (
	"context"
	"errors"
	"testing"

	"github.com/shirou/gopsutil/v4/sensors"
	"github.com/stretchr/testify/require"
)

func TestParseMilliCelsius(t *testing.T) {
	temp, err := parseMilliCelsius([]byte("48312\n"))
	require.NoError(t, err)
	require.InDelta(t, 48.312, temp, 1e-9)

	_, err = parseMilliCelsius([]byte("n/a"))
	require.Error(t, err)
}

func TestCPUTemperatureFromThermalZone(t *testing.T) {
	p := &Probe{
		thermalPath: "/fake/temp",
		readFile: func(name string) ([]byte, error) {
			require.Equal(t, "/fake/temp", name)
			return []byte("51000"), nil
		},
		sensorTemps: func(context.Context) ([]sensors.TemperatureStat, error) {
			t.Fatal("sensors should not be consulted")
			return nil, nil
		},
	}
	temp, err := p.CPUTemperature(context.Background())
	require.NoError(t, err)
	require.Equal(t, 51.0, temp)
}

func TestCPUTemperatureFallsBackToSensors(t *testing.T) {
	p := &Probe{
		thermalPath: "/missing",
		readFile: func(string) ([]byte, error) {
			return nil, errors.New("no such file or directory")
		},
		sensorTemps: func(context.Context) ([]sensors.TemperatureStat, error) {
			return []sensors.TemperatureStat{
				{SensorKey: "nvme_composite", Temperature: 39},
				{SensorKey: "coretemp_package_id_0", Temperature: 57.5},
			}, errors.New("partial read")
		},
	}
	temp, err := p.CPUTemperature(context.Background())
	require.NoError(t, err)
	require.Equal(t, 57.5, temp)
}

func TestCPUTemperatureUnavailable(t *testing.T) {
	p := &Probe{
		thermalPath: "/missing",
		readFile: func(string) ([]byte, error) {
			return nil, errors.New("permission denied")
		},
		sensorTemps: func(context.Context) ([]sensors.TemperatureStat, error) {
			return nil, nil
		},
	}
	_, err := p.CPUTemperature(context.Background())
	require.ErrorIs(t, err, errNoSensor)
}

func TestNewDefaultsThermalPath(t *testing.T) {
	require.Equal(t, DefaultThermalPath, New("  ").thermalPath)
	require.Equal(t, "/x", New("/x").thermalPath)
}
