package latency

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// TimingConfig holds latency values for the AMX instruction classes.
// Values are estimates for the Apple M2 performance cluster coprocessor.
type TimingConfig struct {
	// LoadLatency is the issue latency of a 64-byte register load assuming
	// an L1 hit. Pair loads take twice as long. Default: 4 cycles.
	LoadLatency uint64 `json:"load_latency" yaml:"load_latency"`

	// StoreLatency is the issue latency of a 64-byte register store.
	// Default: 4 cycles.
	StoreLatency uint64 `json:"store_latency" yaml:"store_latency"`

	// InterleavedLatency is the extra latency of ldzi/stzi over a plain Z
	// transfer. Default: 1 cycle.
	InterleavedLatency uint64 `json:"interleaved_latency" yaml:"interleaved_latency"`

	// MAC16Latency is the latency of one int16 outer product. Default: 4.
	MAC16Latency uint64 `json:"mac16_latency" yaml:"mac16_latency"`

	// FMA32Latency is the latency of one float32 outer product. Default: 4.
	FMA32Latency uint64 `json:"fma32_latency" yaml:"fma32_latency"`

	// FMA64Latency is the latency of one float64 outer product. Default: 4.
	FMA64Latency uint64 `json:"fma64_latency" yaml:"fma64_latency"`

	// GenlutLatency is the latency of one table lookup or index
	// generation. Default: 3 cycles.
	GenlutLatency uint64 `json:"genlut_latency" yaml:"genlut_latency"`

	// L1HitLatency is the L1 data cache hit latency seen by the
	// coprocessor. Default: 4 cycles.
	L1HitLatency uint64 `json:"l1_hit_latency" yaml:"l1_hit_latency"`

	// L2HitLatency is the L2 cache hit latency.
	// Default: 12 cycles.
	L2HitLatency uint64 `json:"l2_hit_latency" yaml:"l2_hit_latency"`

	// MemoryLatency is the main memory access latency.
	// Default: 150 cycles.
	MemoryLatency uint64 `json:"memory_latency" yaml:"memory_latency"`
}

// DefaultTimingConfig returns a TimingConfig with M2-based default values.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		LoadLatency:        4,
		StoreLatency:       4,
		InterleavedLatency: 1,
		MAC16Latency:       4,
		FMA32Latency:       4,
		FMA64Latency:       4,
		GenlutLatency:      3,
		L1HitLatency:       4,
		L2HitLatency:       12,
		MemoryLatency:      150,
	}
}

// LoadConfig loads a TimingConfig from a JSON file, or a YAML file when the
// extension is .yaml or .yml. Fields absent from the file keep their
// defaults.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a file, choosing the format from the
// extension as LoadConfig does.
func (c *TimingConfig) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

func isYAML(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Validate checks that all latency values are valid.
func (c *TimingConfig) Validate() error {
	if c.LoadLatency == 0 {
		return fmt.Errorf("load_latency must be > 0")
	}
	if c.StoreLatency == 0 {
		return fmt.Errorf("store_latency must be > 0")
	}
	if c.MAC16Latency == 0 || c.FMA32Latency == 0 || c.FMA64Latency == 0 {
		return fmt.Errorf("outer product latencies must be > 0")
	}
	if c.GenlutLatency == 0 {
		return fmt.Errorf("genlut_latency must be > 0")
	}
	if c.L1HitLatency > c.L2HitLatency {
		return fmt.Errorf("l1_hit_latency must be <= l2_hit_latency")
	}
	if c.L2HitLatency > c.MemoryLatency {
		return fmt.Errorf("l2_hit_latency must be <= memory_latency")
	}
	return nil
}

// Clone returns a deep copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	clone := *c
	return &clone
}
