// Package cache models the data caches the AMX coprocessor goes through
// when it transfers register rows to and from memory, using Akita cache
// directories.
//
// The coprocessor reads and writes caller memory directly, so the model
// keeps tags only: data always lives in the caller's buffers.
package cache

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// Config holds cache configuration parameters.
type Config struct {
	// Size in bytes
	Size int
	// Associativity (number of ways)
	Associativity int
	// BlockSize in bytes (cache line size)
	BlockSize int
	// HitLatency in cycles
	HitLatency uint64
	// MissLatency in cycles (includes the next level's access time)
	MissLatency uint64
}

// DefaultL1DConfig returns default configuration for L1 data cache.
// Based on Apple M2 specifications:
// - 128KB per performance core (8-way, 64B line)
// - the coprocessor sits behind the core's L1D, adding a cycle
func DefaultL1DConfig() Config {
	return Config{
		Size:          128 * 1024, // 128KB
		Associativity: 8,          // 8-way
		BlockSize:     64,         // 64B cache line
		HitLatency:    4,
		MissLatency:   12, // ~12 cycles to L2
	}
}

// DefaultL2Config returns default configuration for the shared L2 cache.
// Based on Apple M2 specifications:
// - 16MB shared by the performance cluster
// - 16-way set associative
// - 128B cache line
func DefaultL2Config() Config {
	return Config{
		Size:          16 * 1024 * 1024, // 16MB
		Associativity: 16,               // 16-way
		BlockSize:     128,              // 128B cache line
		HitLatency:    12,               // ~12 cycles
		MissLatency:   150,              // ~150 cycles (unified memory)
	}
}

// AccessResult contains the result of a cache access.
type AccessResult struct {
	// Hit indicates whether every line of the access hit.
	Hit bool
	// Lines is the number of cache lines the access touched.
	Lines int
	// Misses is the number of lines that missed.
	Misses int
	// Latency is the number of cycles the slowest line takes.
	Latency uint64
	// Evicted is the number of valid lines evicted to make room.
	Evicted int
	// Writebacks is the number of dirty lines among the evicted ones.
	Writebacks int
}

// Cache is a tag-only cache level.
type Cache struct {
	config Config

	// Akita cache directory for tag/state management
	directory *akitacache.DirectoryImpl

	// Next level, or nil for memory.
	next *Cache

	stats Statistics
}

// Statistics holds cache performance statistics.
type Statistics struct {
	Reads      uint64
	Writes     uint64
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	Writebacks uint64
}

// New creates a new cache level with the given configuration. Misses are
// served by next, or by memory at MissLatency when next is nil.
func New(config Config, next *Cache) *Cache {
	numSets := config.Size / (config.Associativity * config.BlockSize)

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		next: next,
	}
}

// NewDefaultHierarchy returns the M2 L1D backed by the shared L2.
func NewDefaultHierarchy() *Cache {
	return New(DefaultL1DConfig(), New(DefaultL2Config(), nil))
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Next returns the next cache level, or nil.
func (c *Cache) Next() *Cache {
	return c.next
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// ResetStats clears cache statistics.
func (c *Cache) ResetStats() {
	c.stats = Statistics{}
}

// Read models a read of size bytes at addr.
func (c *Cache) Read(addr uint64, size int) AccessResult {
	c.stats.Reads++
	return c.access(addr, size, false)
}

// Write models a write of size bytes at addr. Writes allocate on miss.
func (c *Cache) Write(addr uint64, size int) AccessResult {
	c.stats.Writes++
	return c.access(addr, size, true)
}

func (c *Cache) access(addr uint64, size int, isWrite bool) AccessResult {
	result := AccessResult{Hit: true}
	if size <= 0 {
		return result
	}

	first := c.blockAddr(addr)
	last := c.blockAddr(addr + uint64(size) - 1)
	for blockAddr := first; blockAddr <= last; blockAddr += uint64(c.config.BlockSize) {
		result.Lines++
		latency := c.accessLine(blockAddr, isWrite, &result)
		result.Latency = max(result.Latency, latency)
	}
	return result
}

func (c *Cache) accessLine(blockAddr uint64, isWrite bool, result *AccessResult) uint64 {
	block := c.directory.Lookup(0, blockAddr) // PID=0 for now
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block) // Update LRU
		if isWrite {
			block.IsDirty = true
		}
		return c.config.HitLatency
	}

	c.stats.Misses++
	result.Hit = false
	result.Misses++

	latency := c.config.MissLatency
	if c.next != nil {
		// The next level sees a line fill, never a write.
		fill := c.next.Read(blockAddr, c.config.BlockSize)
		latency = c.config.MissLatency + fill.Latency - c.next.config.HitLatency
	}

	victim := c.directory.FindVictim(blockAddr)
	if victim == nil {
		return latency
	}
	if victim.IsValid {
		c.stats.Evictions++
		result.Evicted++
		if victim.IsDirty {
			c.stats.Writebacks++
			result.Writebacks++
			if c.next != nil {
				c.next.Write(victim.Tag, c.config.BlockSize)
			}
		}
	}

	// Tag stores the block-aligned address
	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = isWrite
	c.directory.Visit(victim)

	return latency
}

func (c *Cache) blockAddr(addr uint64) uint64 {
	return (addr / uint64(c.config.BlockSize)) * uint64(c.config.BlockSize)
}

// Flush writes back all dirty lines to the next level and invalidates
// every line.
func (c *Cache) Flush() {
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid && block.IsDirty {
				c.stats.Writebacks++
				if c.next != nil {
					c.next.Write(block.Tag, c.config.BlockSize)
				}
			}
			block.IsValid = false
			block.IsDirty = false
		}
	}
}

// Reset invalidates every level without writeback and clears statistics.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.stats = Statistics{}
	if c.next != nil {
		c.next.Reset()
	}
}
