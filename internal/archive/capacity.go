package archive

import "fmt"

// SectorSize is the data sector size of a CD-ROM.
const SectorSize = 2048

// EntriesPerSector is how many catalogue (directory) records are assumed to
// fit in one sector.
const EntriesPerSector = 16

// DefaultCapacitySectors is the sector count of an 80-minute CD-R.
const DefaultCapacitySectors = 359849

// Capacity tracks the sectors a package would occupy on a CD.
type Capacity struct {
	Limit   int64
	Data    int64
	Entries int64
	warned  bool
}

// NewCapacity returns a counter with the given ceiling. A limit of zero or
// less disables the check.
func NewCapacity(limit int64) *Capacity {
	return &Capacity{Limit: limit}
}

// Sectors returns the running total of data and catalogue sectors.
func (c *Capacity) Sectors() int64 {
	return c.Data + (c.Entries+EntriesPerSector-1)/EntriesPerSector
}

// Add counts one file of size bytes. It returns a warning message the first
// time the total exceeds the limit and "" otherwise.
func (c *Capacity) Add(size int64) string {
	c.Entries++
	c.Data += (size + SectorSize - 1) / SectorSize
	if c.warned || c.Limit <= 0 || c.Sectors() <= c.Limit {
		return ""
	}
	c.warned = true
	return fmt.Sprintf("This DAISY book is too large for a CD (%d sectors, limit %d); it may not play on CD-only players", c.Sectors(), c.Limit)
}

// Warned reports whether the limit has been exceeded.
func (c *Capacity) Warned() bool {
	return c.warned
}
