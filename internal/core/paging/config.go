package paging

import (
	"fmt"
	"time"

	"github.com/penwyp/go-log-pager/internal/data/scanner"
	"github.com/spf13/afero"
)

const (
	// DefaultChunkSize bounds the bytes held in memory per read.
	DefaultChunkSize = 96 * 1024
	// DefaultPageSize is the number of entries per page.
	DefaultPageSize = 500
	// DefaultMaxRecoveriesPerLoad caps decode faults across one load.
	DefaultMaxRecoveriesPerLoad = 1 << 16
)

// Config holds the engine tuning knobs.
type Config struct {
	ChunkSize int
	PageSize  int
	// MaxRecoveries caps consecutive decode faults before a load fails.
	// Zero means ChunkSize.
	MaxRecoveries int
	// MaxRecoveriesPerLoad caps decode faults across all chunks of one load.
	// Zero means DefaultMaxRecoveriesPerLoad.
	MaxRecoveriesPerLoad int
	// DropBoundaryLines keeps the historical behaviour of evaluating the
	// halves of a line cut by a chunk boundary separately, which drops it.
	// By default the next chunk starts at the cut line instead.
	DropBoundaryLines bool
	// Location is used for timestamps without a zone. Nil means UTC.
	Location *time.Location
	// Decoder defaults to scanner.DecodeUTF8.
	Decoder scanner.Decoder
	// Fs defaults to the operating system filesystem.
	Fs afero.Fs
}

// DefaultConfig returns a Config with default sizes on the OS filesystem.
func DefaultConfig() *Config {
	return &Config{
		ChunkSize: DefaultChunkSize,
		PageSize:  DefaultPageSize,
		Fs:        afero.NewOsFs(),
	}
}

// Validate fills unset fields with defaults and rejects negative sizes.
func (c *Config) Validate() error {
	if c.ChunkSize < 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfig, c.ChunkSize)
	}
	if c.PageSize < 0 {
		return fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidConfig, c.PageSize)
	}
	if c.MaxRecoveries < 0 {
		return fmt.Errorf("%w: max recoveries must not be negative, got %d", ErrInvalidConfig, c.MaxRecoveries)
	}
	if c.MaxRecoveriesPerLoad < 0 {
		return fmt.Errorf("%w: max recoveries per load must not be negative, got %d", ErrInvalidConfig, c.MaxRecoveriesPerLoad)
	}

	if c.ChunkSize == 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}
	if c.MaxRecoveries == 0 {
		c.MaxRecoveries = c.ChunkSize
	}
	if c.MaxRecoveriesPerLoad == 0 {
		c.MaxRecoveriesPerLoad = DefaultMaxRecoveriesPerLoad
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.Fs == nil {
		c.Fs = afero.NewOsFs()
	}
	return nil
}
