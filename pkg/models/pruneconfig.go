// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package models

import (
	"fmt"
	"time"

	"github.com/fitcron/cli/pkg/constants"
)

// PruneConfig is the slice of the InfluxDB uploader's configuration the
// pruner cares about. The same file drives the uploader, so the extension
// list below is exactly the set of files the uploader has already consumed.
type PruneConfig struct {
	FileBasePath   string   `json:"file_base_path"`
	FilesToPrune   []string `json:"files_to_prune"`
	UTCOffsetHours *int     `json:"utc_offset_hours,omitempty"`
}

// Validate checks the schema requirements. A nil FilesToPrune means the key
// was missing entirely; an explicit empty list is allowed and prunes nothing.
func (c *PruneConfig) Validate() error {
	if c.FileBasePath == "" {
		return fmt.Errorf("%w: file_base_path is required", constants.ErrInvalidConfig)
	}
	if c.FilesToPrune == nil {
		return fmt.Errorf("%w: files_to_prune is required", constants.ErrInvalidConfig)
	}
	for i, ext := range c.FilesToPrune {
		if ext == "" {
			return fmt.Errorf("%w: files_to_prune[%d] is empty", constants.ErrInvalidConfig, i)
		}
	}
	return nil
}

// Offset returns the configured UTC offset in hours, falling back to the
// pipeline default.
func (c *PruneConfig) Offset() int {
	if c.UTCOffsetHours != nil {
		return *c.UTCOffsetHours
	}
	return constants.DefaultUTCOffsetHours
}

// Location returns the fixed zone all cutoff arithmetic happens in.
func (c *PruneConfig) Location() *time.Location {
	offset := c.Offset()
	return time.FixedZone(fmt.Sprintf("UTC%+d", offset), offset*60*60)
}

// ShouldPrune reports whether ext (with leading dot) is in the prune set.
// Matching is exact and case sensitive.
func (c *PruneConfig) ShouldPrune(ext string) bool {
	if ext == "" {
		return false
	}
	for _, e := range c.FilesToPrune {
		if e == ext {
			return true
		}
	}
	return false
}
