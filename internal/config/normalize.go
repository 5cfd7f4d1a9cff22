package config

import (
	"strings"
)

// normalize expands path fields and canonicalizes enumerated values so later
// validation and use see consistent forms.
func (c *Config) normalize() error {
	var err error
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}
	if c.Paths.ModelDir, err = expandPath(c.Paths.ModelDir); err != nil {
		return err
	}
	if c.Paths.SnapshotDB, err = expandPath(c.Paths.SnapshotDB); err != nil {
		return err
	}
	if c.Cue.Path, err = expandPath(c.Cue.Path); err != nil {
		return err
	}

	c.Detection.Method = strings.ToLower(strings.TrimSpace(c.Detection.Method))
	c.Detection.ModelSize = strings.ToLower(strings.TrimSpace(c.Detection.ModelSize))
	c.Detection.Language = strings.TrimSpace(c.Detection.Language)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}
