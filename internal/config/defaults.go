package config

// Default returns the baseline configuration used before any file or
// environment overrides.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:    "~/.cache/chapterize/work",
			LogDir:     "~/.local/state/chapterize/logs",
			ModelDir:   "~/.cache/chapterize/models",
			SnapshotDB: "~/.local/state/chapterize/snapshots.db",
		},
		Detection: Detection{
			Method:              "keyword",
			ModelSize:           "small",
			Language:            "en",
			VADFilter:           true,
			SilenceThresholdDB:  -40,
			MinSilenceSeconds:   2.0,
			ConfidenceFloor:     0.25,
			MinGapSeconds:       2.0,
			MaxTokenGapSeconds:  1.5,
			HybridMarginSeconds: 15.0,
			HybridWorkers:       4,
			HybridFailureRatio:  0.5,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
