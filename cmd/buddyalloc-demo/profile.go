package main

import (
	"encoding/json"
	"fmt"
	"os"

	semver "github.com/Masterminds/semver/v3"
)

// schemaConstraint bounds the PoolProfile schema versions this binary
// understands. It is checked against PoolProfile.SchemaVersion the same
// way the teacher's package manager checks a dependency's version range
// before trusting a manifest.
var schemaConstraint = mustParseConstraint("^1")

func mustParseConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

// PoolProfile is the on-disk configuration for a demo allocator instance,
// loaded with encoding/json the way the teacher's ProjectConfig is.
type PoolProfile struct {
	SchemaVersion    string `json:"schemaVersion"`
	PoolSizeExponent uint8  `json:"poolSizeExponent"`
	MinBlockExponent uint8  `json:"minBlockExponent"`
	AlignmentCheck   bool   `json:"alignmentCheck"`
}

func defaultPoolProfile() *PoolProfile {
	return &PoolProfile{
		SchemaVersion:    "1.0.0",
		PoolSizeExponent: 20,
		MinBlockExponent: 6,
		AlignmentCheck:   false,
	}
}

// loadPoolProfile reads and validates a profile file. A missing file is
// not an error — it falls back to defaultPoolProfile so the demo runs
// with no setup.
func loadPoolProfile(path string) (*PoolProfile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaultPoolProfile(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}

	profile := defaultPoolProfile()
	if err := json.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}

	version, err := semver.NewVersion(profile.SchemaVersion)
	if err != nil {
		return nil, fmt.Errorf("profile %s: invalid schemaVersion %q: %w", path, profile.SchemaVersion, err)
	}

	if !schemaConstraint.Check(version) {
		return nil, fmt.Errorf("profile %s: schemaVersion %s does not satisfy %s", path, version, schemaConstraint)
	}

	if profile.MinBlockExponent == 0 || profile.PoolSizeExponent <= profile.MinBlockExponent {
		return nil, fmt.Errorf("profile %s: poolSizeExponent must be > minBlockExponent > 0", path)
	}

	return profile, nil
}
