package app

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved filesystem paths for the .gapseek/ project directory.
type Paths struct {
	ProjectRoot string
	Root        string // .gapseek/
	Config      string // .gapseek/config.toml
	DB          string // .gapseek/runs.db
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, ".gapseek")
	return &Paths{
		ProjectRoot: projectRoot,
		Root:        root,
		Config:      filepath.Join(root, "config.toml"),
		DB:          filepath.Join(root, "runs.db"),
	}
}

// EnsureDirs creates .gapseek/. Idempotent.
func (p *Paths) EnsureDirs() error {
	return os.MkdirAll(p.Root, 0755)
}

// Resolve makes a configured path absolute. Relative paths are taken
// relative to the project root, not the working directory.
func (p *Paths) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.ProjectRoot, path)
}
