// Package config resolves where the primary settings blob lives. A small
// pointer record in the default storage directory may name a custom
// directory override; it is read before the settings blob itself.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// PointerFile is the pointer record blob name.
const PointerFile = "storage-pointer.json"

// Parser reads the pointer record.
type Parser struct {
	v  *viper.Viper
	fs afero.Fs
}

// NewParser creates a pointer-record parser over the given filesystem.
func NewParser(fs afero.Fs) *Parser {
	v := viper.New()
	v.SetConfigType("json")
	v.SetFs(fs)
	return &Parser{v: v, fs: fs}
}

// ResolveDir returns the storage directory to use: the override named by
// the pointer record when one exists and is non-blank, otherwise the
// default directory. A missing pointer record is not an error; a corrupt
// one is.
func (p *Parser) ResolveDir(defaultDir string) (string, error) {
	path := filepath.Join(defaultDir, PointerFile)

	exists, err := afero.Exists(p.fs, path)
	if err != nil {
		return "", fmt.Errorf("checking pointer record: %w", err)
	}
	if !exists {
		return defaultDir, nil
	}

	p.v.SetConfigFile(path)
	if err := p.v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("reading pointer record: %w", err)
	}

	return p.resolve(defaultDir), nil
}

// ResolveReader resolves against pointer-record content directly (useful
// for testing).
func (p *Parser) ResolveReader(content, defaultDir string) (string, error) {
	if err := p.v.ReadConfig(strings.NewReader(content)); err != nil {
		return "", fmt.Errorf("reading pointer record: %w", err)
	}
	return p.resolve(defaultDir), nil
}

func (p *Parser) resolve(defaultDir string) string {
	dir := strings.TrimSpace(p.v.GetString("directory"))
	if dir == "" {
		return defaultDir
	}
	return dir
}
