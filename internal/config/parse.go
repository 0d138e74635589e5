package config

import (
	"bufio"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// loadTOMLFile decodes configPath into config.
func loadTOMLFile(configPath string, config any) error {
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		log.Warnf("TOML parsing error in config file %s: %v. Attempting partial recovery...", configPath, err)
		return err
	}
	return nil
}

// saveTOMLFile encodes config into configPath, replacing its contents.
func saveTOMLFile(config any, configPath string) error {
	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := toml.NewEncoder(w).Encode(config); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// parseTOMLWithRecovery decodes configPath into an untyped map, so that
// values of the wrong type in one key do not discard the whole file.
func parseTOMLWithRecovery(configPath string) (map[string]any, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	tempConfig := make(map[string]any)
	if _, err := toml.Decode(string(data), &tempConfig); err != nil {
		return nil, err
	}
	return tempConfig, nil
}

func extractSection(data map[string]any, name string) (map[string]any, bool) {
	section, ok := data[name].(map[string]any)
	return section, ok
}

func extractInt(data map[string]any, key string) (int, bool) {
	if val, ok := data[key].(int64); ok {
		return int(val), true
	}
	return 0, false
}

func extractBool(data map[string]any, key string) (bool, bool) {
	if val, ok := data[key].(bool); ok {
		return val, true
	}
	return false, false
}

func extractString(data map[string]any, key string) (string, bool) {
	if val, ok := data[key].(string); ok {
		return val, true
	}
	return "", false
}
