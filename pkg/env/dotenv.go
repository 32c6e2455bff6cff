// Package env loads optional .env files for site environment variables.
package env

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// LoadForSite loads .env from the working directory and the site root.
func LoadForSite() error {
	if err := Load(".env"); err != nil {
		return err
	}
	if root := os.Getenv("OMD_ROOT"); root != "" {
		return Load(filepath.Join(root, ".env"))
	}
	return nil
}

// Load reads KEY=VALUE pairs into the environment without overwriting
// existing variables. A missing file is not an error.
func Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, val, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		_ = os.Setenv(key, val)
	}
	return scanner.Err()
}

func parseLine(raw string) (key, val string, ok bool) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	if rest, found := strings.CutPrefix(line, "export "); found {
		line = strings.TrimSpace(rest)
	}
	key, val, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	val = strings.Trim(strings.TrimSpace(val), `"'`)
	return key, val, true
}
