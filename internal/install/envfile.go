package install

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// WriteEnvFile writes resolved credentials to a dotenv file, updating
// existing keys in place and appending new ones. The file is created
// with 0600 permissions and its name is added to the sibling .gitignore
// so the credentials cannot be committed by accident.
func WriteEnvFile(path string, creds Credentials) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating env directory: %w", err)
	}
	if err := ensureGitignored(path); err != nil {
		return err
	}

	lines, index := readEnvLines(path)

	for _, serverName := range sortedCredKeys(creds) {
		serverCreds := creds[serverName]
		names := make([]string, 0, len(serverCreds))
		for name := range serverCreds {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			entry := name + "=" + serverCreds[name]
			if i, ok := index[name]; ok {
				lines[i] = entry
			} else {
				index[name] = len(lines)
				lines = append(lines, entry)
			}
		}
	}

	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("writing env file: %w", err)
	}
	return nil
}

// readEnvLines loads the existing file and maps key names to line
// numbers. A missing file yields empty results.
func readEnvLines(path string) ([]string, map[string]int) {
	index := make(map[string]int)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, index
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, index
	}
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if key, _, ok := strings.Cut(trimmed, "="); ok {
			index[strings.TrimSpace(key)] = i
		}
	}
	return lines, index
}

// ensureGitignored adds the env file name to the .gitignore next to it.
func ensureGitignored(envPath string) error {
	dir := filepath.Dir(envPath)
	base := filepath.Base(envPath)
	gitignorePath := filepath.Join(dir, ".gitignore")

	data, err := os.ReadFile(gitignorePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading .gitignore: %w", err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == base {
			return nil
		}
	}

	content := string(data)
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += base + "\n"

	if err := os.WriteFile(gitignorePath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("updating .gitignore: %w", err)
	}
	return nil
}

func sortedCredKeys(creds Credentials) []string {
	keys := make([]string, 0, len(creds))
	for k := range creds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
