// Package install resolves credential placeholders when a shared package
// is installed: values come from the environment or a caller-supplied
// prompt, and the resolved set is assembled into tool-native MCP config.
// Values are handed to the caller or written to a plain .env the user
// owns; no storage or encryption happens here.
package install

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/devsyncd/devsync/internal/practice"
)

// ErrCredentialRequired indicates a required credential had no value
// from any source.
var ErrCredentialRequired = errors.New("required credential not provided")

// Credentials maps server name to env var name to resolved value.
type Credentials map[string]map[string]string

// LookupFunc resolves an env var name to a value (e.g. os.LookupEnv).
type LookupFunc func(name string) (string, bool)

// PromptFunc asks the user for one credential value. Returning an empty
// string skips the credential.
type PromptFunc func(serverName string, spec practice.CredentialSpec) (string, error)

// Resolver resolves credential specs to values. The environment is
// consulted first; missing values fall back to the prompt.
type Resolver struct {
	lookup LookupFunc
	prompt PromptFunc
	log    *zap.Logger
}

// NewResolver creates a Resolver. lookup may be nil to skip environment
// resolution; prompt may be nil for non-interactive use; logger may be
// nil for silence.
func NewResolver(lookup LookupFunc, prompt PromptFunc, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{lookup: lookup, prompt: prompt, log: logger}
}

// Resolve collects values for every credential spec of every server.
// A required credential with no value from any source is an error;
// optional ones are skipped silently.
func (r *Resolver) Resolve(servers []practice.MCPDeclaration) (Credentials, error) {
	all := make(Credentials)

	for _, server := range servers {
		if len(server.Credentials) == 0 {
			continue
		}

		serverCreds := make(map[string]string)
		for _, cred := range server.Credentials {
			value, err := r.resolveOne(server.Name, cred)
			if err != nil {
				return nil, err
			}
			if value != "" {
				serverCreds[cred.Name] = value
			}
		}

		if len(serverCreds) > 0 {
			all[server.Name] = serverCreds
		}
	}

	return all, nil
}

func (r *Resolver) resolveOne(serverName string, cred practice.CredentialSpec) (string, error) {
	if r.lookup != nil {
		if value, ok := r.lookup(cred.Name); ok && strings.TrimSpace(value) != "" {
			r.log.Debug("credential resolved from environment",
				zap.String("server", serverName),
				zap.String("credential", cred.Name))
			return strings.TrimSpace(value), nil
		}
	}

	if r.prompt != nil {
		value, err := r.prompt(serverName, cred)
		if err != nil {
			return "", fmt.Errorf("prompting for %s: %w", cred.Name, err)
		}
		value = strings.TrimSpace(value)
		if value != "" {
			return value, nil
		}
	}

	if cred.Default != "" {
		return cred.Default, nil
	}
	if cred.Required {
		return "", fmt.Errorf("%w: %s (server %s)", ErrCredentialRequired, cred.Name, serverName)
	}
	return "", nil
}

// BuildMCPConfig assembles a tool-native MCP server config block from a
// declaration and its resolved credentials. Non-secret env vars are kept
// as declared; resolved credentials are layered on top.
func BuildMCPConfig(server practice.MCPDeclaration, creds map[string]string) map[string]any {
	config := map[string]any{
		"command": server.Command,
		"args":    server.Args,
	}

	env := make(map[string]string, len(server.EnvVars)+len(server.Credentials))
	for k, v := range server.EnvVars {
		env[k] = v
	}
	for _, cred := range server.Credentials {
		if value := creds[cred.Name]; value != "" {
			env[cred.Name] = value
		}
	}
	if len(env) > 0 {
		config["env"] = env
	}

	return config
}
