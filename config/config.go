package config

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/gqlgo/gqlc/queryparser"
)

// Config represents the .gqlc.yml config file.
type Config struct {
	GQLCConfig *GQLCConfig `yaml:"gqlc"`
}

type GQLCConfig struct {
	Schema      []string      `yaml:"schema"`
	Query       []string      `yaml:"query,omitempty"`
	PropertyGen PackageConfig `yaml:"propertygen,omitempty"`
	Server      *ServerConfig `yaml:"server,omitempty"`

	LoadedSchema  *ast.Schema        `yaml:"-"`
	QueryDocument *ast.QueryDocument `yaml:"-"`
}

// PackageConfig are the allowed options for a generated file target.
type PackageConfig struct {
	Filename string `yaml:"filename,omitempty"`
	Package  string `yaml:"package,omitempty"`
}

func (c *PackageConfig) IsDefined() bool {
	return c.Filename != ""
}

func (c *PackageConfig) Check() error {
	if !c.IsDefined() {
		return nil
	}
	if !strings.HasSuffix(c.Filename, ".go") {
		return fmt.Errorf("filename should be path to a go source file, got %q", c.Filename)
	}
	if c.Package == "" {
		c.Package = strings.TrimSuffix(filepath.Base(c.Filename), ".go")
	}
	if !token.IsIdentifier(c.Package) {
		return fmt.Errorf("package %q is not a valid go package name", c.Package)
	}

	return nil
}

// ServerConfig are the allowed options for the 'server' config, describing
// how to launch the GraphQL language server the editor client talks to.
type ServerConfig struct {
	Command         []string      `yaml:"command"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout,omitempty"`
}

func (c *ServerConfig) IsDefined() bool {
	return c != nil
}

func (c *ServerConfig) Check() error {
	if !c.IsDefined() {
		return nil
	}
	if len(c.Command) == 0 {
		return errors.New("server command must not be empty")
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 5 * time.Second
	}

	return nil
}

// FindConfigFile walks up from dir until it finds one of the candidate
// config filenames.
func FindConfigFile(dir string, filenames []string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("unable to get working dir to find config: %w", err)
	}

	for {
		for _, filename := range filenames {
			candidate := filepath.Join(dir, filename)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// LoadConfig loads and parses the gqlc config.
func LoadConfig(configFilename string) (*Config, error) {
	configContent, err := os.ReadFile(configFilename)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}

	var c Config

	yamlDecoder := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(configContent)))), yaml.DisallowUnknownField())
	if err := yamlDecoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}

	// validation
	if c.GQLCConfig == nil {
		return nil, errors.New("'gqlc' section is missing")
	}

	if !c.GQLCConfig.PropertyGen.IsDefined() && !c.GQLCConfig.Server.IsDefined() {
		return nil, errors.New("neither 'propertygen' nor 'server' specified. Use propertygen to generate code, use server to launch a language server")
	}

	if c.GQLCConfig.PropertyGen.IsDefined() {
		if len(c.GQLCConfig.Schema) == 0 {
			return nil, errors.New("'propertygen' is set, 'schema' must be set")
		}
		if len(c.GQLCConfig.Query) == 0 {
			return nil, errors.New("'propertygen' is set, 'query' must be set")
		}
	}

	if err := c.GQLCConfig.PropertyGen.Check(); err != nil {
		return nil, fmt.Errorf("propertygen: %w", err)
	}

	if err := c.GQLCConfig.Server.Check(); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	return &c, nil
}

// LoadSchema parses and validates the local SDL files named by the
// 'schema' globs.
func (c *Config) LoadSchema() error {
	schema, err := queryparser.LoadSchema(c.GQLCConfig.Schema)
	if err != nil {
		return fmt.Errorf("load local schema failed: %w", err)
	}

	if schema.Query == nil {
		schema.Query = &ast.Definition{
			Kind: ast.Object,
			Name: "Query",
		}
		schema.Types["Query"] = schema.Query
	}

	c.GQLCConfig.LoadedSchema = schema

	return nil
}

// LoadQuery parses and validates the query documents named by the
// 'query' globs against the loaded schema.
func (c *GQLCConfig) LoadQuery() error {
	querySources, err := queryparser.LoadSources(c.Query)
	if err != nil {
		return fmt.Errorf("load query sources failed: %w", err)
	}

	queryDocument, err := queryparser.QueryDocument(c.LoadedSchema, querySources)
	if err != nil {
		return fmt.Errorf("load query document failed: %w", err)
	}

	c.QueryDocument = queryDocument

	return nil
}
