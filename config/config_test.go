package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	filename := filepath.Join(t.TempDir(), ".gqlc.yml")
	if err := os.WriteFile(filename, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return filename
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	type want struct {
		config *Config
		errStr string
	}

	tests := []struct {
		name    string
		content string
		want    want
	}{
		{
			name: "propertygen と server の両方を持つ設定を読み込める",
			content: `
gqlc:
  schema:
    - schema/*.graphql
  query:
    - queries/*.graphql
  propertygen:
    filename: generated/properties.go
    package: generated
  server:
    command: ["gql-language-server", "--stdio"]
    shutdown_timeout: 10s
`,
			want: want{
				config: &Config{
					GQLCConfig: &GQLCConfig{
						Schema:      []string{"schema/*.graphql"},
						Query:       []string{"queries/*.graphql"},
						PropertyGen: PackageConfig{Filename: "generated/properties.go", Package: "generated"},
						Server: &ServerConfig{
							Command:         []string{"gql-language-server", "--stdio"},
							ShutdownTimeout: 10 * time.Second,
						},
					},
				},
			},
		},
		{
			name: "package が省略された場合はファイル名から導出される",
			content: `
gqlc:
  schema:
    - schema/*.graphql
  query:
    - queries/*.graphql
  propertygen:
    filename: generated/properties.go
`,
			want: want{
				config: &Config{
					GQLCConfig: &GQLCConfig{
						Schema:      []string{"schema/*.graphql"},
						Query:       []string{"queries/*.graphql"},
						PropertyGen: PackageConfig{Filename: "generated/properties.go", Package: "properties"},
					},
				},
			},
		},
		{
			name: "server の shutdown_timeout は省略時に既定値になる",
			content: `
gqlc:
  server:
    command: ["gql-language-server"]
`,
			want: want{
				config: &Config{
					GQLCConfig: &GQLCConfig{
						Server: &ServerConfig{
							Command:         []string{"gql-language-server"},
							ShutdownTimeout: 5 * time.Second,
						},
					},
				},
			},
		},
		{
			name: "gqlc セクションが空の場合はエラー",
			content: `
gqlc:
`,
			want: want{errStr: "'gqlc' section is missing"},
		},
		{
			name: "propertygen も server も無い場合はエラー",
			content: `
gqlc:
  schema:
    - schema/*.graphql
`,
			want: want{errStr: "neither 'propertygen' nor 'server' specified"},
		},
		{
			name: "propertygen があるのに query が無い場合はエラー",
			content: `
gqlc:
  schema:
    - schema/*.graphql
  propertygen:
    filename: generated/properties.go
`,
			want: want{errStr: "'propertygen' is set, 'query' must be set"},
		},
		{
			name: "propertygen があるのに schema が無い場合はエラー",
			content: `
gqlc:
  query:
    - queries/*.graphql
  propertygen:
    filename: generated/properties.go
`,
			want: want{errStr: "'propertygen' is set, 'schema' must be set"},
		},
		{
			name: "go ファイルでない filename はエラー",
			content: `
gqlc:
  schema:
    - schema/*.graphql
  query:
    - queries/*.graphql
  propertygen:
    filename: generated/properties.ts
`,
			want: want{errStr: "filename should be path to a go source file"},
		},
		{
			name: "空の server command はエラー",
			content: `
gqlc:
  server:
    command: []
`,
			want: want{errStr: "server command must not be empty"},
		},
		{
			name: "未知のフィールドはエラー",
			content: `
gqlc:
  schemaa:
    - schema/*.graphql
`,
			want: want{errStr: "unable to parse config"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := LoadConfig(writeConfig(t, tt.content))

			if tt.want.errStr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.want.errStr)
				}
				if !strings.Contains(err.Error(), tt.want.errStr) {
					t.Errorf("error = %q, want it to contain %q", err.Error(), tt.want.errStr)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			opts := cmpopts.IgnoreFields(GQLCConfig{}, "LoadedSchema", "QueryDocument")
			if diff := cmp.Diff(tt.want.config, got, opts); diff != "" {
				t.Errorf("diff(-want +got): %s", diff)
			}
		})
	}
}

func TestLoadConfig_missingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "doesnotexist.yml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "unable to read config") {
		t.Errorf("error = %v, want read error", err)
	}
}

func TestLoadConfig_expandsEnv(t *testing.T) {
	t.Setenv("GQLC_TEST_SCHEMA_DIR", "schemadir")

	content := `
gqlc:
  schema:
    - ${GQLC_TEST_SCHEMA_DIR}/*.graphql
  server:
    command: ["gql-language-server"]
`
	got, err := LoadConfig(writeConfig(t, content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "schemadir/*.graphql"; got.GQLCConfig.Schema[0] != want {
		t.Errorf("schema[0] = %q, want %q", got.GQLCConfig.Schema[0], want)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sub := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(sub, 0o750); err != nil {
		t.Fatal(err)
	}
	configFile := filepath.Join(dir, ".gqlc.yml")
	if err := os.WriteFile(configFile, []byte("gqlc: {}"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := FindConfigFile(sub, []string{".gqlc.yml", "gqlc.yml"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != configFile {
		t.Errorf("FindConfigFile = %q, want %q", got, configFile)
	}

	if _, err := FindConfigFile(t.TempDir(), []string{".gqlc.yml"}); err == nil {
		t.Error("expected error when no config file exists up the tree")
	}
}
