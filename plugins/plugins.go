package plugins

import (
	"fmt"

	"github.com/gqlgo/gqlc/config"
	"github.com/gqlgo/gqlc/plugins/propertygen"
)

// GenerateCode runs every plugin enabled by the config.
func GenerateCode(cfg *config.Config) error {
	// propertygen
	if cfg.GQLCConfig.PropertyGen.IsDefined() {
		propertyGen := propertygen.New(cfg)
		if err := propertyGen.Generate(); err != nil {
			return fmt.Errorf("%s failed: %w", propertyGen.Name(), err)
		}
	}

	return nil
}
