package bootstrap

import (
	"github.com/zillusion/capsule/config"
)

// Config is the constraint for application configuration types. A struct
// embedding config.ServiceConfig gets GetServiceConfig by adding one method
// and composes ApplyDefaults and Validate over its sections.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
