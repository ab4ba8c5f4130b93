package config

import (
	"fmt"
)

// Validate ensures the configuration is usable. Cloud settings are checked
// with the same rules the pipeline applies to a run.
func (c *Config) Validate() error {
	opts := c.PipelineOptions()
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("cloud: %w", err)
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	return c.validateServer()
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case "", BackendFile, BackendNone:
		return nil
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache.redis_addr is required for the redis backend")
		}
		return nil
	default:
		return fmt.Errorf("cache.backend %q is not supported (want file, redis or none)", c.Cache.Backend)
	}
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case "", BackendSQLite, BackendNone:
		return nil
	case BackendMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("store.mongo_uri is required for the mongo backend")
		}
		return nil
	default:
		return fmt.Errorf("store.backend %q is not supported (want sqlite, mongo or none)", c.Store.Backend)
	}
}

func (c *Config) validateServer() error {
	if c.Server.RequestTimeout < 0 {
		return fmt.Errorf("server.request_timeout must not be negative")
	}
	if c.Server.MaxBodyMiB < 0 {
		return fmt.Errorf("server.max_body_mib must not be negative")
	}
	return nil
}
