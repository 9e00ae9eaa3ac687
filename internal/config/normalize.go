package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeEncoder(); err != nil {
		return err
	}
	c.normalizeOutput()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeServer(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeEncoder() error {
	if value, ok := os.LookupEnv(encoderBinaryEnv); ok && strings.TrimSpace(value) != "" {
		c.Encoder.Binary = strings.TrimSpace(value)
	}
	c.Encoder.Binary = strings.TrimSpace(c.Encoder.Binary)
	if c.Encoder.Binary == "" {
		c.Encoder.Binary = defaultEncoderBinary
	}
	// Bare names are resolved later against PATH and search_paths; only
	// explicit paths are expanded here.
	if strings.ContainsAny(c.Encoder.Binary, `/\`) || strings.HasPrefix(c.Encoder.Binary, "~") {
		expanded, err := ExpandPath(c.Encoder.Binary)
		if err != nil {
			return fmt.Errorf("encoder.binary: %w", err)
		}
		c.Encoder.Binary = expanded
	}
	c.Encoder.Name = strings.TrimSpace(c.Encoder.Name)
	if c.Encoder.Name == "" {
		c.Encoder.Name = defaultEncoderName
	}
	paths := make([]string, 0, len(c.Encoder.SearchPaths))
	for _, dir := range c.Encoder.SearchPaths {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		expanded, err := ExpandPath(dir)
		if err != nil {
			return fmt.Errorf("encoder.search_paths: %w", err)
		}
		paths = append(paths, expanded)
	}
	c.Encoder.SearchPaths = paths
	return nil
}

func (c *Config) normalizeOutput() {
	c.Output.DirName = strings.TrimSpace(c.Output.DirName)
	if c.Output.DirName == "" {
		c.Output.DirName = defaultOutputDirName
	}
	if strings.TrimSpace(c.Output.Suffix) == "" {
		c.Output.Suffix = defaultOutputSuffix
	}
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	var err error
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeServer() error {
	c.Server.HTTPBind = strings.TrimSpace(c.Server.HTTPBind)
	if c.Server.SocketPath = strings.TrimSpace(c.Server.SocketPath); c.Server.SocketPath != "" {
		expanded, err := ExpandPath(c.Server.SocketPath)
		if err != nil {
			return fmt.Errorf("server.socket_path: %w", err)
		}
		c.Server.SocketPath = expanded
	}
	if c.Server.MaxConcurrent == 0 {
		c.Server.MaxConcurrent = defaultMaxConcurrent
	}
	if c.Server.APIToken == "" {
		if value, ok := os.LookupEnv(apiTokenEnv); ok {
			c.Server.APIToken = value
		}
	}
	c.Server.APIToken = strings.TrimSpace(c.Server.APIToken)
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
