// Package cpconfig defines the recognized scan configuration options and
// loads them from YAML through Default, Load and Validate.
package cpconfig

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/viant/cpgraph/scanerr"
)

// Config is the full set of recognized scan options.
type Config struct {
	IncludePackages []string `yaml:"include_packages"`
	ExcludePackages []string `yaml:"exclude_packages"`
	IncludeClasses  []string `yaml:"include_classes"`
	ExcludeClasses  []string `yaml:"exclude_classes"`

	ExcludeSystemArchives    bool `yaml:"exclude_system_archives"`
	RetainExternalReferences bool `yaml:"retain_external_references"`

	EnableFieldInfo             bool `yaml:"enable_field_info"`
	EnableMethodInfo            bool `yaml:"enable_method_info"`
	EnableAnnotationInfo        bool `yaml:"enable_annotation_info"`
	EnableStaticFinalConstants  bool `yaml:"enable_static_final_constants"`
	EnableMemoryMapping         bool `yaml:"enable_memory_mapping"`

	// WorkerCount is the thread-pool size; 0 means "auto" (runtime.NumCPU()).
	WorkerCount uint32 `yaml:"worker_count"`

	// ClasspathOverride, if non-empty, replaces the environment-derived
	// classpath entirely.
	ClasspathOverride string `yaml:"classpath_override"`

	// JDKRoots lists candidate JDK/JRE install directories to probe for
	// system-archive markers.
	JDKRoots []string `yaml:"jdk_roots"`
}

// Default returns a Config with every gate flag on (a scan with no
// configuration sees everything), no include/exclude restriction, and an
// auto worker count.
func Default() *Config {
	return &Config{
		EnableFieldInfo:            true,
		EnableMethodInfo:           true,
		EnableAnnotationInfo:       true,
		EnableStaticFinalConstants: true,
	}
}

// Load reads and validates a Config from a YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, scanerr.New(scanerr.IoError, "cpconfig.Load", err)
	}
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, scanerr.New(scanerr.InvalidConfiguration, "cpconfig.Load", err)
	}
	if err := c.Validate(); err != nil {
		return nil, scanerr.New(scanerr.InvalidConfiguration, "cpconfig.Load", err)
	}
	return c, nil
}

// Validate rejects an empty include_packages or exclude_packages prefix; it
// checks no other option.
func (c *Config) Validate() error {
	overlap := make(map[string]bool, len(c.IncludePackages))
	for _, p := range c.IncludePackages {
		if p == "" {
			return fmt.Errorf("include_packages: empty prefix is not allowed")
		}
		overlap[p] = true
	}
	for _, p := range c.ExcludePackages {
		if p == "" {
			return fmt.Errorf("exclude_packages: empty prefix is not allowed")
		}
	}
	return nil
}

// ResolvedWorkerCount returns WorkerCount, substituting runtime.NumCPU()
// when it is zero ("auto").
func (c *Config) ResolvedWorkerCount() int {
	if c.WorkerCount == 0 {
		return runtime.NumCPU()
	}
	return int(c.WorkerCount)
}
