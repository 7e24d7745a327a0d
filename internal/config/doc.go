// Package config defines the format-agnostic description of the program
// under analysis, the Loader interface that produces it, and the phase
// options read from tdg.toml.
//
// The `config.Model` is the single source of truth for the app, which turns
// it into scopes and constructs for the analysis packages. Concrete loaders,
// such as the HCL one, are provided in separate packages.
package config
