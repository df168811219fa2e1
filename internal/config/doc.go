// Package config defines the format-agnostic scenario model: one application,
// a set of devices with their sensors and actuators, and an optional placement
// section. It also defines the Loader interface implemented by format-specific
// packages such as internal/hcl.
//
// Every device, sensor and actuator in the Model is a single, fully expanded
// instance; loaders resolve `count` before returning.
package config
