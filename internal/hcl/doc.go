// Package hcl provides the HCL implementation of config.Loader. It parses
// scenario files, expands `count` on devices, sensors and actuators, and
// translates the result into the format-agnostic config.Model.
//
// Inside a counted block `count.index` is the zero-based instance index.
// Sensor and actuator blocks additionally see `device.name` and
// `device.index` of the enclosing device instance.
package hcl
