// Package placement resolves an application onto a device topology.
//
// Two policies implement Policy: Fixed follows an explicit module to device
// table without checking capacity, and Edgeward pushes every module as close
// to the sensors and actuators that use it as device memory allows.
package placement
