// Package topology models the hierarchical network of compute devices (cloud,
// gateways, hubs) together with the sensors and actuators bound to hubs.
//
// Devices live in a table indexed by DeviceID; the tree is described by each
// device's Parent field and a children index built on Build. Nothing holds a
// pointer to another device.
package topology
