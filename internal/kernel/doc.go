// Package kernel provides coordinator.Kernel implementations. Recorder keeps
// bundles in memory and File writes them as YAML manifests. SocketIO and HTTP
// ship the manifest to a remote simulation kernel.
//
// Local kernels check bundles with Validate before accepting them. Remote
// kernels leave that to the remote side.
package kernel
