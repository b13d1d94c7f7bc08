// Package device wraps an identified controller link.
//
// A Device is created by Identify, which performs the model-id round trip
// over a transport: it sends a sender-card read of ControllerModelIdAddr,
// reads the 22-byte response, verifies it and classifies the model. Models
// outside the known table are reported as wire.ModelUnknown; they are still
// valid devices.
//
// The handle owns its transport. Once a write fails the handle is dead:
// Alive reports false and every command returns ErrDead. Use Prune to drop
// dead handles from a collection.
package device
