// Package driving defines interfaces that the surrounding application
// layer uses to interact with the engine. These are the "driving" ports
// in hexagonal architecture terminology - they drive the application.
//
// Implementations of these interfaces live in internal/core/services.
package driving
