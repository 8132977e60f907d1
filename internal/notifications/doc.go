// Package notifications defines the render-progress event surface.
//
// The render pipeline reports progress through a narrow Service interface
// so the delivery transport stays swappable: the CLI wires the in-process
// Bus, tests record events, and a server embedding would publish to its
// own push channel.
package notifications
