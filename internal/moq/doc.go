// Package moq defines the identity and addressing model shared by the relay
// engine: track namespaces and full track names (value identities used as map
// keys), Locations with their group-major total order, subscribe windows, and
// the object envelope with its status, priority, and forwarding-preference
// vocabulary.
//
// Conventions fixed here and relied on everywhere else:
//   - Priority is lower-is-more-urgent.
//   - Locations order group-first, then object.
//   - LiveEdge is the only unbounded window end.
//   - Windows are narrow-only once a subscription is active.
package moq
