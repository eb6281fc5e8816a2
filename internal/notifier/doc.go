// Package notifier publishes safety state events to external observers.
//
// The Publisher interface is what the orchestrator depends on; BusPublisher
// is the production implementation over the NATS message bus.
package notifier
