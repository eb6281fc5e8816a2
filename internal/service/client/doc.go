// Package client implements the operator CLI logic: issuing trigger, reset
// and status commands to a unit's agent over the bus and rendering replies.
package client
