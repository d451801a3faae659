// Package driving defines the driving (inbound) ports of the core.
// The CLI and TUI adapters call the core exclusively through these
// interfaces.
package driving
