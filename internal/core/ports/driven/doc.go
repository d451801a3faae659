// Package driven defines the driven (outbound) ports of the core.
// Adapters implement these interfaces; services depend on them.
package driven
