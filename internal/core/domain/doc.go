// Package domain contains the core business entities for MarketSight.
// These types have no dependencies on adapters or infrastructure.
package domain
