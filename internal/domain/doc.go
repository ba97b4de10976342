// Package domain defines the repository data model and interfaces shared
// across the app. It contains plain types (persisted records, key material)
// and contracts (interfaces) only.
package domain
