//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// ReporterState is the status reporter lifecycle
// ENUM(uninitialized,tracking)
type ReporterState string
