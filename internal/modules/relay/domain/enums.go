//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// SkipReason explains why an inbound message was not relayed
// ENUM(none,self,private,unregistered)
type SkipReason string
