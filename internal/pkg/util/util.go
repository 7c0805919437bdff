package util

import (
	"fmt"
	"time"
)

// GenerateTimestampWithPrefix builds human readable identifiers such as order
// snapshot ids ("DR1700000000000").
func GenerateTimestampWithPrefix(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, time.Now().UnixMilli())
}
