// Package util provides small helpers used throughout the reconcilers.
package util

import (
	"strings"
)

// ResourceIDFromARN extracts the trailing resource ID from an ARN.
// Task ARN format: arn:aws:ecs:region:account:task/cluster/0123456789abcdef
func ResourceIDFromARN(arn string) string {
	if i := strings.LastIndex(arn, "/"); i >= 0 {
		return arn[i+1:]
	}
	// Old style ARNs carry the ID after the last colon
	if i := strings.LastIndex(arn, ":"); i >= 0 {
		return arn[i+1:]
	}
	return arn
}

// ContainsString checks if a string is in a slice of strings
func ContainsString(slice []string, s string) bool {
	for _, item := range slice {
		if item == s {
			return true
		}
	}
	return false
}
