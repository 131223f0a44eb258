//go:build tools

// Package sentimentapi tracks tool dependencies such as mockgen in go.mod.
package sentimentapi

import (
	_ "go.uber.org/mock/mockgen"
)
