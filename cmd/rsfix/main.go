// Package main is the entry point for the rsfix CLI tool.
package main

import (
	"github.com/hargabyte/rsfix/internal/cmd"
)

func main() {
	cmd.Execute()
}
