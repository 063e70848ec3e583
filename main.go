// Package main is the entry point for the errorgrams application
package main

import "github.com/kbroman/errorgrams/cmd"

func main() {
	cmd.Execute()
}
