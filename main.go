// Package main is the entry point of rosterscraper.
package main

import "rosterscraper/cmd"

func main() {
	cmd.Execute()
}
