package main

import "github.com/marketpulse/crawler/cmd"

func main() {
	cmd.Execute()
}
