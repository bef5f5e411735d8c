package main

import "github.com/riskibarqy/match-metrics/internal/cli"

func main() {
	cli.Execute()
}
