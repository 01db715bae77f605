package main

import "github.com/poorstock/stockreport/internal/cmd"

func main() {
	cmd.Execute()
}
