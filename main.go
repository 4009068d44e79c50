package main

import "prom_seating_console/cmd"

func main() {
	cmd.Execute()
}
