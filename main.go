package main

import "dburn/cmd"

func main() {
	cmd.Execute()
}
