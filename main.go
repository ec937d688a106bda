package main

import "salereport/cmd"

func main() {
	cmd.Execute()
}
