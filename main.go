package main

import "github.com/philipnye/ds-utils/cmd"

func main() {
	cmd.Execute()
}
