// uhc is the terminal client for the community match hosting service.
package main

import "uhc/cmd/uhc/cmd"

func main() {
	cmd.Execute()
}
