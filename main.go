package main

import "github.com/frahmantamala/partner-transaction/cmd"

func main() {
	cmd.Execute()
}
