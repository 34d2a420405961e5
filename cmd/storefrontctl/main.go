package main

import "storefront/cmd/storefrontctl/commands"

func main() {
	commands.Execute()
}
