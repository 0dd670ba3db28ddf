package main

import "cognitext/cmd/cognitext-cli/cmd"

func main() {
	cmd.Execute()
}
