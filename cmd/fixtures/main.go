package main

import cmd "github.com/julienkay/com.doji.diffusers/internal/cli"

func main() {
	cmd.Execute()
}
