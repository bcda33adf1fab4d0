package main

import "github.com/mvp-joe/adapta-compat/internal/cli"

func main() {
	cli.Execute()
}
