package main

import (
	"github.com/lcrawf/moonhollow/internal/cli"
)

func main() {
	cli.Execute()
}
