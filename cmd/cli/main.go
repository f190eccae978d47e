package main

import (
	"github.com/edsafest/trivia-service/internal/cli"
)

func main() {
	cli.Execute()
}
