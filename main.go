package main

import (
	cmd "github.com/rohmanhakim/review-parser/internal/cli"
)

func main() {
	cmd.Execute()
}
