package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	root := NewRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "cmsconsole: %v\n", err)
		os.Exit(1)
	}
}
