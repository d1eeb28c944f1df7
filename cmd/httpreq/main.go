// httpreq - send a single HTTP/1.1 request and print the response
package main

import (
	"os"

	"github.com/WhileEndless/go-httpreq/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
