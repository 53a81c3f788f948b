// Command langconv is the languages/conversions catalog client and mock backend.
package main

import "github.com/langconv/langconv/pkg/cli"

func main() {
	cli.Execute()
}
