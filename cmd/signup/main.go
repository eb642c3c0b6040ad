// cmd/signup/main.go
//
// Command-line front end for the sign-up form.
//
//	signup prompt              fill the form interactively
//	signup check [file|-]      validate a JSON object of strings
//
// Both commands honour --form to use another YAML definition and read
// conf/global.yaml when one exists under the project root.
package main

import "os"

func main() {
	os.Exit(execute(newRootCmd(), os.Args[1:]))
}
