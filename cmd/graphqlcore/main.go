// Command graphqlcore is an example CLI wiring this module's pipeline end
// to end: parse -> assemble/validate schema -> parse -> validate
// executable document -> select operation -> coerce variables -> execute
// against a YAML-described mock data tree, or print a schema back to SDL.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "validate":
		err = runValidate(os.Args[2:])
	case "print":
		err = runPrint(os.Args[2:])
	case "exec":
		err = runExec(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "graphqlcore: "+err.Error())
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  graphqlcore validate <schema.graphql>
  graphqlcore print <schema.graphql>
  graphqlcore exec <schema.graphql> <query.graphql> [flags]

flags for exec:
  -operation string   named operation to run (required if the document has more than one)
  -variables string   path to a JSON file of variable values
  -data string        path to a YAML file of mock resolver data`)
}
