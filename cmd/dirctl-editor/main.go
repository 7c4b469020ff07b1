// Command dirctl-editor is launched by the directory management tool as its
// --editor. It rewrites one attribute of the LDIF file passed as its only
// argument, taking the attribute name and value from DIRCTL_EDIT_ATTR and
// DIRCTL_EDIT_VALUE.
package main

import (
	"fmt"
	"os"

	"nathanbeddoewebdev/dirctl/internal/ldifedit"
	"nathanbeddoewebdev/dirctl/internal/samba"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "dirctl-editor: LDIF file argument is required")
		os.Exit(2)
	}
	attr := os.Getenv(samba.EditAttrEnv)
	value, ok := os.LookupEnv(samba.EditValueEnv)
	if !ok {
		fmt.Fprintf(os.Stderr, "dirctl-editor: %s is not set\n", samba.EditValueEnv)
		os.Exit(2)
	}
	if err := ldifedit.SetFile(os.Args[len(os.Args)-1], attr, value); err != nil {
		fmt.Fprintln(os.Stderr, "dirctl-editor:", err)
		os.Exit(1)
	}
}
