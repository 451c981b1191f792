// Command tw is a short alias that execs taskweave with the same arguments.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

func main() {
	bin, err := exec.LookPath("taskweave")
	if err != nil {
		fmt.Fprintln(os.Stderr, "tw: taskweave not found on PATH")
		os.Exit(1)
	}
	if err := syscall.Exec(bin, append([]string{"taskweave"}, os.Args[1:]...), os.Environ()); err != nil {
		fmt.Fprintf(os.Stderr, "tw: %v\n", err)
		os.Exit(1)
	}
}
