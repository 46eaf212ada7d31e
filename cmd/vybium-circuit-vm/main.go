// Command vybium-circuit-vm parses, encodes, stores and runs circuit programs.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tebeka/atexit"
	"go.brendoncarroll.net/star"

	vybiumcircuitvm "github.com/vybium/vybium-circuit-vm/pkg/vybium-circuit-vm"
)

const envPrefix = "VYBIUM_CIRCUIT_VM_"

// exit status for a program that halted, as opposed to a usage or I/O failure
const exitHalted = 2

func main() {
	stdin := bufio.NewReader(os.Stdin)
	stdout := bufio.NewWriter(os.Stdout)
	stderr := bufio.NewWriter(os.Stderr)
	// atexit.Exit runs the handlers registered by setup on every path
	atexit.Exit(execute(context.Background(), os.Args, stdin, stdout, stderr))
}

// execute runs the command line in args and returns the exit status
func execute(ctx context.Context, args []string, stdin *bufio.Reader, stdout, stderr *bufio.Writer) int {
	calledAs := filepath.Base(args[0])
	err := star.Run(ctx, root, star.OSEnv(envPrefix), calledAs, args[1:], stdin, stdout, stderr)
	if err == nil {
		return 0
	}
	defer stderr.Flush()
	if errors.Is(err, &vybiumcircuitvm.VMError{Code: vybiumcircuitvm.ErrHalt}) {
		fmt.Fprintf(stderr, "program halted: %v\n", err)
		return exitHalted
	}
	fmt.Fprintf(stderr, "%v\n", err)
	return 1
}
