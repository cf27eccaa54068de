// Command walctl is the operator-facing CLI for the WAL sync boundary:
// compute a reference CRC-32C, dump a backend file's contents as JSON,
// or benchmark the ring/snapshot primitives directly from the command
// line.
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
	case "crc":
		err = runCRC(os.Args[2:])
	case "dump":
		err = runDump(os.Args[2:])
	case "bench":
		err = runBench(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "walctl: unknown subcommand %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "walctl: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: walctl <subcommand> [flags]

subcommands:
  crc    compute the CRC-32C of a file or stdin
  dump   replay a backend database and print its records as JSON
  bench  throughput-benchmark ring|mailbox|spmc`)
}
