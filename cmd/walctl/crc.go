package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/UglyPusher/Cncl-RT-WAL/crc32c"
)

func runCRC(args []string) error {
	fs := flag.NewFlagSet("crc", flag.ExitOnError)
	path := fs.String("file", "", "path to checksum; defaults to stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var r io.Reader = os.Stdin
	if *path != "" {
		f, err := os.Open(*path)
		if err != nil {
			return fmt.Errorf("open %s: %w", *path, err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	fmt.Printf("%08x\n", crc32c.Checksum(data, 0))
	return nil
}
