package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/tinyfat/fat12"
)

// main is a small demo to play with fat12: open an image, list the root
// directory, then read and print a named file.
func main() {
	argsWithoutProg := os.Args[1:]
	if len(argsWithoutProg) < 1 {
		fmt.Println("Please provide a FAT12 image filename.")
		os.Exit(1)
	}

	imageFile, err := os.Open(argsWithoutProg[0])
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer imageFile.Close()

	device, err := fat12.OpenDevice(imageFile)
	if err != nil {
		fmt.Println("could not open the device:", err)
		os.Exit(1)
	}

	volume, err := fat12.Open(device, 0)
	if err != nil {
		fmt.Println("could not open the volume:", err)
		os.Exit(1)
	}
	defer volume.Close()

	dir, err := volume.OpenRoot()
	if err != nil {
		fmt.Println("could not read the root directory:", err)
		os.Exit(1)
	}
	defer dir.Close()

	fmt.Println("Root directory:")
	for {
		entry, ok := dir.Next()
		if !ok {
			break
		}
		fmt.Printf("  %-12s %10s bytes\n", entry.Name, humanize.Comma(int64(entry.Size)))
	}

	if len(argsWithoutProg) < 2 {
		return
	}

	file, err := volume.OpenFile(argsWithoutProg[1])
	if err != nil {
		fmt.Println("could not open the file:", err)
		os.Exit(1)
	}
	defer file.Close()

	buf := make([]byte, file.Size())
	n, err := file.Read(buf)
	fmt.Printf("\nread %d of %d bytes of %s\n", n, file.Size(), argsWithoutProg[1])
	if err != nil && !errors.Is(err, io.EOF) {
		fmt.Println("error while reading:", err)
		os.Exit(1)
	}
	fmt.Println(string(buf[:n]))
}
