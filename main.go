package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aryanA101a/lulu/vm"
)

func main() {
	var trace string
	var input string
	var canonical bool

	flag.StringVar(&trace, "trace", "", "write an instruction trace to `file`")
	flag.StringVar(&input, "input", "", "read keyboard input from `file` instead of the terminal")
	flag.BoolVar(&canonical, "canonical", false, "NOT/LD/LDR set condition flags and JSR/JSRR save R7")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "lc3 [flags] [image-file1] ...")
		flag.PrintDefaults()
	}
	flag.Parse()

	fatal := log.New(os.Stderr, "lc3: ", 0)

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	log.SetOutput(io.Discard)
	if trace != "" {
		f, err := os.OpenFile(trace, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
		if err != nil {
			fatal.Fatalf("error opening file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
		log.SetFlags(log.Lmicroseconds)
	}

	terminal := vm.OpenTerminal(os.Stdin)
	var keyboard vm.Keyboard = terminal
	if input != "" {
		f, err := os.Open(input)
		if err != nil {
			fatal.Fatalf("%v", err)
		}
		defer f.Close()
		keyboard = vm.NewReaderKeyboard(f)
	}

	display := bufio.NewWriter(os.Stdout)
	machine := vm.NewVM(keyboard, display)
	machine.Canonical = canonical
	machine.Verbose = trace != ""
	machine.Logger = log.Default()

	for _, arg := range flag.Args() {
		if err := machine.LoadImageFile(arg); err != nil {
			fatal.Fatalf("failed to load image: %v", err)
		}
	}

	if err := terminal.EnableRawMode(); err != nil {
		fatal.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var restore sync.Once
	interrupted := func() {
		restore.Do(func() {
			terminal.DisableRawMode()
			fmt.Println()
			os.Exit(130)
		})
	}

	// GETC and IN block on the keyboard, so an interrupt cannot wait for Run.
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			select {
			case <-done:
			default:
				interrupted()
			}
		case <-done:
		}
	}()

	err := machine.Run(ctx)
	close(done)
	if errors.Is(err, context.Canceled) {
		interrupted()
	}

	display.Flush()
	terminal.DisableRawMode()

	if err != nil {
		fatal.Fatalf("%v", err)
	}
}
