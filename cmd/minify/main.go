package main

import (
	"fmt"
	"log"
	"os"

	"github.com/woozymasta/neairports/assets"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Output string `short:"o" long:"out"   description:"Output file path" default:"assets/index.html"`
	Title  string `short:"t" long:"title" description:"Page title"       default:"New England Airports Explorer"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	page, err := assets.Render(opts.Title)
	if err != nil {
		log.Fatal("error render page:", err)
	}

	err = os.WriteFile(opts.Output, page, 0644)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("minify done: %s (%d bytes)\n", opts.Output, len(page))
}
