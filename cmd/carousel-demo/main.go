// Command carousel-demo runs an infinitely looping card carousel in the
// terminal.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/go-drift/carousel/cmd/carousel-demo/internal/app"
	"github.com/go-drift/carousel/cmd/carousel-demo/internal/config"
	"github.com/go-drift/carousel/pkg/errors"
)

func main() {
	configPath := flag.String("config", config.FileName, "path to the optional config file")
	runtime := flag.String("runtime", "", "host runtime version; below 18 uses polled scroll phases")
	logPath := flag.String("log", "carousel-demo.log", "error log file")
	verbose := flag.Bool("verbose", false, "include stack traces in the error log")
	flag.Parse()

	os.Exit(run(*configPath, *runtime, *logPath, *verbose))
}

func run(configPath, runtime, logPath string, verbose bool) int {
	// The terminal belongs to the UI, so errors go to a file.
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
	} else {
		defer logFile.Close()
		errors.SetHandler(&errors.LogHandler{Out: logFile, Verbose: verbose})
	}

	fail := func(op string, err error) int {
		errors.Report(errors.Classify(op, err))
		// Without a log file the default handler already wrote to stderr.
		if logFile != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}

	cfg, err := config.Resolve(configPath, runtime)
	if err != nil {
		return fail("carousel-demo.config", err)
	}

	m, err := app.New(cfg)
	if err != nil {
		return fail("carousel-demo.init", err)
	}
	defer m.Shutdown()

	p := tea.NewProgram(m)
	m.SetMsgSender(p.Send)

	if _, err := p.Run(); err != nil {
		return fail("carousel-demo.run", err)
	}
	return 0
}
