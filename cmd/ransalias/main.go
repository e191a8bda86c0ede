/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Command ransalias is the file-level driver for the rANS alias-table
// entropy codec: it reads a whole file, runs it through
// github.com/vovach777/ransalias/container, and writes the result.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kr/pretty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	ransalias "github.com/vovach777/ransalias"
	"github.com/vovach777/ransalias/container"
	"github.com/vovach777/ransalias/entropy"
)

const appHeader = "ransalias (c) Frederic Langlet"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("ransalias", flag.ContinueOnError)

	decode := fs.Bool("d", false, "decode (default: encode)")
	fs.BoolVar(decode, "decode", false, "decode (default: encode)")
	benchmark := fs.Bool("b", false, "benchmark: print elapsed time and throughput")
	fs.BoolVar(benchmark, "benchmark", false, "benchmark: print elapsed time and throughput")
	verbose := fs.Bool("v", false, "print frequency model statistics after encoding")
	scaleBits := fs.Uint("scale-bits", entropy.DefaultScaleBits, "P: log2 of the total probability mass (8..16)")
	interleave := fs.Int("k", 4, "number of interleaved coder streams (1, 2 or 4)")
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn, error")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, appHeader)
		fmt.Fprintln(os.Stderr, "usage: ransalias [-d|--decode] [-b|--benchmark] [-v] <input> [<output>]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 1
	}

	setupLogger(*logLevel)

	opts := ransalias.Options{ScaleBits: *scaleBits, Interleave: *interleave}

	rest := fs.Args()

	if len(rest) < 1 {
		fs.Usage()
		return 1
	}

	inputPath := rest[0]
	outputPath := ""

	if len(rest) >= 2 {
		outputPath = rest[1]
	}

	if outputPath == "" {
		outputPath = defaultOutputPath(inputPath, *decode)
	}

	if err := process(inputPath, outputPath, opts, *decode, *benchmark, *verbose); err != nil {
		log.Error().Err(err).Str("input", inputPath).Msg("processing failed")

		if removeErr := os.Remove(outputPath); removeErr != nil && !os.IsNotExist(removeErr) {
			log.Warn().Err(removeErr).Str("output", outputPath).Msg("failed to remove partial output")
		}

		return 1
	}

	return 0
}

// defaultOutputPath applies the suffix convention: ".rans" appended
// when encoding, stripped (or ".orig" appended if absent) when
// decoding.
func defaultOutputPath(inputPath string, decode bool) string {
	if !decode {
		return inputPath + ".rans"
	}

	if strings.HasSuffix(inputPath, ".rans") {
		return strings.TrimSuffix(inputPath, ".rans")
	}

	return inputPath + ".orig"
}

func process(inputPath, outputPath string, opts ransalias.Options, decode, bench, verbose bool) error {
	input, err := os.ReadFile(inputPath)

	if err != nil {
		return errors.Wrap(err, "read input")
	}

	start := time.Now()

	var output []byte

	if decode {
		output, err = container.Decode(input, opts)

		if err != nil {
			return errors.Wrap(err, "decode")
		}
	} else {
		var stats entropy.Stats
		output, stats, err = container.Encode(input, opts)

		if err != nil {
			return errors.Wrap(err, "encode")
		}

		if verbose {
			pretty.Println(stats)
		}
	}

	elapsed := time.Since(start)

	if err := os.WriteFile(outputPath, output, 0644); err != nil {
		return errors.Wrap(err, "write output")
	}

	if bench {
		mb := float64(len(input)) / 1e6
		log.Info().
			Str("input", inputPath).
			Str("output", outputPath).
			Int("inputBytes", len(input)).
			Int("outputBytes", len(output)).
			Dur("elapsed", elapsed).
			Float64("mbPerSec", mb/elapsed.Seconds()).
			Msg("done")
	}

	return nil
}

func setupLogger(levelStr string) {
	zerolog.MessageFieldName = "message"
	zerolog.LevelFieldName = "level"

	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))

	if err != nil {
		level = zerolog.InfoLevel
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
