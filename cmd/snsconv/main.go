/*
NAME
  main.go

DESCRIPTION
  snsconv is a command-line tool that converts a 16-bit PCM WAV file
  into the SNS or SON sound container used by the LyN game engine.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main implements the snsconv command-line tool.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/utils/logging"

	"github.com/lyn-tools/snsconv/convert"
	"github.com/lyn-tools/snsconv/convert/config"
)

// Current software version.
const version = "v1.0.0"

// Logging configuration.
const (
	logPath      = "snsconv.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = true
)

func main() {
	showVersion := flag.Bool("version", false, "show version")
	inPath := flag.String("in", "", "input WAV file path")
	outPath := flag.String("out", "", "output SNS/SON file path")
	refPath := flag.String("ref", "", "reference SNS path for beat harvest (extras=beats)")

	sampleRate := flag.Uint("rate", 0, "target sample rate, 0 = don't resample")
	forceMono := flag.Bool("mono", false, "downmix to mono before encoding")
	normalize := flag.Bool("normalize", false, "apply loudness normalisation before encoding")
	format := flag.String("format", "sns", "container format: sns or son")
	fourChannel := flag.Bool("four-channel", false, "duplicate stereo into 4 channels (SON only)")
	extras := flag.String("extras", "none", "extras: none, justdance, or beats")
	codec := flag.String("codec", "dsp", "payload codec: dsp or ogg")
	verbosity := flag.Int("verbosity", int(logVerbosity), "log verbosity (0=debug .. 4=fatal)")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(int8(*verbosity), io.MultiWriter(fileLog, os.Stderr), logSuppress)

	if *inPath == "" || *outPath == "" {
		log.Fatal("both -in and -out are required")
	}

	cfg, err := buildConfig(*sampleRate, *forceMono, *normalize, *format, *fourChannel, *extras, *codec, *refPath)
	if err != nil {
		log.Fatal("invalid configuration", "error", err.Error())
	}

	log.Info("starting snsconv", "version", version, "in", *inPath, "out", *outPath)

	if err := convert.Convert(*inPath, *outPath, cfg, log); err != nil {
		log.Fatal("conversion failed", "error", err.Error())
	}

	log.Info("conversion complete", "out", *outPath)
}

// buildConfig translates the command-line flags into a config.Config,
// rejecting unrecognised format/extras/codec names up front.
func buildConfig(sampleRate uint, forceMono, normalize bool, format string, fourChannel bool, extras, codec, refPath string) (config.Config, error) {
	cfg := config.Default()
	cfg.TargetSampleRate = uint32(sampleRate)
	cfg.ForceMono = forceMono
	cfg.Normalize = normalize
	cfg.FourChannel = fourChannel
	cfg.ReferenceSNSPath = refPath

	switch format {
	case "sns":
		cfg.Format = config.FormatSNS
	case "son":
		cfg.Format = config.FormatSON
	default:
		return cfg, fmt.Errorf("unrecognised format %q, want sns or son", format)
	}

	switch extras {
	case "none":
		cfg.Extras = config.ExtrasNone
	case "justdance":
		cfg.Extras = config.ExtrasJustDance
	case "beats":
		cfg.Extras = config.ExtrasCustomBeats
	default:
		return cfg, fmt.Errorf("unrecognised extras %q, want none, justdance, or beats", extras)
	}

	switch codec {
	case "dsp":
		cfg.Codec = config.CodecDSP
	case "ogg":
		cfg.Codec = config.CodecOGG
	default:
		return cfg, fmt.Errorf("unrecognised codec %q, want dsp or ogg", codec)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
