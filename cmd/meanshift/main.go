// Command meanshift segments an image and writes the segmented rendering.
//
//	meanshift -input in.png -output seg.png [-snapshot run.mseg] [-config cfg.yaml]
//
// Settings come from the optional YAML config, then .env, then MEANSHIFT_*
// environment variables.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hupe1980/meanshift"
	"github.com/hupe1980/meanshift/blobstore"
	"github.com/hupe1980/meanshift/blobstore/minio"
	"github.com/hupe1980/meanshift/blobstore/s3"
	"github.com/hupe1980/meanshift/imaging"
	"github.com/hupe1980/meanshift/internal/config"
	"github.com/hupe1980/meanshift/persistence"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	input    string
	output   string
	snapshot string
	config   string
	envFile  string
	version  bool
}

func parseFlags(args []string, stderr io.Writer) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("meanshift", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.input, "input", "", "Input image (png, jpeg, gif, bmp, tiff, webp)")
	fs.StringVar(&f.output, "output", "segmented.png", "Output image; format follows the extension")
	fs.StringVar(&f.snapshot, "snapshot", "", "Blob name for the segmentation snapshot (requires a storage backend)")
	fs.StringVar(&f.config, "config", "", "Path to YAML configuration file")
	fs.StringVar(&f.envFile, "env", ".env", "Path to .env file with MEANSHIFT_* overrides")
	fs.BoolVar(&f.version, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return flags{}, err
	}
	if !f.version && f.input == "" {
		fs.Usage()
		return flags{}, errors.New("-input is required")
	}
	return f, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	f, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}
	if f.version {
		fmt.Fprintf(stdout, "meanshift version: %s\n", Version)
		return nil
	}

	if err := config.LoadEnvFiles(f.envFile); err != nil {
		return err
	}
	cfg, err := config.Load(f.config)
	if err != nil {
		return err
	}
	logger := cfg.Logger()

	// Reject unusable outputs before any work is done.
	outFormat, err := imaging.OutputFormatFromPath(f.output)
	if err != nil {
		return err
	}
	var store blobstore.BlobStore
	if f.snapshot != "" {
		store, err = openStore(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		if store == nil {
			return errors.New("-snapshot needs storage.backend other than none")
		}
	}

	img, format, err := readImage(f.input)
	if err != nil {
		return err
	}
	small := imaging.Downsample(img, cfg.Image.MaxPixels)
	width, height := small.Bounds().Dx(), small.Bounds().Dy()
	logger.InfoContext(ctx, "image loaded",
		"path", f.input,
		"format", format,
		"width", width,
		"height", height,
		"downsampled", width != img.Bounds().Dx())

	fs, err := imaging.Extract(small, cfg.Image.Dimension)
	if err != nil {
		return err
	}

	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	eng, err := meanshift.New(opts...)
	if err != nil {
		return err
	}

	start := time.Now()
	segments, err := eng.Segment(ctx, fs)
	if err != nil {
		return err
	}
	if err := eng.NonConvergence(); err != nil {
		logger.WarnContext(ctx, "result contains unconverged modes", "error", err)
	}

	out, err := imaging.Render(width, height, segments, eng.Maxima())
	if err != nil {
		return err
	}
	if err := writeImage(f.output, outFormat, out); err != nil {
		return err
	}

	if store != nil {
		if err := persistence.SaveToStore(ctx, store, f.snapshot, eng.Snapshot(), cfg.Compression()); err != nil {
			return err
		}
		logger.InfoContext(ctx, "snapshot stored", "backend", cfg.Storage.Backend, "name", f.snapshot)
	}

	st := eng.Stats()
	fmt.Fprintf(stdout, "%d points, %d segments, %d iterations, %d unconverged, %s\n",
		st.Points, st.Segments, st.TotalIterations, len(st.NonConverged), time.Since(start).Round(time.Millisecond))
	return nil
}

func readImage(path string) (image.Image, imaging.Format, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()
	return imaging.Decode(file)
}

func writeImage(path string, format imaging.Format, img image.Image) error {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// openStore returns nil for the "none" backend.
func openStore(ctx context.Context, st config.Storage) (blobstore.BlobStore, error) {
	switch st.Backend {
	case config.BackendLocal:
		return blobstore.NewLocalStore(st.Root), nil
	case config.BackendS3:
		opts := []s3.Option{s3.WithPrefix(st.Prefix)}
		if st.Region != "" {
			opts = append(opts, s3.WithRegion(st.Region))
		}
		if st.Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(st.Endpoint))
		}
		store, err := s3.New(ctx, st.Bucket, opts...)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendMinIO:
		store, err := minio.New(minio.Config{
			Endpoint:  st.Endpoint,
			AccessKey: st.AccessKey,
			SecretKey: st.SecretKey,
			Region:    st.Region,
			Secure:    st.Secure,
			Bucket:    st.Bucket,
			Prefix:    st.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, nil
}
