package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	steg "github.com/alza54/find-web-session-challenge"
	"github.com/alza54/find-web-session-challenge/imgio"
	"github.com/alza54/find-web-session-challenge/internal/config"
	"github.com/alza54/find-web-session-challenge/internal/parallel"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func codecFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "alpha",
			Aliases: []string{"a"},
			Usage:   "hide bits in the alpha channel too",
		},
		&cli.BoolFlag{
			Name:  "skip-white",
			Usage: "leave pure white pixels untouched (default true, disable with --skip-white=false)",
		},
		&cli.BoolFlag{
			Name:  "skip-black",
			Usage: "leave pure black pixels untouched",
		},
		&cli.BoolFlag{
			Name:  "fail-soft",
			Usage: "log encoding mismatches and bad headers instead of failing (default true)",
		},
		&cli.BoolFlag{
			Name:  "native-utf16",
			Usage: "write UTF-16 messages as real UTF-16 code units",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "trace every channel read or written",
		},
	}
}

// settings loads the settings file, if any, and applies the flags given on the command line on top of it.
func settings(c *cli.Context) (config.Settings, error) {
	s := config.Default()
	if path := c.String("config"); len(path) > 0 {
		var err error
		if s, err = config.Load(path); err != nil {
			return config.Settings{}, err
		}
	}

	overrides := []struct {
		flag string
		dst  *bool
	}{
		{"alpha", &s.Codec.IncludeAlpha},
		{"skip-white", &s.Codec.SkipWhite},
		{"skip-black", &s.Codec.SkipBlack},
		{"fail-soft", &s.Codec.FailSoft},
		{"native-utf16", &s.Codec.NativeUTF16},
		{"verbose", &s.Codec.Verbose},
	}
	for _, o := range overrides {
		if c.IsSet(o.flag) {
			*o.dst = c.Bool(o.flag)
		}
	}
	if c.IsSet("workers") {
		s.Workers = c.Int("workers")
	}
	return s, nil
}

// newLogger reports progress at Info, and adds the per-channel trace with --verbose.
func newLogger(w io.Writer, cfg steg.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newApp builds the CLI. Messages not given with --message are read from stdin.
func newApp(stdin io.Reader) *cli.App {
	app := cli.NewApp()

	app.Name = "steg"
	app.Usage = "Hide text in the least-significant bits of an image"
	app.Version = steg.Version()
	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			EnvVars: []string{"STEG_CONFIG"},
			Usage:   "path to a YAML settings file",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "encode",
			Aliases:   []string{"hide"},
			Usage:     "Hide a message in an image",
			ArgsUsage: "IMAGE",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:    "message",
					Aliases: []string{"m"},
					Usage:   "the message to hide, read from stdin if not given",
				},
				&cli.StringFlag{
					Name:    "out",
					Aliases: []string{"o"},
					Usage:   "path to write the encoded image to (.png, .bmp or .tiff)",
				},
				&cli.StringFlag{
					Name:  "encoding",
					Usage: "fail unless the message needs this encoding (ascii, utf8, utf16 or utf32)",
				},
			}, codecFlags()...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					return cli.NewExitError("an IMAGE is required", 1)
				}

				s, err := settings(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				msg := c.String("message")
				if !c.IsSet("message") {
					b, err := io.ReadAll(stdin)
					if err != nil {
						return cli.NewExitError(err, 1)
					}
					msg = strings.TrimSuffix(string(b), "\n")
				}

				hc := &steg.HideConfig{
					ImagePath: c.Args().First(),
					Message:   msg,
					OutPath:   c.String("out"),
					Codec:     s.Codec,
				}
				if name := c.String("encoding"); len(name) > 0 {
					if hc.Encoding = steg.StringToEncoding(name); hc.Encoding == steg.EncodingUnknown {
						return cli.NewExitError(fmt.Sprintf("unknown encoding %q", name), 1)
					}
				}

				if err := steg.Hide(hc, newLogger(c.App.ErrWriter, s.Codec)); err != nil {
					return cli.NewExitError(err, 1)
				}
				return nil
			},
		},
		{
			Name:      "decode",
			Aliases:   []string{"dig"},
			Usage:     "Read the messages hidden in one or more images",
			ArgsUsage: "IMAGE...",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:    "out",
					Aliases: []string{"o"},
					Usage:   "path to write the message to, with a single IMAGE",
				},
				&cli.IntFlag{
					Name:    "workers",
					Aliases: []string{"j"},
					Usage:   "number of images to decode at once (default one per CPU)",
				},
			}, codecFlags()...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					return cli.NewExitError("at least one IMAGE is required", 1)
				}
				if c.NArg() > 1 && c.IsSet("out") {
					return cli.NewExitError("--out needs a single IMAGE", 1)
				}

				s, err := settings(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				logger := newLogger(c.App.ErrWriter, s.Codec)

				paths := c.Args().Slice()
				msgs := make([]string, len(paths))
				errs := make([]error, len(paths))
				parallel.Each(s.Workers, len(paths), func(i int) {
					msgs[i], errs[i] = steg.Dig(steg.DigConfig{
						ImagePath: paths[i],
						OutPath:   c.String("out"),
						Codec:     s.Codec,
					}, logger.With("image", paths[i]))
				})

				failed := 0
				for i, path := range paths {
					switch {
					case errs[i] != nil:
						failed++
						fmt.Fprintf(c.App.ErrWriter, "%v: %v\n", path, errs[i])
					case len(paths) == 1:
						fmt.Fprintln(c.App.Writer, msgs[i])
					default:
						fmt.Fprintf(c.App.Writer, "%v: %v\n", path, msgs[i])
					}
				}
				if failed > 0 {
					return cli.NewExitError(fmt.Sprintf("%d of %d images could not be decoded", failed, len(paths)), 1)
				}
				return nil
			},
		},
		{
			Name:      "capacity",
			Usage:     "Report how many bits an image can hold",
			ArgsUsage: "IMAGE",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:    "message",
					Aliases: []string{"m"},
					Usage:   "also report whether this message fits",
				},
			}, codecFlags()...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					return cli.NewExitError("an IMAGE is required", 1)
				}

				s, err := settings(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				img, info, err := imgio.LoadImage(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				capacity := steg.Capacity(img, s.Codec)
				slots := steg.EligibleSlots(img, s.Codec)
				fmt.Fprintf(c.App.Writer, "%dx%d %v (%v)\n", info.W, info.H, info.Format, info.Model)
				fmt.Fprintf(c.App.Writer, "capacity: %d bits\neligible: %d bits\n", capacity, slots)

				if c.IsSet("message") {
					need, err := steg.FramedBits(c.String("message"), s.Codec.NativeUTF16)
					if err != nil {
						return cli.NewExitError(err, 1)
					}
					enc, _ := steg.SelectEncoding(c.String("message"))
					fits := need <= capacity && need <= slots
					fmt.Fprintf(c.App.Writer, "message: %d bits as %v, fits: %v\n", need, enc, fits)
				}
				return nil
			},
		},
	}

	return app
}

// Program entry point

func main() {
	if err := newApp(os.Stdin).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
