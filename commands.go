package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"

	"veil/config"
	"veil/local"
	"veil/stegano/img"
	stutil "veil/stegano/util"
	"veil/util"
)

type command func(args []string, out io.Writer) error

var commands = map[string]command{
	"hide":      runHide,
	"reveal":    runReveal,
	"capacity":  runCapacity,
	"check":     runCheck,
	"serve":     runServe,
	"genconfig": runGenConfig,
}

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Width(12)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	badStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: veil %s [arguments]\n\n%s", name, fs.FlagUsages())
	}
	return fs
}

func printField(out io.Writer, label, value string) {
	fmt.Fprintf(out, "%s%s\n", labelStyle.Render(label), value)
}

func loadCarrierFile(filename string) (*img.PixelBuffer, string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	return img.LoadCarrier(f)
}

func runHide(args []string, out io.Writer) error {
	fs := newFlagSet("hide")
	carrier := fs.StringP("carrier", "c", "", "image to hide the data in")
	message := fs.StringP("message", "m", "", "text message to hide")
	file := fs.StringP("file", "f", "", "file to hide")
	output := fs.StringP("output", "o", "", "where to write the result (default steg_<carrier>)")
	format := fs.String("format", img.DefaultOutputFormat, "output format for lossy carriers: png, bmp or tiff")
	compress := fs.Bool("compress", false, "compress the data with zstd before hiding it")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *carrier == "" {
		return errors.New("a carrier image is required (-c)")
	}
	if *message != "" && *file != "" {
		return errors.New("use either -m or -f, not both")
	}

	carrierData, err := os.ReadFile(*carrier)
	if err != nil {
		return err
	}

	var secret []byte
	switch {
	case *file != "":
		if secret, err = os.ReadFile(*file); err != nil {
			return err
		}
	case *message != "":
		secret = []byte(stutil.NormalizeMessage(*message))
	default:
		// piped input is hidden as is
		typed := util.StdinIsTerminal()
		if secret, err = util.ReadMessage("Message: "); err != nil {
			return err
		}
		if typed {
			secret = []byte(stutil.NormalizeMessage(string(secret)))
		}
	}
	if len(secret) == 0 {
		return errors.New("nothing to hide")
	}
	if *compress {
		if _, secret, err = util.Compress(secret); err != nil {
			return err
		}
	}

	stego, outFormat, err := img.Hide(carrierData, secret, *format)
	if err != nil {
		return err
	}
	if *output == "" {
		*output = util.OutputName(*carrier, "steg_", outFormat)
	}
	if err = os.WriteFile(*output, stego, 0644); err != nil {
		return err
	}

	fmt.Fprintf(out, "hid %s in %s\n", util.HumanSize(uint64(len(secret))), *output)
	util.DebugPrintln("payload digest:", util.Digest(secret))
	return nil
}

func runReveal(args []string, out io.Writer) error {
	fs := newFlagSet("reveal")
	carrier := fs.StringP("carrier", "c", "", "image holding the hidden data")
	output := fs.StringP("output", "o", "", "where to write the data (text is printed when omitted)")
	decompress := fs.Bool("decompress", false, "decompress data that was hidden with --compress")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *carrier == "" {
		return errors.New("a stego image is required (-c)")
	}

	data, err := os.ReadFile(*carrier)
	if err != nil {
		return err
	}
	payload, err := img.Reveal(data)
	if err != nil {
		return err
	}
	if *decompress {
		if payload, err = local.ExpandPayload(payload, util.MaxDecompressedSize); err != nil {
			return err
		}
	}

	if *output == "" && payload.Kind == img.KindText {
		fmt.Fprintln(out, payload.Text)
		return nil
	}
	if *output == "" {
		*output = util.OutputName(*carrier, "revealed_", payload.Extension())
	}
	if err = os.WriteFile(*output, payload.Bytes, 0644); err != nil {
		return err
	}
	fmt.Fprintf(out, "extracted %s (%s) to %s\n", util.HumanSize(uint64(len(payload.Bytes))), payload.Kind, *output)
	fmt.Fprintf(out, "blake3 %s\n", util.Digest(payload.Bytes))
	return nil
}

func runCapacity(args []string, out io.Writer) error {
	fs := newFlagSet("capacity")
	carrier := fs.StringP("carrier", "c", "", "image to analyze")
	file := fs.StringP("file", "f", "", "file that would be hidden")
	size := fs.Uint64P("size", "s", 0, "size in bytes of the data that would be hidden")
	compress := fs.Bool("compress", false, "measure the file after zstd compression")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *carrier == "" {
		return errors.New("a carrier image is required (-c)")
	}

	pb, format, err := loadCarrierFile(*carrier)
	if err != nil {
		return err
	}
	if *file != "" {
		secret, err := os.ReadFile(*file)
		if err != nil {
			return err
		}
		if *compress {
			if _, secret, err = util.Compress(secret); err != nil {
				return err
			}
		}
		*size = uint64(len(secret))
	}

	report := img.Analyze(pb, *size)
	printField(out, "Carrier", fmt.Sprintf("%s (%dx%d %s)", *carrier, pb.Width, pb.Height, format))
	printField(out, "Capacity", util.HumanSize(report.CarrierCapacityBytes))
	if *size == 0 {
		return nil
	}
	printField(out, "Secret", util.HumanSize(*size))
	printField(out, "Usage", fmt.Sprintf("%.2f%%", report.UsagePercent))
	if report.CanEncode {
		printField(out, "Free", util.HumanSize(report.BytesAvailable()))
		fmt.Fprintln(out, okStyle.Render(report.Recommendation()))
	} else {
		fmt.Fprintln(out, badStyle.Render(report.Recommendation()))
	}
	return nil
}

func runCheck(args []string, out io.Writer) error {
	fs := newFlagSet("check")
	carrier := fs.StringP("carrier", "c", "", "image to inspect")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *carrier == "" {
		return errors.New("an image is required (-c)")
	}

	pb, _, err := loadCarrierFile(*carrier)
	if err != nil {
		return err
	}
	info, err := img.Peek(pb)
	switch {
	case err == nil:
		fmt.Fprintf(out, "hidden data found: %s of %s capacity\n",
			util.HumanSize(info.Length), util.HumanSize(info.MaxCapacity))
	case errors.Is(err, img.ErrNoHiddenData):
		fmt.Fprintln(out, "no hidden data found")
	case errors.Is(err, img.ErrCorruptHeader):
		fmt.Fprintf(out, "no hidden data found (%v)\n", err)
	default:
		return err
	}
	return nil
}

func runServe(args []string, out io.Writer) error {
	fs := newFlagSet("serve")
	configFile := fs.String("config", "", "YAML configuration file")
	address := fs.String("address", "", "listen address, overrides the configuration")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return local.RunLocalServer(*configFile, *address)
}

func runGenConfig(args []string, out io.Writer) error {
	fs := newFlagSet("genconfig")
	force := fs.Bool("force", false, "overwrite an existing file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	filename := ConfigFilename
	if fs.NArg() > 0 {
		filename = fs.Arg(0)
	}
	if _, err := os.Stat(filename); err == nil && !*force {
		return fmt.Errorf("%s already exists, use --force to overwrite it", filename)
	}
	if err := config.SaveConfig(filename, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Fprintf(out, "configuration written to %s\n", filename)
	return nil
}
