package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/llehouerou/go-aacenc"
)

// options holds the command line settings after the preset is merged.
type options struct {
	Output    string
	BitRate   int // kbps per channel, 0 selects quality mode
	Quality   int
	Bandwidth int
	MPEG      int
	Profile   string
	Joint     string
	TNS       bool
	PNS       int
	ShortCtl  string
	Raw       bool
	Preset    string
	Jobs      int
	LogLevel  string
	Stats     bool
}

func defaultOptions() options {
	return options{
		Quality:  aacenc.DefaultQuantQual,
		MPEG:     4,
		Profile:  "lc",
		Joint:    "ms",
		PNS:      aacenc.DefaultPNSLevel,
		ShortCtl: "normal",
		Jobs:     1,
		LogLevel: "info",
	}
}

// newFlagSet registers the flags on o.
func newFlagSet(o *options, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("aacenc", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&o.Output, "o", o.Output, "output file, or directory for several inputs")
	fs.IntVar(&o.BitRate, "b", o.BitRate, "bit rate in kbps per channel (0 selects quality mode)")
	fs.IntVar(&o.Quality, "q", o.Quality, "quality mode quantizer quality, 10..5000")
	fs.IntVar(&o.Bandwidth, "c", o.Bandwidth, "bandwidth in Hz (0 selects automatic)")
	fs.IntVar(&o.MPEG, "mpeg", o.MPEG, "MPEG version: 2 or 4")
	fs.StringVar(&o.Profile, "profile", o.Profile, "object type: lc, main or ltp")
	fs.StringVar(&o.Joint, "joint", o.Joint, "stereo coding: none, ms or is")
	fs.BoolVar(&o.TNS, "tns", o.TNS, "enable temporal noise shaping")
	fs.IntVar(&o.PNS, "pns", o.PNS, "perceptual noise substitution level, 0..10")
	fs.StringVar(&o.ShortCtl, "shortctl", o.ShortCtl, "block switching: normal, noshort or nolong")
	fs.BoolVar(&o.Raw, "raw", o.Raw, "write raw access units in LOAS frames instead of ADTS frames")
	fs.StringVar(&o.Preset, "preset", o.Preset, "YAML preset file; explicit flags override it")
	fs.IntVar(&o.Jobs, "j", o.Jobs, "number of files encoded in parallel")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "log level: debug, info, warn or error")
	fs.BoolVar(&o.Stats, "stats", o.Stats, "log a metrics summary when done")
	return fs
}

// preset is the YAML preset file. Absent keys keep the option defaults.
type preset struct {
	BitRate   *int    `yaml:"bitrate"`
	Quality   *int    `yaml:"quality"`
	Bandwidth *int    `yaml:"bandwidth"`
	MPEG      *int    `yaml:"mpeg"`
	Profile   *string `yaml:"profile"`
	Joint     *string `yaml:"joint"`
	TNS       *bool   `yaml:"tns"`
	PNS       *int    `yaml:"pns"`
	ShortCtl  *string `yaml:"shortctl"`
	Raw       *bool   `yaml:"raw"`
}

// loadPreset reads the preset file at path.
func loadPreset(path string) (*preset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("preset: open %q: %w", path, err)
	}
	defer f.Close()

	p, err := decodePreset(f)
	if err != nil {
		return nil, fmt.Errorf("preset: parse %q: %w", path, err)
	}
	return p, nil
}

// decodePreset decodes a YAML preset from r. Unknown keys are errors.
func decodePreset(r io.Reader) (*preset, error) {
	p := &preset{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return p, nil
}

// apply copies the preset values into o, except for the flags named in
// set, which were given explicitly.
func (p *preset) apply(o *options, set map[string]bool) {
	setInt := func(name string, dst *int, v *int) {
		if v != nil && !set[name] {
			*dst = *v
		}
	}
	setString := func(name string, dst *string, v *string) {
		if v != nil && !set[name] {
			*dst = *v
		}
	}
	setBool := func(name string, dst *bool, v *bool) {
		if v != nil && !set[name] {
			*dst = *v
		}
	}
	setInt("b", &o.BitRate, p.BitRate)
	setInt("q", &o.Quality, p.Quality)
	setInt("c", &o.Bandwidth, p.Bandwidth)
	setInt("mpeg", &o.MPEG, p.MPEG)
	setString("profile", &o.Profile, p.Profile)
	setString("joint", &o.Joint, p.Joint)
	setBool("tns", &o.TNS, p.TNS)
	setInt("pns", &o.PNS, p.PNS)
	setString("shortctl", &o.ShortCtl, p.ShortCtl)
	setBool("raw", &o.Raw, p.Raw)
}

var (
	profiles = map[string]aacenc.ObjectType{
		"lc":   aacenc.ObjectTypeLC,
		"main": aacenc.ObjectTypeMain,
		"ltp":  aacenc.ObjectTypeLTP,
	}
	jointModes = map[string]aacenc.JointMode{
		"none": aacenc.JointNone,
		"ms":   aacenc.JointMS,
		"is":   aacenc.JointIS,
	}
	shortCtls = map[string]aacenc.ShortCtl{
		"normal":  aacenc.ShortCtlNormal,
		"noshort": aacenc.ShortCtlNoShort,
		"nolong":  aacenc.ShortCtlNoLong,
	}
)

// validate checks o and returns every problem joined. Limits that depend
// on the input, such as the bit rate range, are left to the encoder.
func (o *options) validate() error {
	var errs []error
	if o.BitRate < 0 {
		errs = append(errs, fmt.Errorf("bit rate %d kbps is negative", o.BitRate))
	}
	if o.Quality < aacenc.MinQuantQual || o.Quality > aacenc.MaxQuantQual {
		errs = append(errs, fmt.Errorf("quality %d is out of range [%d, %d]", o.Quality, aacenc.MinQuantQual, aacenc.MaxQuantQual))
	}
	if o.Bandwidth < 0 {
		errs = append(errs, fmt.Errorf("bandwidth %d Hz is negative", o.Bandwidth))
	}
	if o.MPEG != 2 && o.MPEG != 4 {
		errs = append(errs, fmt.Errorf("mpeg version %d is invalid; valid values: 2, 4", o.MPEG))
	}
	if _, ok := profiles[o.Profile]; !ok {
		errs = append(errs, fmt.Errorf("profile %q is invalid; valid values: lc, main, ltp", o.Profile))
	}
	if _, ok := jointModes[o.Joint]; !ok {
		errs = append(errs, fmt.Errorf("joint %q is invalid; valid values: none, ms, is", o.Joint))
	}
	if o.PNS < 0 || o.PNS > aacenc.MaxPNSLevel {
		errs = append(errs, fmt.Errorf("pns level %d is out of range [0, %d]", o.PNS, aacenc.MaxPNSLevel))
	}
	if _, ok := shortCtls[o.ShortCtl]; !ok {
		errs = append(errs, fmt.Errorf("shortctl %q is invalid; valid values: normal, noshort, nolong", o.ShortCtl))
	}
	if o.Jobs < 1 {
		errs = append(errs, fmt.Errorf("jobs %d must be at least 1", o.Jobs))
	}
	return errors.Join(errs...)
}

// configure sets the encoder configuration fields o controls.
func (o *options) configure(cfg *aacenc.Configuration, format aacenc.InputFormat) {
	cfg.BitRate = o.BitRate * 1000
	cfg.QuantQual = o.Quality
	cfg.BandWidth = o.Bandwidth
	cfg.MPEGVersion = aacenc.MPEG4
	if o.MPEG == 2 {
		cfg.MPEGVersion = aacenc.MPEG2
	}
	cfg.ObjectType = profiles[o.Profile]
	cfg.JointMode = jointModes[o.Joint]
	cfg.AllowMidSide = cfg.JointMode == aacenc.JointMS
	cfg.UseTNS = o.TNS
	cfg.PNSLevel = o.PNS
	cfg.ShortCtl = shortCtls[o.ShortCtl]
	cfg.OutputFormat = aacenc.OutputADTS
	if o.Raw {
		cfg.OutputFormat = aacenc.OutputRaw
	}
	cfg.InputFormat = format
}
