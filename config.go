package aacenc

import (
	"errors"
	"fmt"

	"github.com/llehouerou/go-aacenc/internal/psy"
)

// Configuration limits.
const (
	MinQuantQual     = 10
	MaxQuantQual     = 5000
	DefaultQuantQual = 100
	MaxPNSLevel      = 10
	DefaultPNSLevel  = 4

	minBitRate = 8000 // Per channel
)

// Automatic bandwidth.
const (
	bandwidthBase    = 3000 // Hz at zero bit rate
	bandwidthPerRate = 0.25 // Hz per bit per second and channel
	qualityBase      = 5000
	qualityPerQual   = 150
	maxAutoBandwidth = 20000
	lfeBandwidth     = 240
)

func psyModelList() []PsyModelInfo {
	list := make([]PsyModelInfo, len(psy.Names))
	for i, n := range psy.Names {
		list[i] = PsyModelInfo{Name: n}
	}
	return list
}

// defaultConfiguration returns the configuration of a freshly opened
// session.
func defaultConfiguration(channels int) Configuration {
	cfg := Configuration{
		Version:      ConfigVersion,
		Name:         LibraryID,
		Copyright:    Copyright,
		MPEGVersion:  MPEG4,
		ObjectType:   ObjectTypeLC,
		JointMode:    JointMS,
		AllowMidSide: true,
		UseLFE:       channels == 6,
		BitRate:      0,
		QuantQual:    DefaultQuantQual,
		OutputFormat: OutputADTS,
		PsyModels:    psyModelList(),
		PsyModelIdx:  psy.ModelTonal,
		InputFormat:  InputFormat16Bit,
		ShortCtl:     ShortCtlNormal,
		ChannelMap:   make([]int, channels),
		PNSLevel:     DefaultPNSLevel,
	}
	for i := range cfg.ChannelMap {
		cfg.ChannelMap[i] = i
	}
	return cfg
}

// validate checks every field of cfg for a session at sampleRate with the
// given channel count and returns all problems joined.
func validate(cfg *Configuration, sampleRate, channels int) error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if cfg.Version != ConfigVersion {
		bad("version %d, want %d", cfg.Version, ConfigVersion)
	}
	if cfg.MPEGVersion != MPEG4 && cfg.MPEGVersion != MPEG2 {
		bad("mpeg version %d out of range", cfg.MPEGVersion)
	}
	switch cfg.ObjectType {
	case ObjectTypeMain, ObjectTypeLC:
	case ObjectTypeLTP:
		if cfg.MPEGVersion == MPEG2 {
			bad("LTP object type requires MPEG-4")
		}
	case ObjectTypeSSR:
		bad("SSR object type not supported")
	default:
		bad("object type %d out of range", cfg.ObjectType)
	}
	if cfg.JointMode < JointNone || cfg.JointMode > JointIS {
		bad("joint mode %d out of range", cfg.JointMode)
	}

	if cfg.BitRate != 0 {
		lo, hi := max(minBitRate, sampleRate/4), 6*sampleRate
		if cfg.BitRate < lo || cfg.BitRate > hi {
			bad("bit rate %d outside [%d, %d] per channel", cfg.BitRate, lo, hi)
		}
	}
	if cfg.BandWidth < 0 || cfg.BandWidth > sampleRate/2 {
		bad("bandwidth %d Hz outside [0, %d]", cfg.BandWidth, sampleRate/2)
	}
	if cfg.QuantQual < MinQuantQual || cfg.QuantQual > MaxQuantQual {
		bad("quantizer quality %d outside [%d, %d]", cfg.QuantQual, MinQuantQual, MaxQuantQual)
	}
	if cfg.OutputFormat != OutputRaw && cfg.OutputFormat != OutputADTS {
		bad("output format %d out of range", cfg.OutputFormat)
	}
	if cfg.PsyModelIdx < 0 || cfg.PsyModelIdx >= len(psy.Names) {
		bad("psychoacoustic model %d out of range", cfg.PsyModelIdx)
	}
	switch cfg.InputFormat {
	case InputFormat16Bit, InputFormat24Bit, InputFormat32Bit, InputFormatFloat:
	case InputFormatNull:
		bad("input format not set")
	default:
		bad("input format %d out of range", cfg.InputFormat)
	}
	if cfg.ShortCtl < ShortCtlNormal || cfg.ShortCtl > ShortCtlNoLong {
		bad("short block control %d out of range", cfg.ShortCtl)
	}
	if err := validateChannelMap(cfg.ChannelMap, channels); err != nil {
		errs = append(errs, err)
	}
	if cfg.PNSLevel < 0 || cfg.PNSLevel > MaxPNSLevel {
		bad("PNS level %d outside [0, %d]", cfg.PNSLevel, MaxPNSLevel)
	}
	if channels == 6 && !cfg.UseLFE {
		bad("six channels require the LFE channel")
	}

	return errors.Join(errs...)
}

func validateChannelMap(m []int, channels int) error {
	if len(m) != channels {
		return fmt.Errorf("channel map has %d entries, want %d", len(m), channels)
	}
	seen := make([]bool, channels)
	for i, c := range m {
		if c < 0 || c >= channels || seen[c] {
			return fmt.Errorf("channel map entry %d (%d) is not a permutation", i, c)
		}
		seen[c] = true
	}
	return nil
}

// cutoff returns the coded bandwidth in Hz of cfg at sampleRate.
func cutoff(cfg *Configuration, sampleRate int) int {
	nyquist := sampleRate / 2
	if cfg.BandWidth > 0 {
		return min(cfg.BandWidth, nyquist)
	}
	if cfg.BitRate > 0 {
		return min(nyquist, bandwidthBase+int(bandwidthPerRate*float64(cfg.BitRate)))
	}
	return min(nyquist, maxAutoBandwidth, qualityBase+qualityPerQual*cfg.QuantQual)
}
