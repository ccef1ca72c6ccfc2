package aacenc

import (
	"errors"
	"reflect"
	"testing"
)

func TestDefaultConfiguration(t *testing.T) {
	enc, err := Open(48000, 6)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	cfg, err := enc.CurrentConfiguration()
	if err != nil {
		t.Fatalf("CurrentConfiguration: %v", err)
	}

	if cfg.Version != ConfigVersion {
		t.Errorf("Version = %d, want %d", cfg.Version, ConfigVersion)
	}
	if cfg.Name != LibraryID {
		t.Errorf("Name = %q, want %q", cfg.Name, LibraryID)
	}
	if cfg.MPEGVersion != MPEG4 || cfg.ObjectType != ObjectTypeLC {
		t.Errorf("MPEGVersion, ObjectType = %d, %d, want MPEG4, LC", cfg.MPEGVersion, cfg.ObjectType)
	}
	if cfg.BitRate != 0 || cfg.QuantQual != DefaultQuantQual {
		t.Errorf("BitRate, QuantQual = %d, %d, want 0, %d", cfg.BitRate, cfg.QuantQual, DefaultQuantQual)
	}
	if !cfg.UseLFE {
		t.Error("UseLFE = false for 6 channels")
	}
	if cfg.OutputFormat != OutputADTS {
		t.Errorf("OutputFormat = %d, want ADTS", cfg.OutputFormat)
	}
	if len(cfg.PsyModels) != 2 {
		t.Errorf("len(PsyModels) = %d, want 2", len(cfg.PsyModels))
	}
	if want := []int{0, 1, 2, 3, 4, 5}; !reflect.DeepEqual(cfg.ChannelMap, want) {
		t.Errorf("ChannelMap = %v, want %v", cfg.ChannelMap, want)
	}
	if cfg.PNSLevel != DefaultPNSLevel {
		t.Errorf("PNSLevel = %d, want %d", cfg.PNSLevel, DefaultPNSLevel)
	}
}

func TestCurrentConfiguration_Idempotent(t *testing.T) {
	enc, err := Open(44100, 2)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	cfg, _ := enc.CurrentConfiguration()
	cfg.BitRate = 96000
	cfg.UseTNS = true
	cfg.ChannelMap = []int{1, 0}
	if err := enc.SetConfiguration(cfg); err != nil {
		t.Fatalf("SetConfiguration: %v", err)
	}

	first, _ := enc.CurrentConfiguration()
	if err := enc.SetConfiguration(first); err != nil {
		t.Fatalf("SetConfiguration(current): %v", err)
	}
	second, _ := enc.CurrentConfiguration()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("configuration changed on reapply:\n got %+v\nwant %+v", second, first)
	}
	if !reflect.DeepEqual(first, cfg) {
		t.Errorf("CurrentConfiguration = %+v, want %+v", first, cfg)
	}
}

func TestCurrentConfiguration_Snapshot(t *testing.T) {
	enc, _ := Open(44100, 2)
	cfg, _ := enc.CurrentConfiguration()
	cfg.ChannelMap[0] = 1
	cfg.PsyModels[0].Name = "changed"

	got, _ := enc.CurrentConfiguration()
	if got.ChannelMap[0] != 0 {
		t.Errorf("ChannelMap[0] = %d after changing a snapshot, want 0", got.ChannelMap[0])
	}
	if got.PsyModels[0].Name == "changed" {
		t.Error("PsyModels changed through a snapshot")
	}
}

func TestSetConfiguration_ReadOnlyFields(t *testing.T) {
	enc, _ := Open(44100, 1)
	cfg, _ := enc.CurrentConfiguration()
	cfg.Name = "other"
	cfg.Copyright = ""
	cfg.PsyModels = nil
	if err := enc.SetConfiguration(cfg); err != nil {
		t.Fatalf("SetConfiguration: %v", err)
	}
	got, _ := enc.CurrentConfiguration()
	if got.Name != LibraryID || got.Copyright != Copyright || len(got.PsyModels) != 2 {
		t.Errorf("read-only fields = %q, %q, %d models, want defaults", got.Name, got.Copyright, len(got.PsyModels))
	}
}

func TestSetConfiguration_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Configuration)
		wantErr bool
	}{
		{"defaults", func(*Configuration) {}, false},
		{"bad version", func(c *Configuration) { c.Version = 104 }, true},
		{"mpeg2", func(c *Configuration) { c.MPEGVersion = MPEG2 }, false},
		{"mpeg version out of range", func(c *Configuration) { c.MPEGVersion = 2 }, true},
		{"main", func(c *Configuration) { c.ObjectType = ObjectTypeMain }, false},
		{"ltp", func(c *Configuration) { c.ObjectType = ObjectTypeLTP }, false},
		{"ltp on mpeg2", func(c *Configuration) { c.ObjectType, c.MPEGVersion = ObjectTypeLTP, MPEG2 }, true},
		{"ssr", func(c *Configuration) { c.ObjectType = ObjectTypeSSR }, true},
		{"object type 5", func(c *Configuration) { c.ObjectType = 5 }, true},
		{"intensity", func(c *Configuration) { c.JointMode = JointIS }, false},
		{"joint mode out of range", func(c *Configuration) { c.JointMode = 3 }, true},
		{"lowest bit rate", func(c *Configuration) { c.BitRate = 11025 }, false},
		{"bit rate too low", func(c *Configuration) { c.BitRate = 11024 }, true},
		{"highest bit rate", func(c *Configuration) { c.BitRate = 6 * 44100 }, false},
		{"bit rate too high", func(c *Configuration) { c.BitRate = 6*44100 + 1 }, true},
		{"negative bit rate", func(c *Configuration) { c.BitRate = -1 }, true},
		{"bandwidth nyquist", func(c *Configuration) { c.BandWidth = 22050 }, false},
		{"bandwidth above nyquist", func(c *Configuration) { c.BandWidth = 22051 }, true},
		{"negative bandwidth", func(c *Configuration) { c.BandWidth = -1 }, true},
		{"quality too low", func(c *Configuration) { c.QuantQual = MinQuantQual - 1 }, true},
		{"quality too high", func(c *Configuration) { c.QuantQual = MaxQuantQual + 1 }, true},
		{"raw output", func(c *Configuration) { c.OutputFormat = OutputRaw }, false},
		{"output format out of range", func(c *Configuration) { c.OutputFormat = 2 }, true},
		{"fixed psy model", func(c *Configuration) { c.PsyModelIdx = 1 }, false},
		{"psy model out of range", func(c *Configuration) { c.PsyModelIdx = 2 }, true},
		{"null input format", func(c *Configuration) { c.InputFormat = InputFormatNull }, true},
		{"float input", func(c *Configuration) { c.InputFormat = InputFormatFloat }, false},
		{"input format out of range", func(c *Configuration) { c.InputFormat = 5 }, true},
		{"no long blocks", func(c *Configuration) { c.ShortCtl = ShortCtlNoLong }, false},
		{"short control out of range", func(c *Configuration) { c.ShortCtl = 3 }, true},
		{"swapped channels", func(c *Configuration) { c.ChannelMap = []int{1, 0} }, false},
		{"channel map too short", func(c *Configuration) { c.ChannelMap = []int{0} }, true},
		{"channel map duplicate", func(c *Configuration) { c.ChannelMap = []int{1, 1} }, true},
		{"channel map out of range", func(c *Configuration) { c.ChannelMap = []int{0, 2} }, true},
		{"pns off", func(c *Configuration) { c.PNSLevel = 0 }, false},
		{"pns too high", func(c *Configuration) { c.PNSLevel = MaxPNSLevel + 1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := Open(44100, 2)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			before, _ := enc.CurrentConfiguration()
			cfg, _ := enc.CurrentConfiguration()
			tt.mutate(&cfg)

			err = enc.SetConfiguration(cfg)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfiguration) {
					t.Fatalf("SetConfiguration error = %v, want ErrInvalidConfiguration", err)
				}
				after, _ := enc.CurrentConfiguration()
				if !reflect.DeepEqual(after, before) {
					t.Errorf("rejected configuration changed the session:\n got %+v\nwant %+v", after, before)
				}
				return
			}
			if err != nil {
				t.Fatalf("SetConfiguration: %v", err)
			}
		})
	}
}

func TestSetConfiguration_ReportsAllProblems(t *testing.T) {
	enc, _ := Open(44100, 2)
	cfg, _ := enc.CurrentConfiguration()
	cfg.Version = 0
	cfg.BitRate = 1
	cfg.PNSLevel = -1

	err := enc.SetConfiguration(cfg)
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		t.Fatalf("error %v does not join the problems", err)
	}
	// The outer wrap holds the code and the joined problems.
	inner := joined.Unwrap()
	if len(inner) != 2 {
		t.Fatalf("len(Unwrap()) = %d, want 2", len(inner))
	}
	var problems interface{ Unwrap() []error }
	if !errors.As(inner[1], &problems) {
		t.Fatalf("%v is not a joined error", inner[1])
	}
	if n := len(problems.Unwrap()); n != 3 {
		t.Errorf("problems = %d (%v), want 3", n, err)
	}
}

func TestSetConfiguration_SixChannelsNeedLFE(t *testing.T) {
	enc, _ := Open(48000, 6)
	cfg, _ := enc.CurrentConfiguration()
	cfg.UseLFE = false
	if err := enc.SetConfiguration(cfg); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("SetConfiguration without LFE = %v, want ErrInvalidConfiguration", err)
	}
}

func TestSetConfiguration_FrozenAfterEncoding(t *testing.T) {
	enc := newEncoder(t, 44100, 1, nil)
	out := make([]byte, enc.MaxOutputBytes())
	if _, err := enc.EncodeInt16(make([]int16, 1024), out); err != nil {
		t.Fatalf("EncodeInt16: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Configuration)
		wantErr bool
	}{
		{"bit rate", func(c *Configuration) { c.BitRate = 64000 }, false},
		{"tns", func(c *Configuration) { c.UseTNS = true }, false},
		{"output format", func(c *Configuration) { c.OutputFormat = OutputRaw }, true},
		{"mpeg version", func(c *Configuration) { c.MPEGVersion = MPEG2 }, true},
		{"object type", func(c *Configuration) { c.ObjectType = ObjectTypeMain }, true},
	}
	for _, tt := range tests {
		cfg, _ := enc.CurrentConfiguration()
		tt.mutate(&cfg)
		err := enc.SetConfiguration(cfg)
		if got := err != nil; got != tt.wantErr {
			t.Errorf("%s: SetConfiguration error = %v, want error %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestCutoff(t *testing.T) {
	tests := []struct {
		name       string
		bitRate    int
		bandWidth  int
		quantQual  int
		sampleRate int
		want       int
	}{
		{"explicit", 0, 12000, 100, 44100, 12000},
		{"explicit above nyquist", 0, 30000, 100, 44100, 22050},
		{"bit rate", 64000, 0, 100, 44100, 19000},
		{"bit rate capped", 128000, 0, 100, 44100, 22050},
		{"quality", 0, 0, 50, 44100, 12500},
		{"quality capped", 0, 0, 500, 48000, 20000},
		{"quality nyquist", 0, 0, 100, 16000, 8000},
	}
	for _, tt := range tests {
		cfg := Configuration{BitRate: tt.bitRate, BandWidth: tt.bandWidth, QuantQual: tt.quantQual}
		if got := cutoff(&cfg, tt.sampleRate); got != tt.want {
			t.Errorf("%s: cutoff = %d, want %d", tt.name, got, tt.want)
		}
	}
}
