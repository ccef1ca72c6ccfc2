package syntax

// Limit constants for AAC-LC channel streams.
const (
	MaxWindowGroups = 8            // Maximum number of window groups
	MaxWindows      = 8            // Windows in EIGHT_SHORT
	MaxSFB          = 51           // Maximum number of scalefactor bands
	FrameLength     = 1024         // Spectral lines per channel and frame
	ShortLength     = 128          // Spectral lines per short window
	MaxTNSFilters   = 4            // Filters per window
	MaxTNSOrder     = 20           // Largest order the syntax can carry
	MaxFillCount    = 15 + 255 - 1 // Largest payload of one fill element
)
