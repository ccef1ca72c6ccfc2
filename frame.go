package aacenc

import (
	"errors"
	"fmt"
	"math"

	"github.com/llehouerou/go-aacenc/internal/bits"
	"github.com/llehouerou/go-aacenc/internal/psy"
	"github.com/llehouerou/go-aacenc/internal/quant"
	"github.com/llehouerou/go-aacenc/internal/spectrum"
	"github.com/llehouerou/go-aacenc/internal/syntax"
)

const (
	adtsHeaderBits = syntax.ADTSHeaderSize * syntax.LenByte
	fillSlackBits  = 16 // Fill and END alignment overshoot
)

// encodeFrame encodes the frame whose analysis block starts the input,
// queues its access unit and advances the input by one frame.
func (e *Encoder) encodeFrame() error {
	for c, ch := range e.chans {
		if ch.lfe {
			continue
		}
		buf := e.input[c]
		if !ch.detected {
			ch.nextAttack = ch.attack.Detect(buf[:2*FrameLength])
			ch.detected = true
		}
		ch.curAttack = ch.nextAttack
		ch.nextAttack = ch.attack.Detect(buf[FrameLength:blockSamples])
	}

	for _, es := range e.elements {
		if err := e.analyzeElement(es); err != nil {
			return err
		}
	}
	au, err := e.assemble()
	if err != nil {
		return err
	}
	e.queue = append(e.queue, au)
	e.frames++

	for c, buf := range e.input {
		n := copy(buf, buf[FrameLength:])
		e.input[c] = buf[:n]
	}
	return nil
}

// sequence picks the window sequence of an element from the attacks of
// its channels. A pair shares one decision.
func (e *Encoder) sequence(es *elementState) syntax.WindowSequence {
	if es.layout.id == syntax.IDLFE {
		return syntax.OnlyLongSequence
	}
	var attack, next bool
	for _, c := range es.layout.channels {
		attack = attack || e.chans[c].curAttack
		next = next || e.chans[c].nextAttack
	}
	switch e.cfg.ShortCtl {
	case ShortCtlNoShort:
		attack, next = false, false
	case ShortCtlNoLong:
		attack, next = true, true
	}
	return es.switcher.Next(attack, next)
}

// analyzeElement runs the filterbank, the psychoacoustic model and the
// spectral tools of one element and leaves the allowed noise of its
// channels ready for quantization.
func (e *Encoder) analyzeElement(es *elementState) error {
	chs := es.layout.channels
	pair := es.layout.id == syntax.IDCPE
	lfe := es.layout.id == syntax.IDLFE

	seq := e.sequence(es)
	for _, c := range chs {
		e.fb.Analyze(seq, e.input[c][:2*FrameLength], e.chans[c].spec)
	}

	es.el = syntax.Element{ID: es.layout.id, Tag: es.layout.tag, CommonWindow: pair}
	ics := &es.el.ICS1
	ics.WindowSequence = seq
	if seq == syntax.EightShortSequence {
		g := e.chans[chs[0]].spec
		if pair {
			l, r := g, e.chans[chs[1]].spec
			g = e.groupSpec
			for i := range g {
				g[i] = math.Sqrt(l[i]*l[i] + r[i]*r[i])
			}
		}
		ics.ScaleFactorGrouping = syntax.GroupingBits(psy.Grouping(g))
	}
	if err := syntax.WindowGroupingInfo(ics, e.srIndex); err != nil {
		return err
	}
	ics.MaxSFB = e.maxSFB(ics, lfe)
	if pair {
		syntax.CopyWindowInfo(&es.el.ICS2, ics)
	}

	streams := es.streams()
	for i, c := range chs {
		ch := e.chans[c]
		ch.model.Analyze(streams[i], ch.spec, &ch.res)
	}

	if e.cfg.UseTNS && !lfe {
		for i, c := range chs {
			spectrum.AnalyzeTNS(streams[i], e.chans[c].spec, e.srIndex)
		}
	}

	var ms *syntax.ICStream
	if pair {
		l, r := e.chans[chs[0]], e.chans[chs[1]]
		if e.cfg.JointMode == JointIS {
			spectrum.ISEncode(&es.el.ICS1, &es.el.ICS2, l.spec, r.spec, e.sampleRate)
		}
		if e.cfg.JointMode == JointMS || e.cfg.AllowMidSide {
			spectrum.MSEncode(&es.el.ICS1, &es.el.ICS2, l.spec, r.spec)
		}
		ms = &es.el.ICS1
	}

	if e.cfg.PNSLevel > 0 && e.cfg.MPEGVersion == MPEG4 && !lfe {
		for i, c := range chs {
			spectrum.PNSEncode(streams[i], e.chans[c].spec, e.sampleRate, e.cfg.PNSLevel, ms)
		}
	}

	for i, c := range chs {
		ch := e.chans[c]
		quant.FromPsy(streams[i], &ch.res, &ch.allowed)
	}
	if pair {
		quant.MidSide(&es.el.ICS1, &e.chans[chs[0]].allowed, &e.chans[chs[1]].allowed)
	}
	for i, c := range chs {
		e.chans[c].toolSF = streams[i].ScaleFactors
	}
	return nil
}

// maxSFB returns the number of bands starting below the cutoff.
func (e *Encoder) maxSFB(ics *syntax.ICStream, lfe bool) int {
	cut := float64(e.cutoffHz)
	if lfe {
		cut = lfeBandwidth
	}
	hzPerLine := float64(e.sampleRate) / float64(2*ics.WindowLength())
	n := 0
	for n < ics.NumSWB && float64(ics.SWBOffset[n])*hzPerLine < cut {
		n++
	}
	return max(n, 1)
}

// measure quantizes every channel with the allowed noise scaled by
// noiseScale and returns the byte aligned size of the raw data block.
func (e *Encoder) measure(noiseScale float64) (int, error) {
	w := &e.scratch
	w.Reset()
	for _, es := range e.elements {
		for i, ics := range es.streams() {
			ch := e.chans[es.layout.channels[i]]
			ics.ScaleFactors = ch.toolSF
			quant.Quantize(&quant.Channel{ICS: ics, Spec: ch.spec, Allowed: &ch.allowed}, noiseScale)
			syntax.BuildSections(ics)
		}
		if err := syntax.WriteElement(w, &es.el); err != nil {
			return 0, err
		}
	}
	n := w.Len() + syntax.EndBits
	return (n + 7) / 8 * 8, nil
}

func (e *Encoder) headerBits() int {
	if e.cfg.OutputFormat == OutputADTS {
		return adtsHeaderBits
	}
	return 0
}

// rateControl quantizes the frame and returns its size in bits.
func (e *Encoder) rateControl() (int, error) {
	hardMax := e.MaxOutputBytes()*8 - e.headerBits()

	if e.reservoir == nil {
		n, err := e.measure(e.noiseScale)
		if err != nil || n <= hardMax {
			return n, err
		}
		_, n, err = quant.SearchOffset(func(s float64) (int, error) {
			return e.measure(e.noiseScale * s)
		}, hardMax)
		return n, err
	}

	pe, short := 0.0, false
	for _, es := range e.elements {
		short = short || es.el.ICS1.WindowSequence == syntax.EightShortSequence
		for _, c := range es.layout.channels {
			pe += e.chans[c].res.PE
		}
	}
	// The reservoir counts whole access units, headers included.
	budget := min(e.reservoir.Budget(pe, short)-e.headerBits(), hardMax)
	_, n, err := quant.SearchOffset(e.measure, budget)
	if errors.Is(err, quant.ErrFrameTooLarge) && n <= hardMax {
		err = nil
	}
	return n, err
}

// assemble quantizes the analysed frame and builds its access unit.
func (e *Encoder) assemble() ([]byte, error) {
	used, err := e.rateControl()
	if err != nil {
		return nil, err
	}
	hardMax := e.MaxOutputBytes()*8 - e.headerBits()

	w := &e.scratch
	w.Reset()
	for _, es := range e.elements {
		if err := syntax.WriteElement(w, &es.el); err != nil {
			return nil, err
		}
	}
	if e.reservoir != nil {
		fill := min(e.reservoir.FillBits(used+e.headerBits()), hardMax-used-fillSlackBits)
		if fill > 0 {
			if _, err := syntax.WriteFill(w, fill); err != nil {
				return nil, err
			}
		}
	}
	syntax.WriteEnd(w)
	raw := w.Bytes()
	if len(raw)*8 > hardMax {
		return nil, fmt.Errorf("%w: %d bits", quant.ErrFrameTooLarge, len(raw)*8)
	}

	fullness := uint16(syntax.ADTSBufferFullnessVBR)
	if e.reservoir != nil {
		e.reservoir.Commit(len(raw)*8 + e.headerBits())
		level := max(e.reservoir.Level(), 0)
		fullness = uint16(min(level/(32*e.channels), syntax.ADTSBufferFullnessVBR-1))
	}

	if e.cfg.OutputFormat != OutputADTS {
		return append([]byte(nil), raw...), nil
	}
	h := syntax.ADTSHeader{
		ID:                   uint8(e.cfg.MPEGVersion),
		ProtectionAbsent:     true,
		Profile:              uint8(e.cfg.ObjectType) - 1,
		SFIndex:              uint8(e.srIndex),
		ChannelConfiguration: uint8(e.channels),
		AACFrameLength:       uint16(syntax.ADTSHeaderSize + len(raw)),
		ADTSBufferFullness:   fullness,
	}
	hw := bits.NewWriter(syntax.ADTSHeaderSize)
	if err := h.Write(hw); err != nil {
		return nil, err
	}
	au := make([]byte, 0, syntax.ADTSHeaderSize+len(raw))
	au = append(au, hw.Bytes()...)
	return append(au, raw...), nil
}
